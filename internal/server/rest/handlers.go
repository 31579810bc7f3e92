package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type uploadRequest struct {
	Name     string          `json:"name"`
	Type     models.FileType `json:"type"`
	ParentID nodeID          `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// nodeID accepts both the numeric root id 0 and string ids.
type nodeID string

func (n *nodeID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = nodeID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("parentId must be a string or a number")
	}
	*n = nodeID(num.String())
	return nil
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.status.Status(c.Request.Context()))
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.status.Stats(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) postUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("%w: invalid body", common.ErrValidation))
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (s *Server) getConnect(c *gin.Context) {
	token, err := s.auth.Connect(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) getDisconnect(c *gin.Context) {
	if err := s.auth.Disconnect(c.Request.Context(), c.GetHeader(common.TokenHeaderName)); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMe(c *gin.Context) {
	user, err := s.auth.Me(c.Request.Context(), c.GetHeader(common.TokenHeaderName))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

func (s *Server) postFile(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("%w: invalid body", common.ErrValidation))
		return
	}

	file, err := s.files.CreateFile(c.Request.Context(), services.CreateFileRequest{
		OwnerID:  c.GetString(userIDKey),
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		Data:     req.Data,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (s *Server) getFile(c *gin.Context) {
	file, err := s.files.GetByID(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func (s *Server) getFiles(c *gin.Context) {
	// a missing or unparsable page means the first one
	page, _ := strconv.Atoi(c.Query("page"))

	nodes, err := s.files.List(c.Request.Context(), c.GetString(userIDKey), c.Query("parentId"), page)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nodes)
}

func (s *Server) putPublish(c *gin.Context) {
	s.setPublic(c, true)
}

func (s *Server) putUnpublish(c *gin.Context) {
	s.setPublic(c, false)
}

func (s *Server) setPublic(c *gin.Context, value bool) {
	file, err := s.files.SetPublic(c.Request.Context(), c.GetString(userIDKey), c.Param("id"), value)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func (s *Server) getFileData(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.abortWithError(c, fmt.Errorf("%w: invalid size", common.ErrValidation))
			return
		}
		size = n
	}

	content, err := s.files.ReadContent(c.Request.Context(), s.optionalSession(c), c.Param("id"), size)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, content.MimeType, content.Data)
}
