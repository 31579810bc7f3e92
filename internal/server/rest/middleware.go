package rest

import (
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := s.auth.ResolveSession(c.Request.Context(), c.GetHeader(common.TokenHeaderName))
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// optionalSession resolves the caller if a valid token is present and
// returns "" otherwise.
func (s *Server) optionalSession(c *gin.Context) string {
	token := c.GetHeader(common.TokenHeaderName)
	if token == "" {
		return ""
	}
	userID, err := s.auth.ResolveSession(c.Request.Context(), token)
	if err != nil {
		return ""
	}
	return userID
}
