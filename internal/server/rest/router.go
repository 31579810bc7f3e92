package rest

import (
	"time"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/status", s.getStatus)
	r.GET("/stats", s.getStats)

	r.POST("/users", s.postUser)
	r.GET("/connect", s.getConnect)
	r.GET("/disconnect", s.getDisconnect)

	// content of public files is readable without a session
	r.GET("/files/:id/data", s.getFileData)

	authed := r.Group("/")
	authed.Use(s.requireSession())
	{
		authed.GET("/users/me", s.getMe)
		authed.POST("/files", s.postFile)
		authed.GET("/files", s.getFiles)
		authed.GET("/files/:id", s.getFile)
		authed.PUT("/files/:id/publish", s.putPublish)
		authed.PUT("/files/:id/unpublish", s.putUnpublish)
	}

	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
