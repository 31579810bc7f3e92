// Package rest exposes the auth and file services over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Connect(ctx context.Context, authorization string) (string, error)
	Disconnect(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (string, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

type FileService interface {
	CreateFile(ctx context.Context, req services.CreateFileRequest) (*models.File, error)
	GetByID(ctx context.Context, ownerID, fileID string) (*models.File, error)
	List(ctx context.Context, ownerID, parentID string, page int) ([]*models.File, error)
	SetPublic(ctx context.Context, ownerID, fileID string, value bool) (*models.File, error)
	ReadContent(ctx context.Context, requesterID, fileID string, size int) (*services.Content, error)
}

type StatusService interface {
	Status(ctx context.Context) services.Status
	Stats(ctx context.Context) (*services.Stats, error)
}

type Server struct {
	address string
	auth    AuthService
	files   FileService
	status  StatusService
	logger  logging.Logger
	router  *gin.Engine
}

func NewServer(address string, l logging.Logger, auth AuthService, files FileService, status StatusService) *Server {
	s := &Server{
		address: address,
		auth:    auth,
		files:   files,
		status:  status,
		logger:  l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
