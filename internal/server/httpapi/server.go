// Package httpapi exposes the pairing and model exchange services over a
// JSON HTTP surface.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/connectinghands/handshare/internal/logging"
	"github.com/connectinghands/handshare/internal/server/handmodels"
	"github.com/connectinghands/handshare/internal/server/sessions"
	"github.com/connectinghands/handshare/internal/server/users"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Downloader serves payloads for the local storage backend, where signed
// URLs point back at this API. Nil when an object store handles downloads
// itself.
type Downloader interface {
	VerifyToken(token string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

type Server struct {
	address      string
	logger       logging.Logger
	users        *users.Service
	sessions     *sessions.Service
	handModels   *handmodels.Service
	downloads    Downloader
	maxModelSize int64
}

func NewServer(address string, logger logging.Logger, us *users.Service, ss *sessions.Service,
	hs *handmodels.Service, downloads Downloader, maxModelSize int64) (*Server, error) {
	return &Server{
		address:      address,
		logger:       logger.With("module", "http_server"),
		users:        us,
		sessions:     ss,
		handModels:   hs,
		downloads:    downloads,
		maxModelSize: maxModelSize,
	}, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthz)

	r.POST("/users", s.createUser)
	r.GET("/users/:id", s.getUser)

	r.POST("/sessions", s.createSession)
	r.POST("/sessions/join", s.joinSession)
	r.GET("/sessions/:id", s.getSession)
	r.GET("/sessions/:id/poll", s.poll)

	r.POST("/sessions/:id/hand-models", s.uploadHandModelMultipart)
	r.POST("/sessions/:id/hand-models/base64", s.uploadHandModelBase64)
	r.GET("/sessions/:id/hand-models/latest", s.latestHandModel)

	r.GET("/hand-models/:id", s.getHandModel)
	r.POST("/hand-models/:id/confirm", s.confirmHandModel)

	r.GET("/storage/download", s.download)

	return r
}

// Handler returns the configured router. Split out so handler tests can
// drive it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
