package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"authd/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	handler *Handler
}

func NewServer(address string, logger logging.Logger, handler *Handler) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		handler: handler,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	s.handler.Routes(router)

	srv := &http.Server{Addr: s.address, Handler: router}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
