package server

import (
	"context"
	"net/http"
	"time"

	"github.com/captionly/captionly-be/internal/auth"
	"github.com/captionly/captionly-be/internal/captions"
	"github.com/captionly/captionly-be/internal/config"
	"github.com/captionly/captionly-be/internal/http/handlers"
	"github.com/captionly/captionly-be/internal/middleware"
	"github.com/captionly/captionly-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server. The store,
// generator, and verifier are constructed once by the caller and injected here.
func New(cfg config.Config, store storage.Store, generator captions.Generator, verifier auth.IdentityVerifier) *Server {
	mux := http.NewServeMux()
	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authn := auth.NewAuthenticator(store, verifier)
	handlers.NewAuthHandler(authn, tokens).Register(mux)

	service := captions.NewService(store, generator)
	handlers.NewCaptionHandler(service).Register(mux, middleware.RequireAuth(tokens))

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
