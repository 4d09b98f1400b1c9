// Package server exposes the affordability engine over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rgehrsitz/mortgo/internal/metrics"
)

// Options configures the HTTP server
type Options struct {
	Port               int
	Version            string
	RateLimitPerMinute int           // zero disables rate limiting
	RequestTimeout     time.Duration // zero disables the per-request deadline
}

type Server struct {
	httpServer *http.Server
	limiter    *RateLimiter
}

// NewServer creates a new Server instance
func NewServer(calc Calculator, opts Options) *Server {
	s := &Server{}
	if opts.RateLimitPerMinute > 0 {
		s.limiter = NewRateLimiter(opts.RateLimitPerMinute, time.Minute)
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.routes(calc, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes(calc Calculator, opts Options) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(requestSizeLimitMiddleware(MaxBodyBytes))

	r.Get("/healthz", HandleHealthz())
	r.Get("/readyz", HandleReadyz(calc))
	r.Get("/version", HandleVersion(opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimitMiddleware(s.limiter))
		}
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}

		r.Post("/payment", HandlePayment(calc))

		r.Route("/affordability", func(r chi.Router) {
			r.Post("/", HandleAffordability(calc))
			r.Post("/compare", HandleCompare(calc))
			r.Post("/required-income", HandleRequiredIncome(calc))
			r.Post("/max-rate", HandleMaxRate(calc))
		})
	})

	return r
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr reports the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving until Stop is called
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
