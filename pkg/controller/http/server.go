package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// WebhookPath is the route receiving GitHub webhook deliveries
const WebhookPath = "/hooks/github"

type config struct {
	addr          string
	webhookSecret string
	activeRuns    func() int
	now           func() time.Time
}

// Option configures NewServer
type Option func(*config)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithWebhookSecret sets the secret GitHub signs deliveries with. Empty disables verification.
func WithWebhookSecret(secret string) Option {
	return func(c *config) {
		c.webhookSecret = secret
	}
}

// WithActiveRuns reports in-flight backport runs on the health endpoint
func WithActiveRuns(count func() int) Option {
	return func(c *config) {
		c.activeRuns = count
	}
}

// WithClock overrides the clock used for the start time on the health endpoint
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Server receives GitHub webhook deliveries
type Server struct {
	*http.Server
}

// NewServer builds the HTTP server. Deliveries on WebhookPath are passed to webhookUC.
func NewServer(
	ctx context.Context,
	webhookUC interfaces.WebhookUseCase,
	opts ...Option,
) (*Server, error) {
	if webhookUC == nil {
		return nil, goerr.New("webhook use case is required")
	}

	cfg := &config{
		addr: "localhost:8080",
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", healthHandler(cfg.now(), cfg.activeRuns))
	router.Post(WebhookPath, NewWebhookHandler(cfg.webhookSecret, webhookUC).Handle)

	return &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}, nil
}
