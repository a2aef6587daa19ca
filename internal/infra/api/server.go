package api

import (
	"net/http"
	"time"

	"razorpay-facade/internal/config"
	"razorpay-facade/internal/infra/metrics"
	"razorpay-facade/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server exposes the order and verification use cases over HTTP.
type Server struct {
	orders   usecase.OrderUseCase
	verifier usecase.VerifyUseCase
	log      *zerolog.Logger
	opts     Options
}

type Options struct {
	RequestTimeout time.Duration
	TrustProxy     bool
	ServiceName    string

	// Limiter is nil when rate limiting is disabled.
	Limiter   Limiter
	RateLimit config.RateLimitConfig

	// Now is the clock behind the health timestamp.
	Now func() time.Time
}

// NewServer constructs the HTTP layer; logger may be nil.
func NewServer(orders usecase.OrderUseCase, verifier usecase.VerifyUseCase, logger *zerolog.Logger, opts Options) *Server {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "razorpay-facade"
	}
	return &Server{orders: orders, verifier: verifier, log: logger, opts: opts}
}

// Routes builds the router. Every response is JSON except /metrics.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		TraceID(s.log),
		RequestLog(s.log),
		Recover(s.log),
		CORS(),
		Timeout(s.opts.RequestTimeout),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	r.Get("/", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	rl := s.opts.RateLimit
	r.Route("/api", func(r chi.Router) {
		r.With(RateLimit(s.opts.Limiter, "create_order", rl.Requests, rl.Window, s.log)).
			Post("/create-payment-order", s.handleCreateOrder)
		r.With(RateLimit(s.opts.Limiter, "verify_payment", rl.Requests, rl.Window, s.log)).
			Post("/verify-payment", s.handleVerifyPayment)
	})

	return otelhttp.NewHandler(r, s.opts.ServiceName)
}
