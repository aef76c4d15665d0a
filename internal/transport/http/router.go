package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hr-compass/internal/application/auth"
	"github.com/hr-compass/internal/application/chat"
	"github.com/hr-compass/internal/application/otp"
	"github.com/hr-compass/internal/application/user"
	"github.com/hr-compass/internal/config"
	"github.com/hr-compass/internal/observability"
	"github.com/hr-compass/internal/pkg/cookie"
	"github.com/hr-compass/internal/transport/http/handler"
	appmiddleware "github.com/hr-compass/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo UserRepository
	OtpRepo  OtpRepository
	Notifier CodeNotifier
	LLM      Completer
	Signer   SessionSigner
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer        // nil disables /metrics
	Limiter  *appmiddleware.RateLimiter // nil disables rate limiting
	Logger   *zap.Logger
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Logger

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Logger(log))
	r.Use(appmiddleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !containsWildcard(cfg.AllowedOrigins),
		MaxAge:           300,
	}))

	cookies := cookie.NewManager(cfg.SessionCookieName, cfg.SessionCookieSecure, cfg.SessionExpiry)
	authMw := appmiddleware.Auth(deps.Signer, cookies)

	sensitive := func(h http.HandlerFunc) http.Handler { return h }
	if deps.Limiter != nil {
		sensitive = func(h http.HandlerFunc) http.Handler { return deps.Limiter.Limit(h) }
	}

	userSvc := user.NewService(deps.UserRepo)
	otpSvc := otp.NewService(otp.ServiceDeps{
		UserRepo: deps.UserRepo,
		OtpRepo:  deps.OtpRepo,
		Notifier: deps.Notifier,
		Metrics:  deps.Metrics,
		Logger:   log,
		TTL:      cfg.OTPExpiry,
		HashCost: cfg.OTPHashCost,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		OtpRepo:  deps.OtpRepo,
		Signer:   deps.Signer,
		Metrics:  deps.Metrics,
		Logger:   log,
	})
	chatSvc := chat.NewService(deps.LLM, deps.Metrics, log)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(userSvc, otpSvc, authSvc, cookies, log)
	chatH := handler.NewChatHandler(chatSvc, log)

	r.Get("/health", healthH.Ping)
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Post("/auth/check-user", authH.CheckUser)
		r.Method(http.MethodPost, "/auth/otp", sensitive(authH.IssueOTP))
		r.Method(http.MethodPost, "/auth/callback/otp", sensitive(authH.RedeemOTP))
		r.Post("/auth/signout", authH.SignOut)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/session", authH.Session)
			r.Post("/chat", chatH.Send)
		})
	})

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
