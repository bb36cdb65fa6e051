package http

import (
	"net/http"

	"github.com/fleetdesk-api/internal/application/account"
	"github.com/fleetdesk-api/internal/application/auth"
	"github.com/fleetdesk-api/internal/application/vessel"
	"github.com/fleetdesk-api/internal/config"
	"github.com/fleetdesk-api/internal/domain"
	jwtinfra "github.com/fleetdesk-api/internal/infrastructure/jwt"
	"github.com/fleetdesk-api/internal/infrastructure/sns"
	"github.com/fleetdesk-api/internal/pending"
	"github.com/fleetdesk-api/internal/ratelimit"
	"github.com/fleetdesk-api/internal/transport/http/handler"
	appmiddleware "github.com/fleetdesk-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepos map[domain.Role]AccountRepository
	VesselStore  VesselStore
	ObjectStore  ObjectStore
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
	Pending      *pending.Cache
	Limiter      *ratelimit.Limiter
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — a per-IP flood guard on the public
	// auth endpoints, on top of the per-mobile buckets inside the service.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authRepos := make(map[domain.Role]auth.AccountRepository, len(deps.AccountRepos))
	updaters := make(map[domain.Role]account.AccountUpdater, len(deps.AccountRepos))
	for role, repo := range deps.AccountRepos {
		authRepos[role] = repo
		updaters[role] = repo
	}

	authSvc := auth.NewService(auth.ServiceDeps{
		Repos:   authRepos,
		Pending: deps.Pending,
		Limiter: deps.Limiter,
		SMS:     deps.SMSSender,
		Tokens:  deps.JWTProvider,
		OTPTTL:  cfg.OTPTTL,
	})
	accountSvc := account.NewService(updaters, deps.ObjectStore)
	vesselSvc := vessel.NewService(deps.VesselStore)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	profileH := handler.NewProfileHandler(accountSvc)
	vesselH := handler.NewVesselHandler(vesselSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider, authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)

		mountAuthRoutes(r, "/organizations", domain.RoleOrganization, authH, sensitiveRL)
		mountAuthRoutes(r, "/managers", domain.RoleManager, authH, sensitiveRL)
		mountAuthRoutes(r, "/security", domain.RoleSecurity, authH, sensitiveRL)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/validate-token", profileH.ValidateToken)
			r.Post("/profile/image", profileH.UploadImage)
			r.Get("/profile/image", profileH.ImageURL)

			// Organization-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleOrganization))

				r.Post("/vessels", vesselH.Create)
				r.Get("/vessels", vesselH.List)
				r.Get("/vessels/{id}", vesselH.Get)
				r.Put("/vessels/{id}", vesselH.Update)
				r.Delete("/vessels/{id}", vesselH.Delete)
			})
		})
	})

	return r
}

// mountAuthRoutes wires the signup/OTP/login quartet for one role under its
// URL prefix. All four are rate limited per IP.
func mountAuthRoutes(r chi.Router, prefix string, role domain.Role, h *handler.AuthHandler, rl *appmiddleware.RateLimiter) {
	r.Route(prefix, func(r chi.Router) {
		r.With(rl.Limit).Post("/signup", h.Signup(role))
		r.With(rl.Limit).Post("/send-otp", h.SendOTP(role))
		r.With(rl.Limit).Post("/verify-otp", h.VerifyOTP(role))
		r.With(rl.Limit).Post("/login", h.Login(role))
	})
}
