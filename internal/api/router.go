package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/archetypehq/qrtrack/internal/analytics"
	"github.com/archetypehq/qrtrack/internal/api/handlers"
	"github.com/archetypehq/qrtrack/internal/api/middleware"
	"github.com/archetypehq/qrtrack/internal/auth"
	"github.com/archetypehq/qrtrack/internal/badge"
	"github.com/archetypehq/qrtrack/internal/brand"
	"github.com/archetypehq/qrtrack/internal/cache"
	"github.com/archetypehq/qrtrack/internal/campaign"
	"github.com/archetypehq/qrtrack/internal/config"
	"github.com/archetypehq/qrtrack/internal/notification"
	"github.com/archetypehq/qrtrack/internal/queue"
	"github.com/archetypehq/qrtrack/internal/reward"
	"github.com/archetypehq/qrtrack/internal/scan"
	"github.com/archetypehq/qrtrack/internal/team"
	"github.com/archetypehq/qrtrack/internal/user"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	codec *auth.TokenCodec
	authn *auth.Middleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret)
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		codec: codec,
		authn: auth.NewMiddleware(codec),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	r.Get("/health", handlers.Health)

	// Initialize services
	queueClient := queue.NewClient(rt.cfg.Redis)
	redisCache := cache.NewCache(rt.redis)
	notifier := notification.NewDispatcher(rt.db, redisCache, queueClient)

	userSvc := user.NewService(rt.db)
	campaignSvc := campaign.NewService(rt.db)
	badgeSvc := badge.NewService(rt.db)
	rewardSvc := reward.NewService(rt.db)
	teamSvc := team.NewService(rt.db)
	brandSvc := brand.NewService(rt.db)
	analyticsSvc := analytics.NewService(rt.db)
	recorder := scan.NewRecorder(rt.db, notifier)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		authH := handlers.NewAuthHandler(userSvc, rt.codec)
		r.Post("/auth/social", authH.SocialLogin)

		scanH := handlers.NewScanHandler(recorder, rt.codec)
		r.Post("/scan", scanH.Record)

		// Everything below requires a verified token
		r.Group(func(r chi.Router) {
			r.Use(rt.authn.Authenticate)

			userH := handlers.NewUserHandler(userSvc, notifier, rt.codec)
			r.Post("/user/brand", userH.CreateBrand)
			r.Get("/user/preferences", userH.GetPreferences)
			r.Put("/user/preferences", userH.UpdatePreferences)

			campaignH := handlers.NewCampaignHandler(campaignSvc)
			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", campaignH.List)
				r.Post("/", campaignH.Create)
				r.Put("/{id}", campaignH.Update)
				r.Delete("/{id}", campaignH.Delete)
			})

			badgeH := handlers.NewBadgeHandler(badgeSvc)
			r.Route("/badges", func(r chi.Router) {
				r.Get("/", badgeH.List)
				r.Post("/", badgeH.Create)
				r.Put("/{id}", badgeH.Update)
				r.Delete("/{id}", badgeH.Delete)
			})

			rewardH := handlers.NewRewardHandler(rewardSvc)
			r.Route("/rewards", func(r chi.Router) {
				r.Get("/", rewardH.List)
				r.Post("/", rewardH.Create)
				r.Post("/{id}/use", rewardH.Use)
				r.Delete("/{id}", rewardH.Delete)
			})

			teamH := handlers.NewTeamHandler(teamSvc)
			r.Route("/team", func(r chi.Router) {
				r.Get("/", teamH.List)
				r.Post("/invite", teamH.Invite)
				r.Patch("/{id}", teamH.UpdateRole)
				r.Delete("/{id}", teamH.Remove)
			})

			analyticsH := handlers.NewAnalyticsHandler(analyticsSvc)
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/summary", analyticsH.Summary)
				r.Get("/detailed", analyticsH.Detailed)
			})

			headerH := handlers.NewHeaderHandler(notifier)
			r.Get("/header", headerH.Feed)

			// Tenant administration, super admins only
			brandH := handlers.NewBrandHandler(brandSvc)
			r.Route("/admin/brands", func(r chi.Router) {
				r.Use(auth.RequireSuperAdmin)
				r.Get("/", brandH.List)
				r.Post("/", brandH.Create)
				r.Put("/{id}", brandH.Update)
				r.Delete("/{id}", brandH.Delete)
			})
		})
	})

	return r
}
