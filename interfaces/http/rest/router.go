// Package rest wires the chain handlers into the chi router.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"memeboard-backend/application/ports"
	"memeboard-backend/application/services"
	"memeboard-backend/infrastructure/config"
	"memeboard-backend/interfaces/http/rest/handlers"
	"memeboard-backend/interfaces/http/rest/middleware"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/httpx"
)

// Router creates and configures the HTTP router.
type Router struct {
	cfg    *config.Config
	logger *zap.Logger

	authService      *services.AuthService
	userService      *services.UserService
	memeService      *services.MemeService
	shortLinkService *services.ShortLinkService

	ipLimiter    *auth.IPRateLimiter
	userLimiter  *auth.UserRateLimiter
	loginLimiter *auth.TokenBucketLimiter

	requestLog  ports.RequestLogRepository
	proxyClient *httpx.Client
	mongoClient *mongo.Client
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authService *services.AuthService,
	userService *services.UserService,
	memeService *services.MemeService,
	shortLinkService *services.ShortLinkService,
	ipLimiter *auth.IPRateLimiter,
	userLimiter *auth.UserRateLimiter,
	loginLimiter *auth.TokenBucketLimiter,
	requestLog ports.RequestLogRepository,
	proxyClient *httpx.Client,
	mongoClient *mongo.Client,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		authService:      authService,
		userService:      userService,
		memeService:      memeService,
		shortLinkService: shortLinkService,
		ipLimiter:        ipLimiter,
		userLimiter:      userLimiter,
		loginLimiter:     loginLimiter,
		requestLog:       requestLog,
		proxyClient:      proxyClient,
		mongoClient:      mongoClient,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	errorHandler := errors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	// Every chain shares the recovery middleware and the terminal
	// error dispatcher. Route groups branch from this factory.
	base := chain.NewFactory().
		Use(errorHandler.Recovery()).
		UseOnError(errorHandler.OnChainError)

	if rt.cfg.EnableMetrics {
		base = base.With(middleware.Metrics())
	}
	base = base.With(middleware.Logger(rt.logger))
	if rt.cfg.EnableRequestLog && rt.requestLog != nil {
		base = base.With(middleware.RequestLog(rt.requestLog, rt.logger))
	}

	public := base.With(
		middleware.IPRateLimit(rt.ipLimiter, rt.cfg.IPRateLimit, rt.cfg.IPRateWindow.String()),
	)
	authed := public.With(
		middleware.Authenticate(rt.authService),
		middleware.UserRateLimit(rt.userLimiter, rt.cfg.UserRateLimit, rt.cfg.UserRateWindow.String()),
	)

	authHandler := handlers.NewAuthHandler(rt.authService, rt.userService, rt.loginLimiter, rt.logger)
	userHandler := handlers.NewUserHandler(rt.userService, rt.logger)
	memeHandler := handlers.NewMemeHandler(rt.memeService, rt.logger)
	linkHandler := handlers.NewShortLinkHandler(rt.shortLinkService, rt.proxyClient, rt.logger)

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	// Public short link resolution.
	router.Method(http.MethodGet, "/s/{slug}", public.Handler(linkHandler.Resolve))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Method(http.MethodPost, "/register", public.Handler(authHandler.Register))
			r.Method(http.MethodPost, "/login", public.Handler(authHandler.Login))
			r.Method(http.MethodPost, "/logout", authed.Handler(authHandler.Logout))
			r.Method(http.MethodPost, "/logout-all", authed.Handler(authHandler.LogoutAll))
			r.Method(http.MethodGet, "/me", authed.Handler(authHandler.Me))
		})

		r.Route("/users", func(r chi.Router) {
			r.Method(http.MethodGet, "/", authed.Handler(userHandler.List))
			r.Method(http.MethodGet, "/{userID}", authed.Handler(userHandler.Get))
			r.Method(http.MethodPut, "/{userID}", authed.Handler(userHandler.UpdateProfile))
			r.Method(http.MethodPost, "/{userID}/friend", authed.Handler(userHandler.Friend))
			r.Method(http.MethodDelete, "/{userID}/friend", authed.Handler(userHandler.Unfriend))
		})

		r.Route("/memes", func(r chi.Router) {
			r.Method(http.MethodPost, "/", authed.Handler(memeHandler.Create))
			r.Method(http.MethodGet, "/", authed.Handler(memeHandler.Feed))
			r.Method(http.MethodGet, "/{memeID}", authed.Handler(memeHandler.Get))
			r.Method(http.MethodDelete, "/{memeID}", authed.Handler(memeHandler.Delete))
			r.Method(http.MethodPost, "/{memeID}/like", authed.Handler(memeHandler.Like))
			r.Method(http.MethodDelete, "/{memeID}/like", authed.Handler(memeHandler.Unlike))
		})

		r.Route("/links", func(r chi.Router) {
			r.Method(http.MethodPost, "/", authed.Handler(linkHandler.Create))
			r.Method(http.MethodGet, "/", authed.Handler(linkHandler.ListMine))
			r.Method(http.MethodDelete, "/{slug}", authed.Handler(linkHandler.Delete))
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck verifies the database connection is alive.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if rt.mongoClient != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := rt.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
