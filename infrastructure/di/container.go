// Package di hand-wires the application's dependencies.
package di

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"memeboard-backend/application/ports"
	"memeboard-backend/application/services"
	"memeboard-backend/infrastructure/config"
	"memeboard-backend/infrastructure/persistence/mongodb"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/httpx"
)

// Container holds every constructed dependency for the API server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	MongoClient *mongo.Client

	AuthService      *services.AuthService
	UserService      *services.UserService
	MemeService      *services.MemeService
	ShortLinkService *services.ShortLinkService

	IPLimiter    *auth.IPRateLimiter
	UserLimiter  *auth.UserRateLimiter
	LoginLimiter *auth.TokenBucketLimiter

	RequestLog  ports.RequestLogRepository
	ProxyClient *httpx.Client
}

// InitializeContainer constructs the full dependency graph: logger,
// Mongo connection and indexes, repositories, limiters and services.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := provideLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, db, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	users := mongodb.NewUserRepository(db)
	memes := mongodb.NewMemeRepository(db)
	tokens := mongodb.NewTokenRepository(db)
	links := mongodb.NewShortLinkRepository(db)
	requestLog := mongodb.NewRequestLogRepository(db)

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		TTL:       cfg.JWTTokenTTL,
	})
	if err != nil {
		return nil, err
	}

	// The per-IP and per-user windows share one backend. With the
	// Mongo store enabled every instance counts against the same
	// windows; otherwise each instance keeps its own in memory.
	var ipBackend, userBackend auth.RateLimiter
	if cfg.EnableMongoRateLimit {
		store := mongodb.NewRateLimitStore(db)
		ipBackend = mongodb.NewDistributedRateLimiter(store, cfg.IPRateLimit, cfg.IPRateWindow)
		userBackend = mongodb.NewDistributedRateLimiter(store, cfg.UserRateLimit, cfg.UserRateWindow)
	} else {
		ipBackend = auth.NewSlidingWindowLimiter(cfg.IPRateLimit, cfg.IPRateWindow)
		userBackend = auth.NewSlidingWindowLimiter(cfg.UserRateLimit, cfg.UserRateWindow)
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		MongoClient: client,

		AuthService:      services.NewAuthService(users, tokens, jwtService, logger),
		UserService:      services.NewUserService(users, logger),
		MemeService:      services.NewMemeService(memes, users, logger),
		ShortLinkService: services.NewShortLinkService(links, logger),

		IPLimiter:    auth.NewIPRateLimiter(ipBackend),
		UserLimiter:  auth.NewUserRateLimiter(userBackend),
		LoginLimiter: auth.NewTokenBucketLimiter(cfg.LoginBurstSize, loginRefillRate(cfg)),

		RequestLog: requestLog,
		ProxyClient: httpx.NewClient(httpx.Options{
			Timeout:      cfg.ProxyTimeout,
			MaxBodyBytes: cfg.ProxyMaxBodyBytes,
			BreakerName:  "shortlink-proxy",
		}),
	}, nil
}

// Shutdown releases held resources.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.MongoClient != nil {
		return c.MongoClient.Disconnect(ctx)
	}
	return nil
}

// loginRefillRate converts a per-minute refill count into the bucket's
// interval between tokens.
func loginRefillRate(cfg *config.Config) time.Duration {
	perMin := cfg.LoginRefillPerMin
	if perMin <= 0 {
		perMin = 1
	}
	return time.Minute / time.Duration(perMin)
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
