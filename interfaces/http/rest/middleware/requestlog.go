package middleware

import (
	"context"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/chain"
)

// RequestLog persists one document per handled request. The write
// happens after the response so it never adds latency, and a failed
// write is only logged.
func RequestLog(repo ports.RequestLogRepository, logger *zap.Logger) chain.HandlerFunc {
	return func(c *chain.Context) error {
		start := time.Now()

		c.Next()

		entry := &domain.RequestLogEntry{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			IP:         GetClientIP(c.Request),
			RequestID:  chimiddleware.GetReqID(c.Request.Context()),
			CreatedAt:  start,
		}
		if userCtx, err := auth.GetUserFromContext(c.Request.Context()); err == nil {
			if oid, err := primitive.ObjectIDFromHex(userCtx.UserID); err == nil {
				entry.UserID = &oid
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := repo.Append(ctx, entry); err != nil {
			logger.Warn("request log write failed", zap.Error(err))
		}
		return nil
	}
}
