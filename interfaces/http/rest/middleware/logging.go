package middleware

import (
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"memeboard-backend/pkg/chain"
)

// Logger logs every request once the rest of the chain has run.
func Logger(logger *zap.Logger) chain.HandlerFunc {
	return func(c *chain.Context) error {
		start := time.Now()

		c.Next()

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", chimiddleware.GetReqID(c.Request.Context())),
			zap.String("remoteAddr", c.Request.RemoteAddr),
			zap.String("userAgent", c.Request.UserAgent()),
		)
		return nil
	}
}
