package middleware

import (
	"net"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per operation. It logs the route template
// rather than the request path so that codes never reach the logs.
func RequestLogger(logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.Int("status", ctx.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", clientIP(ctx)),
			zap.String("user_agent", ctx.Header("User-Agent")),
		}

		if op := ctx.Operation(); op != nil {
			fields = append(fields, zap.String("operation", op.OperationID), zap.String("route", op.Path))
		}

		logger.Info("request", fields...)
	}
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(ctx.RemoteAddr())
	if err != nil {
		return ctx.RemoteAddr()
	}

	return host
}
