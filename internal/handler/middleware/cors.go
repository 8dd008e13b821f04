package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"reservation-engine/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the CORS policy from config. A "*" origin allows
// every origin and turns credentials off. X-Request-ID and Retry-After are
// always exposed.
func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeaders(cfg.AllowHeaders, "Authorization", idempotencyKeyHeader),
		ExposeHeaders:    withHeaders(cfg.ExposeHeaders, requestIDHeader, "Retry-After"),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	if logger != nil {
		logger.Info("cors policy", "origins", cfg.AllowOrigins, "credentials", corsCfg.AllowCredentials)
	}
	return cors.New(corsCfg)
}

func withHeaders(base []string, extra ...string) []string {
	out := slices.Clone(base)
	for _, h := range extra {
		if !slices.ContainsFunc(out, func(x string) bool { return strings.EqualFold(x, h) }) {
			out = append(out, h)
		}
	}
	return out
}
