package http

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// wildcardOrigin in CORS_ALLOW_ORIGINS allows every origin. Credentials are not
// allowed in that mode; bearer tokens travel in the Authorization header anyway.
const wildcardOrigin = "*"

// createCORSMiddleware returns nil when CORS is disabled or no origin is configured.
// Preflight requests are answered here, before authentication runs.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("cors enabled but no origins configured, cors will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if slices.Contains(origins, wildcardOrigin) {
		config.AllowAllOrigins = true
		logger.Info("cors enabled for all origins")
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
		logger.Info("cors enabled", slog.Any("origins", origins))
	}

	return cors.New(config)
}

// parseOrigins splits a comma separated origin list, dropping blanks and duplicates.
func parseOrigins(value string) []string {
	var origins []string
	for part := range strings.SplitSeq(value, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin != "" && !slices.Contains(origins, origin) {
			origins = append(origins, origin)
		}
	}
	return origins
}
