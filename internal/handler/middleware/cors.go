package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wedding/site/internal/config"
)

// CORS opens the JSON API to the configured origins. It returns nil when no
// origin is configured; "*" allows any origin without credentials.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		return nil
	}

	c := cors.Config{
		AllowMethods: cfg.AllowedMethods,
		AllowHeaders: cfg.AllowedHeaders,
		MaxAge:       cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = cfg.AllowCredentials
	}
	return cors.New(c)
}
