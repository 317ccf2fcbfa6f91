package middleware

import (
	"net/http"
	"strings"

	"prively/config"

	"github.com/gin-gonic/gin"
)

// CORS restricts browser access to the allow-listed origins plus any origin
// ending in a trusted deployment-domain suffix. Requests from other origins
// get the first configured origin in the allow-origin header, which the
// browser then rejects on their behalf.
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowOrigin := cfg.AllowedOrigins[0]
		if originAllowed(cfg, origin) {
			allowOrigin = origin
		}
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(cfg *config.CORSConfig, origin string) bool {
	if origin == "" {
		return false
	}
	for _, o := range cfg.AllowedOrigins {
		if origin == o {
			return true
		}
	}
	for _, suffix := range cfg.AllowedSuffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
