package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
}

// OriginAllowed reports whether a browser origin may call the API. Requests
// without an Origin (curl, mobile apps, same-origin) are allowed.
func OriginAllowed(origin, frontendURL string) bool {
	if origin == "" {
		return true
	}

	for _, o := range devOrigins {
		if origin == o {
			return true
		}
	}

	if frontendURL != "" {
		if origin == frontendURL || origin == strings.TrimSuffix(frontendURL, "/") || origin+"/" == frontendURL {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Hostname(), ".vercel.app")
}

func CORS(frontendURL string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(origin, frontendURL)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
