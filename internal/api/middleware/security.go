package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the security response headers on every request. This
// backend serves JSON only, so the CSP forbids everything except same-origin
// API calls. HSTS is omitted in development where the server runs plain HTTP.
func SecurityHeaders(isDevelopment bool) gin.HandlerFunc {
	csp := strings.Join([]string{
		"default-src 'none'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")

	permissions := strings.Join([]string{
		"accelerometer=()",
		"camera=()",
		"geolocation=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}, ", ")

	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", csp)
		if !isDevelopment {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", permissions)
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")
		c.Next()
	}
}
