package middleware

import (
	"net/url"
	"strings"

	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds CORS configuration (site origin, suffix and dev password).
type CORSConfig struct {
	SiteURL       string
	AllowedSuffix string
	DevPassword   string
}

// CORS allows requests without an Origin (Stripe webhooks), same-origin requests from the
// board page, the site's own origin, origins ending with AllowedSuffix, and requests
// carrying the dev-password header. Localhost preflights are answered directly.
func CORS(cfg CORSConfig) fiber.Handler {
	site := strings.ToLower(strings.TrimRight(cfg.SiteURL, "/"))
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}
		lower := strings.ToLower(origin)
		if c.Method() == fiber.MethodOptions && isLocalhost(lower) {
			setCORSHeaders(c, origin)
			return c.SendStatus(fiber.StatusNoContent)
		}
		if sameHost(lower, c.Hostname()) {
			return c.Next()
		}
		if site != "" && lower == site {
			setCORSHeaders(c, origin)
			return c.Next()
		}
		if cfg.AllowedSuffix != "" && strings.HasSuffix(lower, strings.ToLower(cfg.AllowedSuffix)) {
			setCORSHeaders(c, origin)
			return c.Next()
		}
		if cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword {
			setCORSHeaders(c, origin)
			return c.Next()
		}
		return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden)
	}
}

// sameHost reports whether origin names the host the request was sent to.
func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

func isLocalhost(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set("Access-Control-Allow-Origin", origin)
	c.Set("Access-Control-Allow-Credentials", "true")
	c.Set("Access-Control-Allow-Headers", "Content-Type, Stripe-Signature, dev-password")
	c.Set("Vary", "Origin")
}
