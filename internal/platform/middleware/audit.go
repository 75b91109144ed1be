package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opp/planner/internal/platform/auth"
)

// Audit logs every /api/v1 request that touches lab results, patient records
// or care plans. Authentication endpoints are not audited.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			resource := auditResource(path)
			if resource == "" {
				return next(c)
			}

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			rid, _ := c.Get("request_id").(string)

			logger.Info().
				Str("type", "phi_audit").
				Str("request_id", rid).
				Str("user", auth.UserIDFromContext(req.Context())).
				Str("resource", resource).
				Str("action", httpMethodToAction(req.Method)).
				Str("method", req.Method).
				Str("path", path).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Int("status", status).
				Msg("phi_access")

			return err
		}
	}
}

var auditedResources = map[string]bool{
	"labs":       true,
	"patients":   true,
	"care-plans": true,
}

// auditResource returns the first path segment under /api/v1/ when it names
// patient data, or "" otherwise.
func auditResource(path string) string {
	if !strings.HasPrefix(path, "/api/v1/") {
		return ""
	}
	seg := strings.TrimPrefix(path, "/api/v1/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if auditedResources[seg] {
		return seg
	}
	return ""
}

func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
