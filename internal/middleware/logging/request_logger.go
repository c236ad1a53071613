package loggingmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	authmw "github.com/Skotchmaster/bug_tracker/internal/middleware/auth"
)

const completed = "request completed"

// RequestLogger puts a request-scoped logger into the request context and
// writes one completion line per request. It must run ahead of the auth
// middleware: the caller identity is read back after the chain returns.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(requestAttrs(c)...)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// render here so the logged status is the one the client sees
				c.Echo().HTTPErrorHandler(err, c)
			}

			status := c.Response().Status
			attrs := append(callerAttrs(c),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			if r := denial(status); r != "" {
				attrs = append(attrs, "reason", r)
			}

			switch {
			case status >= http.StatusInternalServerError:
				if err != nil {
					attrs = append(attrs, "error", err.Error())
				}
				l.Error(completed, attrs...)
			case status >= http.StatusBadRequest:
				l.Warn(completed, attrs...)
			default:
				l.Info(completed, append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

// requestAttrs describes the request and echoes the X-Request-ID back.
func requestAttrs(c echo.Context) []any {
	r := c.Request()
	attrs := []any{
		"method", r.Method,
		"route", c.Path(),
		"url", r.URL.Path,
		"remote_ip", c.RealIP(),
		"user_agent", r.UserAgent(),
	}

	rid := r.Header.Get(echo.HeaderXRequestID)
	if rid == "" {
		rid = c.Response().Header().Get(echo.HeaderXRequestID)
	}
	if rid != "" {
		attrs = append(attrs, "request_id", rid)
		c.Response().Header().Set(echo.HeaderXRequestID, rid)
	}
	return attrs
}

// callerAttrs reports who made the request, once authentication has run.
func callerAttrs(c echo.Context) []any {
	username, _ := c.Get(authmw.CtxUsername).(string)
	if username == "" {
		return []any{"username", "anonymous"}
	}
	role, _ := c.Get(authmw.CtxRole).(string)
	return []any{"username", username, "role", role}
}

func denial(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	}
	return ""
}
