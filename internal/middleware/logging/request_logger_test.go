package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	authmw "github.com/Skotchmaster/bug_tracker/internal/middleware/auth"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(ln), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger_CarriesLoggerAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "debug")))
	e.GET("/bugs/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/bugs/7", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "inside_handler", got[0]["msg"])
	assert.Equal(t, "rid-1", got[0]["request_id"])
	assert.Equal(t, "/bugs/:id", got[0]["route"])
	assert.Equal(t, "request completed", got[1]["msg"])
	assert.EqualValues(t, 200, got[1]["status"])
}

func TestRequestLogger_RendersErrors(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "WARN", got[0]["level"])
	assert.EqualValues(t, 404, got[0]["status"])
}

func TestRequestLogger_RecordsCaller(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(authmw.CtxUsername, "tess")
			c.Set(authmw.CtxRole, "ROLE_TESTER")
			return next(c)
		}
	})
	e.GET("/bugs", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bugs", nil))

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "tess", got[0]["username"])
	assert.Equal(t, "ROLE_TESTER", got[0]["role"])
	assert.NotContains(t, got[0], "reason")
}

func TestRequestLogger_DenialReasons(t *testing.T) {
	tests := []struct {
		name   string
		status int
		user   string
		reason string
	}{
		{name: "bad bearer", status: http.StatusUnauthorized, reason: "unauthorized"},
		{name: "wrong role", status: http.StatusForbidden, user: "dev", reason: "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
			e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					if tt.user != "" {
						c.Set(authmw.CtxUsername, tt.user)
						c.Set(authmw.CtxRole, "ROLE_DEVELOPER")
					}
					return echo.NewHTTPError(tt.status, "denied")
				}
			})
			e.GET("/users", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
			assert.Equal(t, tt.status, rec.Code)

			got := lines(t, &buf)
			require.Len(t, got, 1)
			assert.Equal(t, "WARN", got[0]["level"])
			assert.Equal(t, tt.reason, got[0]["reason"])
			assert.EqualValues(t, tt.status, got[0]["status"])
			if tt.user == "" {
				assert.Equal(t, "anonymous", got[0]["username"])
				assert.NotContains(t, got[0], "role")
			} else {
				assert.Equal(t, tt.user, got[0]["username"])
				assert.Equal(t, "ROLE_DEVELOPER", got[0]["role"])
			}
		})
	}
}
