package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

const (
	CtxUsername = "username"
	CtxRole     = "role"
	CtxToken    = "bearer_token"

	bearerPrefix = "Bearer "

	MsgInvalidToken = "Invalid, expired, or revoked token."
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type UserLookup interface {
	UserExists(ctx context.Context, username string) (bool, error)
}

type Identity struct {
	Subject string
	Role    string
}

// Authenticator attaches an Identity to requests carrying a valid bearer access token.
type Authenticator struct {
	Codec  *tokens.Codec
	Ledger RevocationChecker
	Users  UserLookup

	// lenient routes ("METHOD path") let a rejected token through unauthenticated
	// instead of answering 401.
	lenient map[string]struct{}
}

// Lenient marks a route whose handler copes with bad tokens itself. Call it
// while registering routes, before serving.
func (a *Authenticator) Lenient(method, path string) {
	if a.lenient == nil {
		a.lenient = map[string]struct{}{}
	}
	a.lenient[routeKey(method, path)] = struct{}{}
}

func (a *Authenticator) isLenient(c echo.Context) bool {
	_, ok := a.lenient[routeKey(c.Request().Method, c.Path())]
	return ok
}

func BearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(h, bearerPrefix), true
}

// Middleware lets requests without a bearer header through unauthenticated and
// rejects any presented token that is expired, revoked, malformed or not an
// access token, except on Lenient routes.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c)
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("mw", "authenticate")
			c.Set(CtxToken, token)

			reject := func(args ...any) error {
				if a.isLenient(c) {
					l.Info("auth_ignored", args...)
					return next(c)
				}
				l.Warn("auth_rejected", append([]any{"status", 401}, args...)...)
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}

			claims, err := a.Codec.Verify(token)
			if err != nil {
				return reject("error", err)
			}
			if claims.Kind != tokens.KindAccess {
				return reject("reason", "not an access token")
			}

			revoked, err := a.Ledger.IsRevoked(ctx, token)
			if err != nil {
				l.Error("auth_error", "status", 500, "reason", "ledger lookup", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if revoked {
				return reject("reason", "revoked")
			}

			exists, err := a.Users.UserExists(ctx, claims.Subject)
			if err != nil {
				l.Error("auth_error", "status", 500, "reason", "user lookup", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if !exists {
				l.Warn("auth_unknown_subject", "username", claims.Subject)
				return next(c)
			}

			c.Set(CtxUsername, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	sub, _ := c.Get(CtxUsername).(string)
	role, _ := c.Get(CtxRole).(string)
	if sub == "" || role == "" {
		return Identity{}, false
	}
	return Identity{Subject: sub, Role: role}, true
}
