package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

type fakeLedger struct {
	revoked map[string]bool
	err     error
}

func (f *fakeLedger) IsRevoked(_ context.Context, token string) (bool, error) {
	return f.revoked[token], f.err
}

type fakeUsers struct {
	known map[string]bool
	err   error
}

func (f *fakeUsers) UserExists(_ context.Context, username string) (bool, error) {
	return f.known[username], f.err
}

type fixture struct {
	e      *echo.Echo
	codec  *tokens.Codec
	ledger *fakeLedger
	users  *fakeUsers
	now    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Now().Truncate(time.Second)
	codec := tokens.NewCodec([]byte("secret"), 15*time.Minute, time.Hour)
	codec.Now = func() time.Time { return now }

	f := &fixture{
		e:      echo.New(),
		codec:  codec,
		ledger: &fakeLedger{revoked: map[string]bool{}},
		users:  &fakeUsers{known: map[string]bool{"alice": true, "dave": true}},
		now:    &now,
	}

	authn := &Authenticator{Codec: codec, Ledger: f.ledger, Users: f.users}
	authn.Lenient(http.MethodPost, "/logout")
	policy := NewPolicy()
	policy.Require(http.MethodDelete, "/api/projects/:id", models.RoleAdmin)
	policy.Require(http.MethodGet, "/api/bugs", models.RoleAdmin, models.RoleDeveloper, models.RoleTester, models.RoleStakeholder)

	f.e.Use(authn.Middleware(), policy.Guard())

	whoami := func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, id.Subject+":"+id.Role)
	}
	f.e.GET("/open", whoami)
	f.e.GET("/api/bugs", whoami)
	f.e.DELETE("/api/projects/:id", whoami)
	f.e.POST("/logout", whoami)
	return f
}

func (f *fixture) issue(t *testing.T, sub string, role models.Role, kind tokens.Kind) string {
	t.Helper()
	tok, _, err := f.codec.Issue(sub, role.String(), kind)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_NoHeaderPassesThrough(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/open", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestMiddleware_NonBearerHeaderPassesThrough(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/open", "Basic YWxpY2U6cHcx")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestMiddleware_ValidTokenAttachesIdentity(t *testing.T) {
	f := newFixture(t)
	tok := f.issue(t, "alice", models.RoleTester, tokens.KindAccess)

	rec := f.do(http.MethodGet, "/open", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice:ROLE_TESTER", rec.Body.String())
}

func TestMiddleware_Rejections(t *testing.T) {
	f := newFixture(t)
	access := f.issue(t, "alice", models.RoleAdmin, tokens.KindAccess)
	refresh := f.issue(t, "alice", models.RoleAdmin, tokens.KindRefresh)
	revoked := f.issue(t, "dave", models.RoleAdmin, tokens.KindAccess)
	f.ledger.revoked[revoked] = true

	tests := []struct {
		name   string
		header string
		setup  func()
	}{
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "empty bearer", header: "Bearer "},
		{name: "refresh as bearer", header: "Bearer " + refresh},
		{name: "revoked", header: "Bearer " + revoked},
		{name: "expired", header: "Bearer " + access, setup: func() { *f.now = f.now.Add(time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			rec := f.do(http.MethodGet, "/open", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), MsgInvalidToken)
		})
	}
}

func TestMiddleware_UnknownUserPassesUnauthenticated(t *testing.T) {
	f := newFixture(t)
	tok := f.issue(t, "ghost", models.RoleAdmin, tokens.KindAccess)

	rec := f.do(http.MethodGet, "/open", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = f.do(http.MethodDelete, "/api/projects/1", "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddleware_StoreErrors(t *testing.T) {
	f := newFixture(t)
	tok := f.issue(t, "alice", models.RoleAdmin, tokens.KindAccess)

	f.ledger.err = errors.New("db down")
	rec := f.do(http.MethodGet, "/open", "Bearer "+tok)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	f.ledger.err = nil
	f.users.err = errors.New("db down")
	rec = f.do(http.MethodGet, "/open", "Bearer "+tok)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGuard_Membership(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		want   int
	}{
		{name: "admin deletes project", method: http.MethodDelete, path: "/api/projects/1", role: models.RoleAdmin, want: http.StatusOK},
		{name: "developer cannot delete project", method: http.MethodDelete, path: "/api/projects/1", role: models.RoleDeveloper, want: http.StatusForbidden},
		{name: "stakeholder reads bugs", method: http.MethodGet, path: "/api/bugs", role: models.RoleStakeholder, want: http.StatusOK},
		{name: "plain user cannot read bugs", method: http.MethodGet, path: "/api/bugs", role: models.RoleUser, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := f.issue(t, "alice", tt.role, tokens.KindAccess)
			rec := f.do(tt.method, tt.path, "Bearer "+tok)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGuard_AnonymousOnGatedRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/bugs", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgForbidden)
}

func TestPolicy_RolesFor(t *testing.T) {
	p := NewPolicy()
	p.Require(http.MethodPost, "/api/bugs", models.RoleAdmin, models.RoleTester)

	roles, ok := p.RolesFor(http.MethodPost, "/api/bugs")
	require.True(t, ok)
	assert.True(t, roles.Allows("ROLE_TESTER"))
	assert.False(t, roles.Allows("ROLE_DEVELOPER"))
	assert.False(t, roles.Allows("TESTER"))

	_, ok = p.RolesFor(http.MethodGet, "/api/bugs")
	assert.False(t, ok)
}

func TestMiddleware_LenientRouteLetsBadTokensThrough(t *testing.T) {
	f := newFixture(t)
	revoked := f.issue(t, "dave", models.RoleAdmin, tokens.KindAccess)
	f.ledger.revoked[revoked] = true
	refresh := f.issue(t, "alice", models.RoleAdmin, tokens.KindRefresh)

	for _, header := range []string{"Bearer not-a-jwt", "Bearer " + revoked, "Bearer " + refresh} {
		rec := f.do(http.MethodPost, "/logout", header)
		assert.Equal(t, http.StatusOK, rec.Code, header)
		assert.Equal(t, "anonymous", rec.Body.String())
	}

	valid := f.issue(t, "alice", models.RoleTester, tokens.KindAccess)
	rec := f.do(http.MethodPost, "/logout", "Bearer "+valid)
	assert.Equal(t, "alice:ROLE_TESTER", rec.Body.String())

	rec = f.do(http.MethodGet, "/open", "Bearer "+revoked)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
