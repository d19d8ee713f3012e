package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signora/eventwall/internal/config"
	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
	"github.com/signora/eventwall/internal/utils"
)

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i interface{}) error {
	if err := s.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	return e
}

// whoami echoes what the auth middleware stored.
func whoami(c echo.Context) error {
	p, ok := PrincipalFrom(c)
	if !ok {
		return c.String(http.StatusTeapot, "no principal")
	}
	role, _ := c.Get(ContextRole).(string)
	return c.String(http.StatusOK, p.ID+" "+role)
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	tokens := utils.NewTokenIssuer("access-secret", "refresh-secret")
	e := newEcho()
	e.GET("/me", whoami, JWTAuth(tokens))

	admin := model.Officer{ID: "o1", Email: "boss@gov.lk", Role: model.OfficerRoleAdmin}.Principal()
	access, err := tokens.IssueAccessToken(admin)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(admin)
	require.NoError(t, err)

	tests := []struct {
		name string
		auth string
		code int
		body string
	}{
		{name: "missing header", code: http.StatusUnauthorized},
		{name: "wrong scheme", auth: "Basic " + access.Token, code: http.StatusUnauthorized},
		{name: "empty bearer", auth: "Bearer   ", code: http.StatusUnauthorized},
		{name: "garbage", auth: "Bearer not.a.jwt", code: http.StatusUnauthorized},
		{name: "refresh token", auth: "Bearer " + refresh.Token, code: http.StatusUnauthorized},
		{name: "admin officer", auth: "Bearer " + access.Token, code: http.StatusOK, body: "o1 ADMIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.auth)
			}
			rec := serve(e, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	withRole := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if role != "" {
					c.Set(ContextRole, role)
				}
				return next(c)
			}
		}
	}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	e := newEcho()
	adminOnly := RequireRole(model.RoleAdmin)
	staff := RequireRole(model.RoleAdmin, model.RoleOfficer)
	e.GET("/admin/user", ok, withRole("USER"), adminOnly)
	e.GET("/admin/officer", ok, withRole("OFFICER"), adminOnly)
	e.GET("/admin/admin", ok, withRole("ADMIN"), adminOnly)
	e.GET("/admin/anon", ok, withRole(""), adminOnly)
	e.GET("/staff/officer", ok, withRole("OFFICER"), staff)

	for path, code := range map[string]int{
		"/admin/user":    http.StatusForbidden,
		"/admin/officer": http.StatusForbidden,
		"/admin/admin":   http.StatusNoContent,
		"/admin/anon":    http.StatusForbidden,
		"/staff/officer": http.StatusNoContent,
	} {
		rec := serve(e, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, rec.Code, path)
	}
}

type fakeCredentials struct {
	principal model.Principal
	err       error
}

func (f fakeCredentials) ValidateCredentials(_ context.Context, email, password string) (model.Principal, error) {
	if f.err != nil {
		return model.Principal{}, f.err
	}
	return f.principal, nil
}

func TestCredentialGuard(t *testing.T) {
	post := func(guard echo.MiddlewareFunc, body string) *httptest.ResponseRecorder {
		e := newEcho()
		e.POST("/auth/sign-in", whoami, guard)
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return serve(e, req)
	}
	const creds = `{"email":"a@b.com","password":"secret1"}`

	t.Run("success stores principal", func(t *testing.T) {
		rec := post(CredentialGuard(fakeCredentials{principal: model.Principal{ID: "u1", Role: model.RoleUser}}), creds)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1 USER", rec.Body.String())
	})
	t.Run("unknown email", func(t *testing.T) {
		err := &service.Error{Kind: service.KindBadRequest, Message: service.MsgInvalidEmail}
		rec := post(CredentialGuard(fakeCredentials{err: err}), creds)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), service.MsgInvalidEmail)
	})
	t.Run("wrong password", func(t *testing.T) {
		err := &service.Error{Kind: service.KindUnauthorized, Message: service.MsgInvalidPassword}
		rec := post(CredentialGuard(fakeCredentials{err: err}), creds)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), service.MsgInvalidPassword)
	})
	t.Run("store failure", func(t *testing.T) {
		rec := post(CredentialGuard(fakeCredentials{err: io.ErrUnexpectedEOF}), creds)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "EOF")
	})
	t.Run("missing password", func(t *testing.T) {
		rec := post(CredentialGuard(fakeCredentials{}), `{"email":"a@b.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/sign-in")

	key := func(strategy string) string {
		return buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
	}
	assert.Equal(t, "rl:ip:10.1.2.3", key("ip"))
	assert.Equal(t, "rl:user:anon", key("user"))
	assert.Equal(t, "rl:ip:10.1.2.3:route:POST /auth/sign-in", key("ip_route"))
	assert.Equal(t, "rl:ip:10.1.2.3:user:anon:route:POST /auth/sign-in", key(""))

	c.Set(ContextUserID, "u1")
	assert.Equal(t, "rl:user:u1:route:POST /auth/sign-in", key("USER_ROUTE"))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(7), asInt64(int64(7)))
	assert.Equal(t, int64(7), asInt64(7))
	assert.Equal(t, int64(7), asInt64(float64(7.9)))
	assert.Equal(t, int64(42), asInt64("42"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestCachePayload(t *testing.T) {
	hdr := http.Header{echo.HeaderContentType: []string{echo.MIMEApplicationJSON}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":"p1"}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, echo.MIMEApplicationJSON, gotHdr.Get(echo.HeaderContentType))
	assert.Equal(t, `[{"id":"p1"}]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, '{'))
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	ctx := func(query string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/post/get-by-event-id?"+query, nil), httptest.NewRecorder())
		c.SetPath("/post/get-by-event-id")
		return c
	}
	byQuery := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	byRoute := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}

	assert.NotEqual(t, cacheKey(byQuery, ctx("eventId=e1")), cacheKey(byQuery, ctx("eventId=e2")))
	assert.Equal(t, cacheKey(byRoute, ctx("eventId=e1")), cacheKey(byRoute, ctx("eventId=e2")))
	assert.True(t, strings.HasPrefix(cacheKey(byQuery, ctx("")), "cache:"))
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	called := 0
	next := func(c echo.Context) error { called++; return nil }
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	require.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil)(next)(c))
	require.NoError(t, NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil)(next)(c))
	assert.Equal(t, 2, called)
}
