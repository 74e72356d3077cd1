package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/constants"
)

type stubLocker struct {
	acquireErr error
	released   []string
}

func (s *stubLocker) Acquire(ctx context.Context) (string, error) {
	if s.acquireErr != nil {
		return "", s.acquireErr
	}
	return "lock-1", nil
}

func (s *stubLocker) Release(ctx context.Context, lockID string) error {
	s.released = append(s.released, lockID)
	return nil
}

type stubAuthorizer struct {
	err error
}

func (s stubAuthorizer) Authorize(ctx context.Context, adminID uint, permission string) error {
	return s.err
}

func (s stubAuthorizer) AuthorizeSuperAdmin(ctx context.Context, adminID uint) error {
	return s.err
}

func ok(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, common.CommonResponse{Code: http.StatusOK})
}

func TestWriteLock(t *testing.T) {
	assert.Nil(t, WriteLock(nil))

	t.Run("releases after handler", func(t *testing.T) {
		l := &stubLocker{}
		h := server.New()
		h.POST("/run", append(WriteLock(l), ok)...)

		w := ut.PerformRequest(h.Engine, "POST", "/run", nil)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode())
		assert.Equal(t, []string{"lock-1"}, l.released)
	})

	t.Run("busy when lock unavailable", func(t *testing.T) {
		l := &stubLocker{acquireErr: errors.New("timeout")}
		h := server.New()
		h.POST("/run", append(WriteLock(l), ok)...)

		w := ut.PerformRequest(h.Engine, "POST", "/run", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode())
		assert.Empty(t, l.released)
	})
}

func TestRequireAuth(t *testing.T) {
	tokens, err := auth.NewTokenManager("mw-secret", time.Hour)
	require.NoError(t, err)
	token, err := tokens.Issue(common.Principal{AdminID: 7, Username: "lee", Role: constants.RoleAdmin})
	require.NoError(t, err)

	var seen *common.Principal
	h := server.New()
	h.GET("/me", RequireAuth(tokens, "auth_token"), func(ctx context.Context, c *app.RequestContext) {
		seen, _ = common.PrincipalFromContext(ctx)
		ok(ctx, c)
	})

	tests := []struct {
		name   string
		header ut.Header
		want   int
	}{
		{name: "bearer", header: ut.Header{Key: "Authorization", Value: "Bearer " + token}, want: http.StatusOK},
		{name: "cookie", header: ut.Header{Key: "Cookie", Value: "auth_token=" + token}, want: http.StatusOK},
		{name: "missing", header: ut.Header{Key: "X-Other", Value: "1"}, want: http.StatusUnauthorized},
		{name: "garbage", header: ut.Header{Key: "Authorization", Value: "Bearer nope"}, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			w := ut.PerformRequest(h.Engine, "GET", "/me", nil, tt.header)
			assert.Equal(t, tt.want, w.Result().StatusCode())
			if tt.want == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, uint(7), seen.AdminID)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	withPrincipal := func(ctx context.Context, c *app.RequestContext) {
		c.Next(common.ContextWithPrincipal(ctx, &common.Principal{AdminID: 3}))
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "allowed", want: http.StatusOK},
		{name: "forbidden", err: service.ErrForbidden, want: http.StatusForbidden},
		{name: "inactive", err: service.ErrAdminInactive, want: http.StatusForbidden},
		{name: "deleted", err: service.ErrAdminNotFound, want: http.StatusUnauthorized},
		{name: "broken", err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := server.New()
			h.GET("/perm", withPrincipal, RequirePermission(stubAuthorizer{err: tt.err}, constants.PermissionAssetCSVImport), ok)
			h.GET("/super", withPrincipal, RequireSuperAdmin(stubAuthorizer{err: tt.err}), ok)

			w := ut.PerformRequest(h.Engine, "GET", "/perm", nil)
			assert.Equal(t, tt.want, w.Result().StatusCode())
			w = ut.PerformRequest(h.Engine, "GET", "/super", nil)
			assert.Equal(t, tt.want, w.Result().StatusCode())
		})
	}

	t.Run("no principal", func(t *testing.T) {
		h := server.New()
		h.GET("/perm", RequirePermission(stubAuthorizer{}, constants.PermissionAssetCSVImport), ok)
		w := ut.PerformRequest(h.Engine, "GET", "/perm", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode())
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.CORSConfig
		origin     string
		wantOrigin string
		wantCreds  string
	}{
		{name: "wildcard", cfg: nil, origin: "https://a.example", wantOrigin: "*"},
		{name: "credentials echo origin", cfg: &config.CORSConfig{AllowOrigin: "*", AllowCredentials: true},
			origin: "https://a.example", wantOrigin: "https://a.example", wantCreds: "true"},
		{name: "allowlist hit", cfg: &config.CORSConfig{AllowOrigin: "https://a.example, https://b.example"},
			origin: "https://b.example", wantOrigin: "https://b.example"},
		{name: "allowlist miss", cfg: &config.CORSConfig{AllowOrigin: "https://a.example"},
			origin: "https://evil.example", wantOrigin: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := server.New()
			h.Use(CORS(tt.cfg))
			h.GET("/x", ok)

			w := ut.PerformRequest(h.Engine, "GET", "/x", nil, ut.Header{Key: "Origin", Value: tt.origin})
			resp := w.Result()
			assert.Equal(t, tt.wantOrigin, string(resp.Header.Peek("Access-Control-Allow-Origin")))
			assert.Equal(t, tt.wantCreds, string(resp.Header.Peek("Access-Control-Allow-Credentials")))
		})
	}

	t.Run("preflight", func(t *testing.T) {
		h := server.New()
		h.Use(CORS(nil))
		h.OPTIONS("/x", ok)
		w := ut.PerformRequest(h.Engine, "OPTIONS", "/x", nil, ut.Header{Key: "Origin", Value: "https://a.example"})
		assert.Equal(t, http.StatusNoContent, w.Result().StatusCode())
	})
}

func TestRecovery(t *testing.T) {
	h := server.New()
	h.Use(Recovery())
	h.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
		panic("secret detail")
	})

	w := ut.PerformRequest(h.Engine, "GET", "/boom", nil)
	resp := w.Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.NotContains(t, string(resp.Body()), "secret detail")
}
