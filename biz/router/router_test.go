package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yi-nology/itam/biz/dal/db"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/constants"
	"github.com/yi-nology/itam/pkg/storage/local"
)

const testPassword = "changeme123"

type envelope struct {
	Code  int             `json:"code"`
	Msg   string          `json:"msg"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

type testServer struct {
	h   *server.Hertz
	svc *service.Service
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	dbConn := db.SetupTestDB(t)
	t.Cleanup(func() { db.CleanupTestDB(t, dbConn) })

	require.NoError(t, service.EnsureDefaults(context.Background(), dbConn, service.SeedOptions{
		AdminPassword: testPassword,
		SampleTypes:   true,
	}, zap.NewNop()))

	store, err := local.New(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("router-secret", time.Hour)
	require.NoError(t, err)

	cfg := config.Default()
	for _, opt := range opts {
		opt(cfg)
	}
	svc := service.NewService(dbConn, store, cfg, tokens, zap.NewNop())
	h := server.New()
	Register(h, cfg, svc, nil)
	return &testServer{h: h, svc: svc}
}

func (s *testServer) do(t *testing.T, method, url, token string, body []byte, headers ...ut.Header) (int, envelope) {
	t.Helper()
	if token != "" {
		headers = append(headers, ut.Header{Key: "Authorization", Value: "Bearer " + token})
	}
	var reqBody *ut.Body
	if body != nil {
		reqBody = &ut.Body{Body: bytes.NewReader(body), Len: len(body)}
		if len(headers) == 0 || !hasContentType(headers) {
			headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
		}
	}
	w := ut.PerformRequest(s.h.Engine, method, url, reqBody, headers...)
	resp := w.Result()

	var env envelope
	if len(resp.Body()) > 0 {
		require.NoError(t, json.Unmarshal(resp.Body(), &env), string(resp.Body()))
	}
	return resp.StatusCode(), env
}

func hasContentType(headers []ut.Header) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Key, "Content-Type") {
			return true
		}
	}
	return false
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	status, env := s.do(t, "POST", "/api/v1/auth/login", "", body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func csvUpload(t *testing.T, typeSlug, content string) ([]byte, ut.Header) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("typeSlug", typeSlug))
	part, err := mw.CreateFormFile("file", "assets.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), ut.Header{Key: "Content-Type", Value: mw.FormDataContentType()}
}

func TestPingAndVersion(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, "GET", "/ping", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", env.Msg)

	status, env = s.do(t, "GET", "/api/v1/version", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"version"`)
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, "GET", "/api/v1/asset-types", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, "GET", "/api/v1/asset-types", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	body, _ := json.Marshal(map[string]string{"username": service.DefaultAdminUsername, "password": "wrong-password"})
	_, env := s.do(t, "POST", "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, env.Code)
}

func TestLoginSetsCookie(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"username": service.DefaultAdminUsername, "password": testPassword})
	w := ut.PerformRequest(s.h.Engine, "POST", "/api/v1/auth/login",
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})

	cookie := string(w.Result().Header.Peek("Set-Cookie"))
	assert.Contains(t, cookie, "auth_token=")
	assert.Contains(t, strings.ToLower(cookie), "httponly")

	token := strings.TrimPrefix(strings.SplitN(cookie, ";", 2)[0], "auth_token=")
	me := ut.PerformRequest(s.h.Engine, "GET", "/api/v1/auth/me", nil,
		ut.Header{Key: "Cookie", Value: "auth_token=" + token})
	var env envelope
	require.NoError(t, json.Unmarshal(me.Result().Body(), &env))
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Contains(t, string(env.Data), `"username":"admin"`)
}

func TestImportCSVOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, service.DefaultAdminUsername, testPassword)

	body, ct := csvUpload(t, "software", "name,vendor,expiry_date\nFigma,Figma Inc,2025-12-31\nBroken,Acme,\n")
	status, env := s.do(t, "POST", "/api/v1/assets/import-csv", token, body, ct)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)

	var result struct {
		SuccessCount int `json:"success_count"`
		FailCount    int `json:"fail_count"`
		Errors       []struct {
			Row    int    `json:"row"`
			Field  string `json:"field"`
			Reason string `json:"reason"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "expiry_date", result.Errors[0].Field)

	t.Run("unknown type", func(t *testing.T) {
		body, ct := csvUpload(t, "printers", "name\nP1\n")
		_, env := s.do(t, "POST", "/api/v1/assets/import-csv", token, body, ct)
		assert.Equal(t, http.StatusNotFound, env.Code)
	})

	t.Run("imported entity is listed", func(t *testing.T) {
		_, env := s.do(t, "GET", "/api/v1/assets?typeSlug=software&q=fig", token, nil)
		require.Equal(t, http.StatusOK, env.Code)
		assert.Contains(t, string(env.Data), `"title":"Figma"`)
	})

	t.Run("audit record", func(t *testing.T) {
		_, env := s.do(t, "GET", "/api/v1/assets/imports?typeSlug=software", token, nil)
		require.Equal(t, http.StatusOK, env.Code)
		assert.Contains(t, string(env.Data), `"success_count":1`)
	})
}

func TestPermissionGate(t *testing.T) {
	s := newTestServer(t)
	superToken := s.login(t, service.DefaultAdminUsername, testPassword)

	body, _ := json.Marshal(service.AdminInput{
		Username: "operator",
		Password: "operator-pass",
		Name:     "Operator",
		Email:    "operator@example.com",
	})
	_, env := s.do(t, "POST", "/api/v1/admins", superToken, body)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	opToken := s.login(t, "operator", "operator-pass")

	csvBody, ct := csvUpload(t, "software", "name,expiry_date\nFigma,2025-12-31\n")
	status, _ := s.do(t, "POST", "/api/v1/assets/import-csv", opToken, csvBody, ct)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, "GET", "/api/v1/admins", opToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	grant, _ := json.Marshal(map[string]any{"permission": constants.PermissionAssetCSVImport, "enabled": true})
	_, env = s.do(t, "PATCH", "/api/v1/admins/"+jsonNumber(created.ID)+"/permissions", superToken, grant)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)

	csvBody, ct = csvUpload(t, "software", "name,expiry_date\nFigma,2025-12-31\n")
	status, env = s.do(t, "POST", "/api/v1/assets/import-csv", opToken, csvBody, ct)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, http.StatusOK, env.Code, env.Msg)

	t.Run("deactivated admin is rejected", func(t *testing.T) {
		off, _ := json.Marshal(map[string]any{"is_active": false})
		_, env := s.do(t, "PATCH", "/api/v1/admins/"+jsonNumber(created.ID), superToken, off)
		require.Equal(t, http.StatusOK, env.Code, env.Msg)

		csvBody, ct := csvUpload(t, "software", "name,expiry_date\nFigma,2025-12-31\n")
		status, _ := s.do(t, "POST", "/api/v1/assets/import-csv", opToken, csvBody, ct)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestEntityValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, service.DefaultAdminUsername, testPassword)

	body, _ := json.Marshal(service.EntityInput{
		TypeSlug: "hardware",
		Title:    "Laptop 7",
		Data:     map[string]any{"os": "beos"},
	})
	_, env := s.do(t, "POST", "/api/v1/assets", token, body)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	body, _ = json.Marshal(service.EntityInput{
		TypeSlug: "hardware",
		Title:    "Laptop 7",
		Data:     map[string]any{"serial_number": "SN-7", "os": "linux"},
	})
	_, env = s.do(t, "POST", "/api/v1/assets", token, body)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)

	_, env = s.do(t, "GET", "/api/v1/assets/999", token, nil)
	assert.Equal(t, http.StatusNotFound, env.Code)

	_, env = s.do(t, "GET", "/api/v1/assets/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)
}

func TestNotificationRunWithoutLock(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, service.DefaultAdminUsername, testPassword)

	expiry := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	body, _ := json.Marshal(service.SoftwareInput{Name: "Figma", Category: "saas", ExpiryDate: expiry})
	_, env := s.do(t, "POST", "/api/v1/software", token, body)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)

	_, env = s.do(t, "POST", "/api/v1/notifications/run", token, nil)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)
	assert.Contains(t, string(env.Data), `"newly_logged":2`)

	_, env = s.do(t, "GET", "/api/v1/notifications/logs?range=today", token, nil)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)

	_, env = s.do(t, "GET", "/api/v1/notifications/logs?range=year", token, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)
}

func TestMalformedJSONBody(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, service.DefaultAdminUsername, testPassword)

	_, env := s.do(t, "POST", "/api/v1/asset-types", token, []byte(`{"slug":`))
	assert.Equal(t, http.StatusBadRequest, env.Code)

	_, env = s.do(t, "POST", "/api/v1/asset-types", token, []byte(`{"slug":"printer","name":"Printer"}`))
	require.Equal(t, http.StatusOK, env.Code, env.Msg)
	assert.Contains(t, string(env.Data), `"slug":"printer"`)
}

func TestUploadSizeLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Upload.MaxSize = 32 })
	token := s.login(t, service.DefaultAdminUsername, testPassword)

	body, ct := csvUpload(t, "software", "name,vendor,expiry_date\nFigma,Figma Inc,2025-12-31\n")
	_, env := s.do(t, "POST", "/api/v1/assets/import-csv", token, body, ct)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Contains(t, env.Error, "file too large")

	_, env = s.do(t, "GET", "/api/v1/assets/imports", token, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.NotContains(t, string(env.Data), "success_count")
}

func logoUpload(t *testing.T, companyName string, logo []byte) ([]byte, ut.Header) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("companyName", companyName))
	if logo != nil {
		part, err := mw.CreateFormFile("logo", "logo.png")
		require.NoError(t, err)
		_, err = part.Write(logo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), ut.Header{Key: "Content-Type", Value: mw.FormDataContentType()}
}

func TestBrandOverHTTP(t *testing.T) {
	s := newTestServer(t)
	superToken := s.login(t, service.DefaultAdminUsername, testPassword)

	_, env := s.do(t, "GET", "/api/v1/brand", superToken, nil)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)
	assert.Contains(t, string(env.Data), `"companyName":"`+constants.DefaultCompanyName+`"`)

	blank, _ := json.Marshal(map[string]string{"companyName": "   "})
	_, env = s.do(t, "PATCH", "/api/v1/brand", superToken, blank)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	body, ct := logoUpload(t, "Acme Corp", png)
	_, env = s.do(t, "PATCH", "/api/v1/brand", superToken, body, ct)
	require.Equal(t, http.StatusOK, env.Code, env.Msg)
	var brand struct {
		CompanyName string `json:"companyName"`
		LogoURL     string `json:"logoUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &brand))
	assert.Equal(t, "Acme Corp", brand.CompanyName)
	assert.True(t, strings.HasPrefix(brand.LogoURL, constants.BrandLogoRoute+"?v="), brand.LogoURL)

	w := ut.PerformRequest(s.h.Engine, "GET", brand.LogoURL, nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + superToken})
	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "image/png", string(resp.Header.ContentType()))
	assert.Equal(t, png, resp.Body())

	t.Run("non-image logo rejected", func(t *testing.T) {
		body, ct := logoUpload(t, "Acme Corp", []byte("%PDF-1.4 not an image"))
		_, env := s.do(t, "PATCH", "/api/v1/brand", superToken, body, ct)
		assert.Equal(t, http.StatusBadRequest, env.Code)
	})

	t.Run("only super admin may change", func(t *testing.T) {
		admin, _ := json.Marshal(service.AdminInput{
			Username: "viewer", Password: "viewer-pass", Name: "Viewer", Email: "viewer@example.com",
		})
		_, env := s.do(t, "POST", "/api/v1/admins", superToken, admin)
		require.Equal(t, http.StatusOK, env.Code, env.Msg)
		viewer := s.login(t, "viewer", "viewer-pass")

		_, env = s.do(t, "GET", "/api/v1/brand", viewer, nil)
		require.Equal(t, http.StatusOK, env.Code, env.Msg)
		assert.Contains(t, string(env.Data), `"companyName":"Acme Corp"`)

		rename, _ := json.Marshal(map[string]string{"companyName": "Hijacked"})
		status, _ := s.do(t, "PATCH", "/api/v1/brand", viewer, rename)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func jsonNumber(id uint) string {
	out, _ := json.Marshal(id)
	return string(out)
}
