package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

const testSecret = "test-secret"

type testServer struct {
	handler  http.Handler
	profiles repository.ProfileStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := repository.NewBoltProfileStore(filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hash, err := crypto.HashSecret("admin-password")
	require.NoError(t, err)

	gen := crypto.NewGenerator(crypto.NewSeededSource(7))
	h := NewRouter(RouterConfig{
		Generator:      NewGeneratorHandler(service.NewGeneratorService(gen, store, 4096)),
		Profiles:       NewProfileHandler(service.NewProfileService(store, 4096)),
		Auth:           NewAuthHandler(service.NewAuthService(hash, testSecret, time.Hour)),
		JWTSecret:      testSecret,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	return &testServer{handler: h, profiles: store}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := crypto.GenerateToken("admin", service.ScopeProfilesWrite, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	rec := newTestServer(t).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleGenerate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/generate", `{"length":12,"require_symbol":true,"require_uppercase":true,"count":2}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp model.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 12, resp.Length)
	require.Len(t, resp.Passwords, 2)
	for _, p := range resp.Passwords {
		assert.Len(t, p, 12)
	}
}

func TestHandleGenerateEmptyBody(t *testing.T) {
	rec := newTestServer(t).do(t, http.MethodPost, "/api/v1/generate", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, crypto.DefaultLength, resp.Length)
}

func TestHandleGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
	}{
		{"invalid json", `{`, http.StatusBadRequest, ""},
		{"both filters", `{"ignored_chars":"B","allowed_chars":"b"}`, http.StatusBadRequest, "mutually_exclusive_options"},
		{"too short", `{"length":1,"require_symbol":true,"require_uppercase":true}`, http.StatusBadRequest, "length_too_small"},
		{"zero length", `{"length":0}`, http.StatusBadRequest, "length_too_small"},
		{"empty required class", `{"require_symbol":true,"allowed_chars":"abc"}`, http.StatusBadRequest, "empty_required_class"},
		{"above limit", `{"length":100000}`, http.StatusBadRequest, ""},
		{"unknown profile", `{"profile":"missing"}`, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestServer(t).do(t, http.MethodPost, "/api/v1/generate", tt.body, "")
			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.wantKind, body["kind"])
		})
	}
}

func TestHandleToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/token", `{"password":"admin-password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token", `{"password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := adminToken(t)

	rec := s.do(t, http.MethodPut, "/api/v1/profiles/pin", `{"length":6,"allowed_chars":"0123456789"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/profiles/pin", `{"length":6,"allowed_chars":"0123456789"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/profiles/pin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, 6, p.Length)

	rec = s.do(t, http.MethodPost, "/api/v1/generate", `{"profile":"pin"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var gen model.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&gen))
	assert.Regexp(t, `^[0-9]{6}$`, gen.Passwords[0])

	rec = s.do(t, http.MethodGet, "/api/v1/profiles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/profiles/pin", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/profiles/pin", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := s.profiles.Get(context.Background(), "pin")
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestProfilePutInvalid(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/profiles/Bad_Name", `{"length":0}`, adminToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["error"], "profile name")
	assert.Contains(t, body["error"], "at least 1")
}

func TestProfileRoutesDisabled(t *testing.T) {
	gen := crypto.NewGenerator(nil)
	h := NewRouter(RouterConfig{
		Generator:      NewGeneratorHandler(service.NewGeneratorService(gen, nil, 0)),
		Auth:           NewAuthHandler(service.NewAuthService("", testSecret, time.Hour)),
		JWTSecret:      testSecret,
		RateLimitRPS:   10,
		RateLimitBurst: 10,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"profile":"x"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/generate", `{"length":8}`, "")

	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "passgen_generate_total")
}
