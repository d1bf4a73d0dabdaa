package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ajglobal/staffverify/internal/api"
	"github.com/ajglobal/staffverify/internal/app"
	iauth "github.com/ajglobal/staffverify/internal/auth"
	"github.com/ajglobal/staffverify/internal/cache"
	"github.com/ajglobal/staffverify/internal/credential"
	sharedtestutil "github.com/ajglobal/staffverify/internal/database/testutil"
	"github.com/ajglobal/staffverify/internal/monitoring"
	"github.com/ajglobal/staffverify/internal/monitoring/checks"
	"github.com/ajglobal/staffverify/internal/render"
	"github.com/ajglobal/staffverify/internal/security"
	"github.com/ajglobal/staffverify/internal/services"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/response"
)

// BaseVerifyURL is the public verification base used by test environments.
const BaseVerifyURL = "https://verify.test.example/verify"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Store  store.Store
	Router *gin.Engine
	JWT    *iauth.JWTService
	Codec  *credential.Codec
	Config *app.Config
}

// Option adjusts the configuration of a test environment before it is wired.
type Option func(cfg *app.Config)

// WithMode selects the verification mode.
func WithMode(mode services.VerificationMode) Option {
	return func(cfg *app.Config) { cfg.Verification.Mode = string(mode) }
}

// WithoutAdminAuth disables bearer authentication on the admin API.
func WithoutAdminAuth() Option {
	return func(cfg *app.Config) { cfg.Admin.AuthEnabled = false }
}

// WithRateLimit sets the per-minute limit of the public verify routes.
func WithRateLimit(limit int) Option {
	return func(cfg *app.Config) { cfg.Verification.RateLimit = limit }
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := &app.Config{
		Verification: app.VerificationConfig{
			Secret:    "test-suite-verification-secret",
			BaseURL:   BaseVerifyURL + "/",
			TokenTTL:  time.Hour,
			Mode:      string(services.ModeToken),
			RateLimit: 1000,
		},
		Admin: app.AdminConfig{
			JWTSecret:   "test-suite-super-secret-key-32-bytes!!",
			Issuer:      "test-suite",
			TokenTTL:    time.Hour,
			AuthEnabled: true,
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
		Render: app.RenderConfig{QRSize: 128},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())
	st, err := store.NewGormStore(db, time.Second)
	require.NoError(t, err)

	codec, err := credential.NewCodec(cfg.Verification.CodecConfig())
	require.NoError(t, err)

	jwtSvc, err := iauth.NewJWTService(cfg.Admin.JWTServiceConfig())
	require.NoError(t, err)

	verifyCfg, err := cfg.Verification.VerificationServiceConfig()
	require.NoError(t, err)
	verifier, err := services.NewVerificationService(st, codec, verifyCfg)
	require.NoError(t, err)

	issuerCfg, err := cfg.Verification.IssuerConfig()
	require.NoError(t, err)
	issuer, err := services.NewCredentialIssuer(st, codec, render.NewQRRenderer(cfg.Render.QRSize), issuerCfg)
	require.NoError(t, err)

	mon := monitoring.NewModule(monitoring.Options{})
	mon.Health().RegisterReadiness(checks.Store(st, time.Second))

	router, err := api.NewRouter(api.Dependencies{
		Config:       cfg,
		Store:        st,
		Verification: verifier,
		Issuer:       issuer,
		AdminTokens:  jwtSvc,
		RateStore:    cache.NewMemoryStore(nil),
		Monitoring:   mon,
		Audit:        security.NewAuditService(cfg, st),
	})
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Store:  st,
		Router: router,
		JWT:    jwtSvc,
		Codec:  codec,
		Config: cfg,
	}
}

// AdminToken issues a bearer token accepted by the admin API.
func (e *Env) AdminToken() string {
	e.T.Helper()
	token, _, err := e.JWT.IssueAdminToken("hr-admin")
	require.NoError(e.T, err)
	return token
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(e.T, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// VerifyPath converts an issued verify URL into a router-relative path.
func VerifyPath(t *testing.T, verifyURL string) string {
	t.Helper()
	parsed, err := url.Parse(verifyURL)
	require.NoError(t, err)
	if parsed.RawQuery == "" {
		return parsed.EscapedPath()
	}
	return parsed.EscapedPath() + "?" + parsed.RawQuery
}
