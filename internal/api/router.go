package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajglobal/staffverify/internal/app"
	iauth "github.com/ajglobal/staffverify/internal/auth"
	"github.com/ajglobal/staffverify/internal/cache"
	"github.com/ajglobal/staffverify/internal/middleware"
	"github.com/ajglobal/staffverify/internal/monitoring"
	"github.com/ajglobal/staffverify/internal/security"
	"github.com/ajglobal/staffverify/internal/services"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/web"
)

// verifyRateWindow is the fixed window of verification.rate_limit.
const verifyRateWindow = time.Minute

// Dependencies carries the long-lived services the router exposes.
type Dependencies struct {
	Config       *app.Config
	Store        store.Store
	Verification *services.VerificationService
	Issuer       *services.CredentialIssuer
	AdminTokens  *iauth.JWTService
	RateStore    cache.Store
	Monitoring   *monitoring.Module
	Audit        *security.AuditService
}

func (d Dependencies) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("config must be provided")
	case d.Store == nil:
		return errors.New("employee store must be provided")
	case d.Verification == nil:
		return errors.New("verification service must be provided")
	case d.Issuer == nil:
		return errors.New("credential issuer must be provided")
	case d.Config.Admin.AuthEnabled && d.AdminTokens == nil:
		return errors.New("admin token service must be provided when admin auth is enabled")
	}
	return nil
}

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg := deps.Config

	r := gin.New()

	pages, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(pages)

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	if cfg.Monitoring.Prometheus.Enabled && deps.Monitoring != nil {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(deps.Monitoring.Handler()))
	}

	registerHealthRoutes(r, cfg, deps.Monitoring)

	if err := registerVerifyRoutes(r, deps); err != nil {
		return nil, err
	}

	api := r.Group("/api")
	if cfg.Admin.AuthEnabled {
		api.Use(middleware.AdminAuth(deps.AdminTokens))
	}

	if err := registerEmployeeRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerSecurityRoutes(api, deps); err != nil {
		return nil, err
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
