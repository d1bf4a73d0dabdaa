// Package security reviews the deployment configuration for settings that
// weaken credential verification.
package security

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ajglobal/staffverify/internal/app"
	"github.com/ajglobal/staffverify/internal/services"
)

// CheckStatus captures the outcome of a security audit check.
type CheckStatus string

const (
	StatusPass CheckStatus = "pass"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
)

const (
	minSecretBytes         = 32
	recommendedSecretBytes = 48
	maxRecommendedTokenTTL = 30 * 24 * time.Hour
)

// Check contains the result of a single audit verification.
type Check struct {
	ID          string      `json:"id"`
	Status      CheckStatus `json:"status"`
	Message     string      `json:"message"`
	Remediation string      `json:"remediation,omitempty"`
	Details     any         `json:"details,omitempty"`
}

// Result aggregates all checks with a simple status summary.
type Result struct {
	CheckedAt time.Time      `json:"checked_at"`
	Checks    []Check        `json:"checks"`
	Summary   map[string]int `json:"summary"`
}

// Pinger reports whether the employee store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AuditService evaluates the security posture of the running configuration.
type AuditService struct {
	cfg   *app.Config
	store Pinger
	now   func() time.Time
}

// NewAuditService constructs the audit service. All dependencies are optional; missing
// inputs degrade specific checks to warnings.
func NewAuditService(cfg *app.Config, store Pinger) *AuditService {
	return &AuditService{
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the clock used in results (primarily for testing).
func (s *AuditService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Run executes all audit checks and returns their outcome.
func (s *AuditService) Run(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := []Check{
		s.checkStore(ctx),
		s.checkVerificationSecret(),
		s.checkAdminSecret(),
		s.checkAdminAuth(),
		s.checkBaseURL(),
		s.checkTokenTTL(),
	}

	summary := map[string]int{
		string(StatusPass): 0,
		string(StatusWarn): 0,
		string(StatusFail): 0,
	}

	for _, check := range checks {
		summary[string(check.Status)]++
	}

	return Result{
		CheckedAt: s.now().UTC(),
		Checks:    checks,
		Summary:   summary,
	}
}

func configMissing(id string) Check {
	return Check{
		ID:          id,
		Status:      StatusWarn,
		Message:     "Configuration not loaded; unable to evaluate.",
		Remediation: "Load configuration before running the security audit.",
	}
}

func (s *AuditService) checkStore(ctx context.Context) Check {
	if s.store == nil {
		return Check{
			ID:          "employee_store",
			Status:      StatusWarn,
			Message:     "Employee store not configured; unable to confirm connectivity.",
			Remediation: "Ensure database connectivity before running the audit.",
		}
	}

	if err := s.store.Ping(ctx); err != nil {
		return Check{
			ID:          "employee_store",
			Status:      StatusFail,
			Message:     "Employee store is unreachable; verifications will fail.",
			Remediation: "Restore database connectivity.",
		}
	}

	return Check{
		ID:      "employee_store",
		Status:  StatusPass,
		Message: "Employee store reachable.",
	}
}

func (s *AuditService) checkVerificationSecret() Check {
	const id = "verification_secret_strength"
	if s.cfg == nil {
		return configMissing(id)
	}

	mode, err := services.ParseVerificationMode(s.cfg.Verification.Mode)
	if err == nil && mode == services.ModeLookup {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "Lookup mode is active; verification links carry no signed token and can be enumerated.",
			Remediation: "Set verification.mode to token.",
		}
	}

	secret := strings.TrimSpace(s.cfg.Verification.Secret)
	if secret == app.DevelopmentVerificationSecret {
		status := StatusWarn
		if s.cfg.Server.IsProduction() {
			status = StatusFail
		}
		return Check{
			ID:          id,
			Status:      status,
			Message:     "Credentials are signed with the development secret.",
			Remediation: "Set STAFFVERIFY_VERIFICATION_SECRET to a random value of at least 32 bytes.",
		}
	}

	return secretStrength(id, "Verification signing secret", len(secret), "STAFFVERIFY_VERIFICATION_SECRET")
}

func (s *AuditService) checkAdminSecret() Check {
	const id = "admin_jwt_secret_strength"
	if s.cfg == nil {
		return configMissing(id)
	}
	return secretStrength(id, "Admin JWT signing secret", len(strings.TrimSpace(s.cfg.Admin.JWTSecret)), "STAFFVERIFY_ADMIN_JWT_SECRET")
}

func secretStrength(id, label string, length int, env string) Check {
	switch {
	case length == 0:
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     fmt.Sprintf("%s is missing.", label),
			Remediation: fmt.Sprintf("Set %s to a cryptographically random value (>= %d bytes).", env, minSecretBytes),
		}
	case length < minSecretBytes:
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     fmt.Sprintf("%s is too short (%d bytes).", label, length),
			Remediation: fmt.Sprintf("Use a randomly generated value of at least %d bytes for %s.", minSecretBytes, env),
			Details:     map[string]any{"length": length},
		}
	case length < recommendedSecretBytes:
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("%s is %d bytes. Consider increasing to %d+ bytes.", label, length, recommendedSecretBytes),
			Remediation: fmt.Sprintf("Increase the length of %s.", env),
			Details:     map[string]any{"length": length},
		}
	default:
		return Check{
			ID:      id,
			Status:  StatusPass,
			Message: fmt.Sprintf("%s length is %d bytes.", label, length),
			Details: map[string]any{"length": length},
		}
	}
}

func (s *AuditService) checkAdminAuth() Check {
	const id = "admin_auth_enabled"
	if s.cfg == nil {
		return configMissing(id)
	}

	if !s.cfg.Admin.AuthEnabled {
		status := StatusWarn
		if s.cfg.Server.IsProduction() {
			status = StatusFail
		}
		return Check{
			ID:          id,
			Status:      status,
			Message:     "The admin API accepts unauthenticated requests.",
			Remediation: "Set admin.auth_enabled to true.",
		}
	}

	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "Admin API requires bearer tokens.",
	}
}

func (s *AuditService) checkBaseURL() Check {
	const id = "verify_base_url"
	if s.cfg == nil {
		return configMissing(id)
	}

	base := services.NormalizeBaseURL(s.cfg.Verification.BaseURL)
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     fmt.Sprintf("Verification base URL %q is not an absolute URL.", base),
			Remediation: "Set verification.base_url to the public https address of /verify.",
		}
	}

	if parsed.Scheme != "https" {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "Verification links are not served over https.",
			Remediation: "Publish the verification page behind TLS and update verification.base_url.",
			Details:     map[string]any{"base_url": base},
		}
	}

	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "Verification links use https.",
		Details: map[string]any{"base_url": base},
	}
}

func (s *AuditService) checkTokenTTL() Check {
	const id = "verification_token_ttl"
	if s.cfg == nil {
		return configMissing(id)
	}

	ttl := s.cfg.Verification.TokenTTL
	if ttl <= 0 {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "Token TTL is not configured; using default duration.",
			Remediation: "Set verification.token_ttl to control how long issued credentials stay valid.",
		}
	}

	if ttl > maxRecommendedTokenTTL {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("Token TTL (%s) exceeds recommended maximum (%s).", ttl, maxRecommendedTokenTTL),
			Remediation: "Tokens cannot be revoked; reduce verification.token_ttl to 30 days or lower.",
			Details:     map[string]any{"ttl": ttl.String()},
		}
	}

	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: fmt.Sprintf("Token TTL is %s.", ttl),
		Details: map[string]any{"ttl": ttl.String()},
	}
}
