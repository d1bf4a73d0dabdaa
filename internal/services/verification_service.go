package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajglobal/staffverify/internal/credential"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/logger"
	"github.com/ajglobal/staffverify/pkg/metrics"
)

// VerificationMode selects how a presented credential is checked. A
// deployment runs exactly one mode.
type VerificationMode string

const (
	// ModeToken requires a signed token bound to the employee id.
	ModeToken VerificationMode = "token"
	// ModeLookup ignores any token and answers from the store alone.
	ModeLookup VerificationMode = "lookup"
)

// ParseVerificationMode accepts "token" or "lookup"; empty means token.
func ParseVerificationMode(raw string) (VerificationMode, error) {
	switch VerificationMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeToken:
		return ModeToken, nil
	case ModeLookup:
		return ModeLookup, nil
	default:
		return "", fmt.Errorf("verification: unknown mode %q", raw)
	}
}

// StatusInvalid is the single public status for every failed check.
const StatusInvalid = "INVALID"

// Reasons are recorded for operators only and never rendered publicly.
const (
	ReasonValid           = "valid"
	ReasonInactive        = "inactive"
	ReasonTokenInvalid    = "token_invalid"
	ReasonTokenExpired    = "token_expired"
	ReasonSubjectMismatch = "subject_mismatch"
	ReasonNotFound        = "not_found"
)

// TokenVerifier checks a credential token.
type TokenVerifier interface {
	Verify(token string) (*credential.Payload, error)
}

// VerificationResult is the public view of a verification. It never carries
// contact or personal fields.
type VerificationResult struct {
	Valid      bool      `json:"valid"`
	Status     string    `json:"status"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	JobTitle   string    `json:"job_title"`
	VerifiedAt time.Time `json:"verified_at"`

	Reason string `json:"-"`
}

// VerificationConfig tunes a VerificationService.
type VerificationConfig struct {
	Mode  VerificationMode
	Clock func() time.Time
}

// VerificationService answers whether a credential currently attests
// active employment.
type VerificationService struct {
	store  store.Store
	tokens TokenVerifier
	mode   VerificationMode
	now    func() time.Time
}

// NewVerificationService constructs a VerificationService. Token mode
// requires a TokenVerifier.
func NewVerificationService(st store.Store, tokens TokenVerifier, cfg VerificationConfig) (*VerificationService, error) {
	if st == nil {
		return nil, errors.New("verification service: store is required")
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeToken
	}
	if mode != ModeToken && mode != ModeLookup {
		return nil, fmt.Errorf("verification service: unknown mode %q", mode)
	}
	if mode == ModeToken && tokens == nil {
		return nil, errors.New("verification service: token verifier is required in token mode")
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &VerificationService{
		store:  st,
		tokens: tokens,
		mode:   mode,
		now:    now,
	}, nil
}

// Mode reports the configured verification mode.
func (s *VerificationService) Mode() VerificationMode {
	return s.mode
}

// Verify checks the token (in token mode) and then the employee record.
// Failed checks yield a result with Valid=false and StatusInvalid. Only store
// failures other than not-found are returned as errors.
func (s *VerificationService) Verify(ctx context.Context, employeeID, token string) (*VerificationResult, error) {
	ctx = ensureContext(ctx)

	id := store.NormalizeID(employeeID)
	result := &VerificationResult{
		Status:     StatusInvalid,
		EmployeeID: id,
		VerifiedAt: s.now().UTC(),
	}

	if id == "" {
		return s.finish(result, ReasonNotFound), nil
	}

	if s.mode == ModeToken {
		payload, err := s.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, credential.ErrTokenExpired) {
				return s.finish(result, ReasonTokenExpired), nil
			}
			return s.finish(result, ReasonTokenInvalid), nil
		}
		if payload.ID != id {
			return s.finish(result, ReasonSubjectMismatch), nil
		}
	}

	emp, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidInput) {
			return s.finish(result, ReasonNotFound), nil
		}
		metrics.VerificationOutcomes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("verification service: load employee: %w", err)
	}

	result.FullName = emp.FullName
	result.JobTitle = emp.JobTitle
	result.Status = emp.Status.Display()
	result.Valid = emp.Status.IsActive()
	if result.Valid {
		return s.finish(result, ReasonValid), nil
	}
	return s.finish(result, ReasonInactive), nil
}

func (s *VerificationService) finish(result *VerificationResult, reason string) *VerificationResult {
	result.Reason = reason
	metrics.VerificationOutcomes.WithLabelValues(reason).Inc()
	logger.WithModule("verification").Info("credential verified",
		zap.String("employee_id", result.EmployeeID),
		zap.String("mode", string(s.mode)),
		zap.Bool("valid", result.Valid),
		zap.String("reason", reason),
	)
	return result
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
