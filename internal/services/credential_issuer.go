package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ajglobal/staffverify/internal/render"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/metrics"
)

// DefaultBaseVerifyURL is used when no public base URL is configured.
const DefaultBaseVerifyURL = "http://localhost:3000/verify"

// DefaultTokenTTL is the lifetime of an issued verification token.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenIssuer mints credential tokens.
type TokenIssuer interface {
	Issue(subjectID string, ttl time.Duration) (string, time.Time, error)
}

// Renderer turns a credential card into bytes, for example a QR image.
type Renderer interface {
	Render(card render.Card) ([]byte, error)
	ContentType() string
}

// Credential is the shareable verification link for one employee.
type Credential struct {
	EmployeeID string     `json:"employee_id"`
	VerifyURL  string     `json:"verify_url"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Artifact is a rendered credential.
type Artifact struct {
	Credential  *Credential
	ContentType string
	Data        []byte
}

// IssuerConfig tunes a CredentialIssuer.
type IssuerConfig struct {
	BaseURL  string
	Mode     VerificationMode
	TokenTTL time.Duration
}

// CredentialIssuer binds an employee to a verification URL and hands the
// result to a renderer.
type CredentialIssuer struct {
	store    store.Store
	tokens   TokenIssuer
	renderer Renderer
	baseURL  string
	mode     VerificationMode
	ttl      time.Duration
}

// NewCredentialIssuer constructs a CredentialIssuer. The renderer is optional;
// without it RenderQR fails.
func NewCredentialIssuer(st store.Store, tokens TokenIssuer, renderer Renderer, cfg IssuerConfig) (*CredentialIssuer, error) {
	if st == nil {
		return nil, errors.New("credential issuer: store is required")
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeToken
	}
	if mode != ModeToken && mode != ModeLookup {
		return nil, fmt.Errorf("credential issuer: unknown mode %q", mode)
	}
	if mode == ModeToken && tokens == nil {
		return nil, errors.New("credential issuer: token issuer is required in token mode")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &CredentialIssuer{
		store:    st,
		tokens:   tokens,
		renderer: renderer,
		baseURL:  NormalizeBaseURL(cfg.BaseURL),
		mode:     mode,
		ttl:      ttl,
	}, nil
}

// NormalizeBaseURL trims whitespace and trailing slashes, falling back to
// DefaultBaseVerifyURL.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBaseVerifyURL
	}
	return base
}

// LookupURL is the token-free verification URL for an id.
func (i *CredentialIssuer) LookupURL(id string) string {
	return i.baseURL + "/" + url.PathEscape(store.NormalizeID(id))
}

// IssueCredential builds the verification URL of an existing employee,
// embedding a fresh token in token mode.
func (i *CredentialIssuer) IssueCredential(ctx context.Context, id string) (*Credential, error) {
	ctx = ensureContext(ctx)

	emp, err := i.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return i.issue(emp.ID)
}

// RenderQR issues a credential and renders it. The renderer receives only
// the public card fields.
func (i *CredentialIssuer) RenderQR(ctx context.Context, id string) (*Artifact, error) {
	ctx = ensureContext(ctx)

	if i.renderer == nil {
		return nil, errors.New("credential issuer: renderer is not configured")
	}

	emp, err := i.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cred, err := i.issue(emp.ID)
	if err != nil {
		return nil, err
	}

	data, err := i.renderer.Render(render.Card{
		VerifyURL:  cred.VerifyURL,
		FullName:   emp.FullName,
		JobTitle:   emp.JobTitle,
		EmployeeID: emp.ID,
		Status:     emp.Status.Display(),
	})
	if err != nil {
		return nil, fmt.Errorf("credential issuer: render: %w", err)
	}

	return &Artifact{
		Credential:  cred,
		ContentType: i.renderer.ContentType(),
		Data:        data,
	}, nil
}

func (i *CredentialIssuer) issue(id string) (*Credential, error) {
	cred := &Credential{
		EmployeeID: id,
		VerifyURL:  i.LookupURL(id),
	}

	if i.mode == ModeToken {
		token, expiresAt, err := i.tokens.Issue(id, i.ttl)
		if err != nil {
			return nil, fmt.Errorf("credential issuer: issue token: %w", err)
		}
		cred.VerifyURL += "?token=" + url.QueryEscape(token)
		cred.ExpiresAt = &expiresAt
	}

	metrics.CredentialsIssued.WithLabelValues(string(i.mode)).Inc()
	return cred, nil
}
