// Package credential builds and checks the signed tokens embedded in staff
// verification links.
//
// A token is two base64url segments joined by '.', which is outside the
// base64url alphabet:
//
//	base64url(json({"id": "<employee id>", "exp": <unix seconds>})) "." base64url(HMAC-SHA256(secret, first segment))
//
// Tokens are stateless. There is no revocation list, so the TTL bounds the
// damage of a leaked link.
package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ajglobal/staffverify/pkg/errors"
)

const separator = "."

var encoding = base64.RawURLEncoding

var (
	// ErrTokenInvalid covers bad structure, bad signature and missing expiry.
	ErrTokenInvalid = apperrors.New("TOKEN_INVALID", "Credential is not valid", http.StatusUnauthorized)
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = apperrors.New("TOKEN_EXPIRED", "Credential is not valid", http.StatusUnauthorized)
)

// Payload is the claim set bound into a token.
type Payload struct {
	ID  string `json:"id"`
	Exp int64  `json:"exp"`
}

// ExpiresAt converts the expiry claim to a time.
func (p Payload) ExpiresAt() time.Time {
	return time.Unix(p.Exp, 0).UTC()
}

// Config bundles the inputs required to build a Codec.
type Config struct {
	Secret string
	Clock  func() time.Time
}

// Codec issues and verifies tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec constructs a Codec. An empty secret is rejected.
func NewCodec(cfg Config) (*Codec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("credential: signing secret must be provided")
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &Codec{
		secret: []byte(cfg.Secret),
		now:    now,
	}, nil
}

// Issue mints a token for subjectID valid for ttl from now.
func (c *Codec) Issue(subjectID string, ttl time.Duration) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, errors.New("credential: subject id is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("credential: ttl must be positive, got %s", ttl)
	}

	expiresAt := c.now().Add(ttl).Truncate(time.Second).UTC()
	body, err := json.Marshal(Payload{ID: subjectID, Exp: expiresAt.Unix()})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("credential: encode payload: %w", err)
	}

	encoded := encoding.EncodeToString(body)
	return encoded + separator + c.sign(encoded), expiresAt, nil
}

// Verify checks signature then expiry and returns the embedded payload.
// A token stays valid through the second named by exp and fails after it.
func (c *Codec) Verify(token string) (*Payload, error) {
	parts := strings.Split(token, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrTokenInvalid
	}

	expected := c.sign(parts[0])
	if len(expected) != len(parts[1]) {
		return nil, ErrTokenInvalid
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(parts[1])) != 1 {
		return nil, ErrTokenInvalid
	}

	raw, err := encoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrTokenInvalid.WithInternal(err)
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrTokenInvalid.WithInternal(err)
	}
	if payload.Exp == 0 {
		return nil, ErrTokenInvalid
	}

	if c.now().Unix() > payload.Exp {
		return nil, ErrTokenExpired
	}

	return &payload, nil
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return encoding.EncodeToString(mac.Sum(nil))
}
