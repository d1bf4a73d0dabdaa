package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	jwtSecretBytes = 48

	// DevelopmentVerificationSecret signs credentials when no secret is configured
	// outside production. Credentials signed with it must never be handed out.
	DevelopmentVerificationSecret = "staffverify-development-secret-do-not-use-in-production"
)

// ErrVerificationSecretRequired is returned in production when no signing secret is configured.
var ErrVerificationSecretRequired = errors.New("verification.secret must be configured in production")

// ApplyRuntimeDefaults ensures critical secrets are populated even when no configuration file is supplied.
// It returns a map describing which keys were generated so callers can log the event without exposing values.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	generated := make(map[string]bool)

	cfg.Admin.JWTSecret = strings.TrimSpace(cfg.Admin.JWTSecret)
	if cfg.Admin.JWTSecret == "" {
		secret, err := generateHexKey(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate admin jwt secret: %w", err)
		}
		cfg.Admin.JWTSecret = secret
		generated["admin.jwt_secret"] = true
	}

	cfg.Verification.Secret = strings.TrimSpace(cfg.Verification.Secret)
	if cfg.Verification.Secret == "" {
		if cfg.Server.IsProduction() {
			return nil, ErrVerificationSecretRequired
		}
		cfg.Verification.Secret = DevelopmentVerificationSecret
		generated["verification.secret"] = true
	}

	return generated, nil
}

func generateHexKey(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
