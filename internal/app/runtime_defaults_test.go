package app

import (
	"errors"
	"strings"
	"testing"
)

func TestApplyRuntimeDefaultsGeneratesMissingSecrets(t *testing.T) {
	cfg := &Config{}

	generated, err := ApplyRuntimeDefaults(cfg)
	if err != nil {
		t.Fatalf("ApplyRuntimeDefaults returned error: %v", err)
	}

	if len(cfg.Admin.JWTSecret) != jwtSecretBytes*2 {
		t.Fatalf("expected admin jwt secret of %d hex chars, got %q", jwtSecretBytes*2, cfg.Admin.JWTSecret)
	}
	if cfg.Verification.Secret != DevelopmentVerificationSecret {
		t.Fatalf("expected development verification secret, got %q", cfg.Verification.Secret)
	}
	if !generated["admin.jwt_secret"] || !generated["verification.secret"] {
		t.Fatalf("expected generated map to include both secrets: %#v", generated)
	}
}

func TestApplyRuntimeDefaultsPreservesExistingSecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Admin.JWTSecret = strings.Repeat("a", 10)
	cfg.Verification.Secret = "  " + strings.Repeat("b", 10) + " "

	generated, err := ApplyRuntimeDefaults(cfg)
	if err != nil {
		t.Fatalf("ApplyRuntimeDefaults returned error: %v", err)
	}

	if len(generated) != 0 {
		t.Fatalf("expected no keys generated, got %#v", generated)
	}
	if cfg.Verification.Secret != strings.Repeat("b", 10) {
		t.Fatalf("expected trimmed verification secret, got %q", cfg.Verification.Secret)
	}
}

func TestApplyRuntimeDefaultsRequiresSecretInProduction(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Environment = "Production"

	_, err := ApplyRuntimeDefaults(cfg)
	if !errors.Is(err, ErrVerificationSecretRequired) {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestApplyRuntimeDefaultsNilConfig(t *testing.T) {
	_, err := ApplyRuntimeDefaults(nil)
	if err == nil || !strings.Contains(err.Error(), "config is nil") {
		t.Fatalf("expected nil config error, got %v", err)
	}
}

func TestGenerateHexKey(t *testing.T) {
	key, err := generateHexKey(4)
	if err != nil {
		t.Fatalf("generateHexKey returned error: %v", err)
	}
	if len(key) != 8 {
		t.Fatalf("expected encoded length 8, got %d", len(key))
	}

	if _, err = generateHexKey(0); err == nil {
		t.Fatal("expected error when length <= 0")
	}
}
