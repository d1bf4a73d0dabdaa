package app

import (
	"fmt"

	"github.com/ajglobal/staffverify/internal/credential"
	"github.com/ajglobal/staffverify/internal/services"
)

// CodecConfig converts VerificationConfig into token codec parameters.
func (c VerificationConfig) CodecConfig() credential.Config {
	return credential.Config{Secret: c.Secret}
}

// VerificationServiceConfig parses the configured mode.
func (c VerificationConfig) VerificationServiceConfig() (services.VerificationConfig, error) {
	mode, err := services.ParseVerificationMode(c.Mode)
	if err != nil {
		return services.VerificationConfig{}, fmt.Errorf("verification.mode: %w", err)
	}
	return services.VerificationConfig{Mode: mode}, nil
}

// IssuerConfig converts VerificationConfig into CredentialIssuer parameters.
func (c VerificationConfig) IssuerConfig() (services.IssuerConfig, error) {
	mode, err := services.ParseVerificationMode(c.Mode)
	if err != nil {
		return services.IssuerConfig{}, fmt.Errorf("verification.mode: %w", err)
	}

	ttl := c.TokenTTL
	if ttl <= 0 {
		ttl = services.DefaultTokenTTL
	}

	return services.IssuerConfig{
		BaseURL:  c.BaseURL,
		Mode:     mode,
		TokenTTL: ttl,
	}, nil
}
