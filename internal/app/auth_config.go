package app

import (
	"strings"

	"github.com/ajglobal/staffverify/internal/auth"
)

const defaultAdminIssuer = "staffverify"

// JWTServiceConfig converts AdminConfig into the parameters expected by the JWT service.
func (c AdminConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultAdminTokenTTL
	}

	issuer := strings.TrimSpace(c.Issuer)
	if issuer == "" {
		issuer = defaultAdminIssuer
	}

	return auth.JWTConfig{
		Secret:   c.JWTSecret,
		Issuer:   issuer,
		TokenTTL: ttl,
	}
}
