package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajglobal/staffverify/internal/models"
	"github.com/ajglobal/staffverify/internal/store"
)

func TestNormalizeBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseVerifyURL, NormalizeBaseURL(""))
	require.Equal(t, "https://x.example/verify", NormalizeBaseURL(" https://x.example/verify// "))
}

func TestNewCredentialIssuerValidatesDependencies(t *testing.T) {
	_, err := NewCredentialIssuer(nil, nil, nil, IssuerConfig{})
	require.EqualError(t, err, "credential issuer: store is required")

	_, err = NewCredentialIssuer(store.NewMemoryStore(nil), nil, nil, IssuerConfig{Mode: ModeToken})
	require.Error(t, err)

	_, err = NewCredentialIssuer(store.NewMemoryStore(nil), nil, nil, IssuerConfig{Mode: "hybrid"})
	require.EqualError(t, err, `credential issuer: unknown mode "hybrid"`)
}

func TestIssueCredentialTokenMode(t *testing.T) {
	f := newFixture(t, ModeToken, nil)
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)

	cred, err := f.issuer.IssueCredential(context.Background(), " aj-emp-001 ")
	require.NoError(t, err)
	require.Equal(t, "AJ-EMP-001", cred.EmployeeID)
	require.True(t, strings.HasPrefix(cred.VerifyURL, "https://verify.ajglobal.example/verify/AJ-EMP-001?token="))
	require.NotNil(t, cred.ExpiresAt)
	require.Equal(t, f.clock.Now().Add(time.Hour), *cred.ExpiresAt)

	payload, err := f.codec.Verify(tokenFromURL(t, cred.VerifyURL))
	require.NoError(t, err)
	require.Equal(t, "AJ-EMP-001", payload.ID)
}

func TestIssueCredentialLookupMode(t *testing.T) {
	f := newFixture(t, ModeLookup, nil)
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)

	cred, err := f.issuer.IssueCredential(context.Background(), "AJ-EMP-001")
	require.NoError(t, err)
	require.Equal(t, "https://verify.ajglobal.example/verify/AJ-EMP-001", cred.VerifyURL)
	require.Nil(t, cred.ExpiresAt)
	require.Equal(t, cred.VerifyURL, f.issuer.LookupURL("aj-emp-001"))
}

func TestIssueCredentialRequiresEmployee(t *testing.T) {
	f := newFixture(t, ModeToken, nil)

	_, err := f.issuer.IssueCredential(context.Background(), "AJ-EMP-404")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRenderQRPassesOnlyPublicCard(t *testing.T) {
	renderer := &recordingRenderer{}
	f := newFixture(t, ModeToken, renderer)
	f.createEmployee(t, "AJ-EMP-001", models.StatusOnLeave)

	artifact, err := f.issuer.RenderQR(context.Background(), "AJ-EMP-001")
	require.NoError(t, err)
	require.Equal(t, "text/plain", artifact.ContentType)
	require.Equal(t, "rendered:"+artifact.Credential.VerifyURL, string(artifact.Data))

	require.Len(t, renderer.cards, 1)
	card := renderer.cards[0]
	require.Equal(t, artifact.Credential.VerifyURL, card.VerifyURL)
	require.Equal(t, "Jordan Alvarez", card.FullName)
	require.Equal(t, "Route Driver", card.JobTitle)
	require.Equal(t, "AJ-EMP-001", card.EmployeeID)
	require.Equal(t, "ON LEAVE", card.Status)
	require.NotContains(t, card.VerifyURL, testSecret)
}

func TestRenderQRWithoutRenderer(t *testing.T) {
	f := newFixture(t, ModeToken, nil)
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)

	_, err := f.issuer.RenderQR(context.Background(), "AJ-EMP-001")
	require.Error(t, err)
}
