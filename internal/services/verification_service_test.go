package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajglobal/staffverify/internal/models"
	"github.com/ajglobal/staffverify/internal/store"
)

func TestParseVerificationMode(t *testing.T) {
	mode, err := ParseVerificationMode("")
	require.NoError(t, err)
	require.Equal(t, ModeToken, mode)

	mode, err = ParseVerificationMode(" Lookup ")
	require.NoError(t, err)
	require.Equal(t, ModeLookup, mode)

	_, err = ParseVerificationMode("hybrid")
	require.Error(t, err)
}

func TestNewVerificationServiceValidatesDependencies(t *testing.T) {
	_, err := NewVerificationService(nil, nil, VerificationConfig{})
	require.EqualError(t, err, "verification service: store is required")

	st := store.NewMemoryStore(nil)
	_, err = NewVerificationService(st, nil, VerificationConfig{Mode: ModeToken})
	require.Error(t, err)

	svc, err := NewVerificationService(st, nil, VerificationConfig{Mode: ModeLookup})
	require.NoError(t, err)
	require.Equal(t, ModeLookup, svc.Mode())

	_, err = NewVerificationService(st, nil, VerificationConfig{Mode: "hybrid"})
	require.Error(t, err)
}

func TestVerificationLifecycle(t *testing.T) {
	f := newFixture(t, ModeToken, nil)
	ctx := context.Background()
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)

	cred, err := f.issuer.IssueCredential(ctx, "AJ-EMP-001")
	require.NoError(t, err)
	token := tokenFromURL(t, cred.VerifyURL)
	require.NotEmpty(t, token)

	result, err := f.verifier.Verify(ctx, "aj-emp-001", token)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "ACTIVE", result.Status)
	require.Equal(t, "AJ-EMP-001", result.EmployeeID)
	require.Equal(t, "Jordan Alvarez", result.FullName)
	require.Equal(t, "Route Driver", result.JobTitle)
	require.Equal(t, ReasonValid, result.Reason)

	_, err = f.store.Update(ctx, "AJ-EMP-001", store.UpdateEmployeeInput{Status: strPtr("Terminated")})
	require.NoError(t, err)

	result, err = f.verifier.Verify(ctx, "AJ-EMP-001", token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "TERMINATED", result.Status)
	require.Equal(t, ReasonInactive, result.Reason)

	_, err = f.store.Update(ctx, "AJ-EMP-001", store.UpdateEmployeeInput{Status: strPtr("Active")})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	result, err = f.verifier.Verify(ctx, "AJ-EMP-001", token)
	require.NoError(t, err)
	require.True(t, result.Valid, "token is still valid at its expiry second")

	f.clock.Advance(time.Second)
	result, err = f.verifier.Verify(ctx, "AJ-EMP-001", token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, StatusInvalid, result.Status)
	require.Equal(t, ReasonTokenExpired, result.Reason)
	require.Empty(t, result.FullName)
	require.Empty(t, result.JobTitle)
}

func TestVerifyRejectsTokenForAnotherEmployee(t *testing.T) {
	f := newFixture(t, ModeToken, nil)
	ctx := context.Background()
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)
	f.createEmployee(t, "AJ-EMP-002", models.StatusActive)

	cred, err := f.issuer.IssueCredential(ctx, "AJ-EMP-002")
	require.NoError(t, err)

	result, err := f.verifier.Verify(ctx, "AJ-EMP-001", tokenFromURL(t, cred.VerifyURL))
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, StatusInvalid, result.Status)
	require.Equal(t, ReasonSubjectMismatch, result.Reason)
	require.Empty(t, result.FullName)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	f := newFixture(t, ModeToken, nil)
	ctx := context.Background()
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)

	token, _, err := f.codec.Issue("AJ-EMP-001", time.Hour)
	require.NoError(t, err)
	last := token[len(token)-1]
	replacement := "A"
	if last == 'A' {
		replacement = "B"
	}
	tampered := token[:len(token)-1] + replacement

	for _, candidate := range []string{"", "garbage", tampered, strings.Replace(token, ".", "", 1)} {
		result, err := f.verifier.Verify(ctx, "AJ-EMP-001", candidate)
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.Equal(t, StatusInvalid, result.Status)
		require.Equal(t, ReasonTokenInvalid, result.Reason)
	}
}

func TestVerifyUnknownEmployee(t *testing.T) {
	f := newFixture(t, ModeToken, nil)
	ctx := context.Background()

	token, _, err := f.codec.Issue("AJ-EMP-404", time.Hour)
	require.NoError(t, err)

	result, err := f.verifier.Verify(ctx, "AJ-EMP-404", token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, StatusInvalid, result.Status)
	require.Equal(t, ReasonNotFound, result.Reason)

	result, err = f.verifier.Verify(ctx, "   ", token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, ReasonNotFound, result.Reason)
}

func TestVerifyLookupModeIgnoresToken(t *testing.T) {
	f := newFixture(t, ModeLookup, nil)
	ctx := context.Background()
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)
	f.createEmployee(t, "AJ-EMP-002", models.StatusOnLeave)

	result, err := f.verifier.Verify(ctx, "aj-emp-001", "")
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "ACTIVE", result.Status)

	result, err = f.verifier.Verify(ctx, "AJ-EMP-001", "not-a-token")
	require.NoError(t, err)
	require.True(t, result.Valid)

	result, err = f.verifier.Verify(ctx, "AJ-EMP-002", "")
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "ON LEAVE", result.Status)
}

func TestVerificationResultCarriesNoPersonalData(t *testing.T) {
	f := newFixture(t, ModeLookup, nil)
	f.createEmployee(t, "AJ-EMP-001", models.StatusActive)

	result, err := f.verifier.Verify(context.Background(), "AJ-EMP-001", "")
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	require.ElementsMatch(t, []string{"valid", "status", "employee_id", "full_name", "job_title", "verified_at"}, keys)

	for _, secret := range []string{"555-0100", "jordan@example.com", "12 Depot Road", "1990-01-01", "Sam Alvarez"} {
		require.NotContains(t, string(raw), secret)
	}
}

func TestVerifySurfacesStoreFailures(t *testing.T) {
	svc, err := NewVerificationService(failingStore{err: store.ErrStoreUnavailable}, nil, VerificationConfig{Mode: ModeLookup})
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), "AJ-EMP-001", "")
	require.Nil(t, result)
	require.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func strPtr(v string) *string { return &v }
