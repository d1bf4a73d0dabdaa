package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajglobal/staffverify/internal/credential"
	"github.com/ajglobal/staffverify/internal/models"
	"github.com/ajglobal/staffverify/internal/render"
	"github.com/ajglobal/staffverify/internal/store"
)

const testSecret = "services-test-secret"

type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time { return c.current }

func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

type fixture struct {
	clock    *testClock
	store    *store.MemoryStore
	codec    *credential.Codec
	verifier *VerificationService
	issuer   *CredentialIssuer
}

func newFixture(t *testing.T, mode VerificationMode, renderer Renderer) *fixture {
	t.Helper()

	clock := &testClock{current: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	st := store.NewMemoryStore(clock.Now)

	codec, err := credential.NewCodec(credential.Config{Secret: testSecret, Clock: clock.Now})
	require.NoError(t, err)

	verifier, err := NewVerificationService(st, codec, VerificationConfig{Mode: mode, Clock: clock.Now})
	require.NoError(t, err)

	issuer, err := NewCredentialIssuer(st, codec, renderer, IssuerConfig{
		BaseURL:  "https://verify.ajglobal.example/verify/",
		Mode:     mode,
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)

	return &fixture{clock: clock, store: st, codec: codec, verifier: verifier, issuer: issuer}
}

func (f *fixture) createEmployee(t *testing.T, id string, status models.EmployeeStatus) *models.Employee {
	t.Helper()
	emp, err := f.store.Create(context.Background(), store.CreateEmployeeInput{
		EmployeeID:            id,
		FullName:              "Jordan Alvarez",
		JobTitle:              "Route Driver",
		Status:                string(status),
		Phone:                 "555-0100",
		Email:                 "jordan@example.com",
		HomeAddress:           "12 Depot Road",
		DOB:                   "1990-01-01",
		EmergencyContactName:  "Sam Alvarez",
		EmergencyContactPhone: "555-0101",
	})
	require.NoError(t, err)
	return emp
}

func tokenFromURL(t *testing.T, raw string) string {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	return parsed.Query().Get("token")
}

type recordingRenderer struct {
	cards []render.Card
}

func (r *recordingRenderer) Render(card render.Card) ([]byte, error) {
	r.cards = append(r.cards, card)
	return []byte("rendered:" + card.VerifyURL), nil
}

func (r *recordingRenderer) ContentType() string { return "text/plain" }

type failingStore struct {
	store.Store
	err error
}

func (s failingStore) Get(context.Context, string) (*models.Employee, error) {
	return nil, s.err
}
