package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajglobal/staffverify/internal/models"
	apperrors "github.com/ajglobal/staffverify/pkg/errors"
)

func strPtr(v string) *string { return &v }

func fullEmployee(id string) CreateEmployeeInput {
	return CreateEmployeeInput{
		EmployeeID:            id,
		FullName:              "Jordan Alvarez",
		JobTitle:              "Route Driver",
		Department:            "Logistics",
		EmploymentType:        "Full-time",
		HireDate:              "2021-04-12",
		Phone:                 "555-0100",
		Email:                 "jordan@example.com",
		HomeAddress:           "12 Depot Road",
		DOB:                   "1990-01-01",
		EmergencyContactName:  "Sam Alvarez",
		EmergencyContactPhone: "555-0101",
		Notes:                 "night shift",
	}
}

// runStoreContract exercises the behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create normalises id and defaults status", func(t *testing.T) {
		s := newStore(t)

		emp, err := s.Create(ctx, CreateEmployeeInput{EmployeeID: "  aj-emp-001 ", FullName: " Jordan Alvarez "})
		require.NoError(t, err)
		require.Equal(t, "AJ-EMP-001", emp.ID)
		require.Equal(t, "Jordan Alvarez", emp.FullName)
		require.Equal(t, models.StatusActive, emp.Status)

		got, err := s.Get(ctx, "aj-emp-001")
		require.NoError(t, err)
		require.Equal(t, "AJ-EMP-001", got.ID)
		require.Equal(t, models.StatusActive, got.Status)
	})

	t.Run("create accepts any status casing", func(t *testing.T) {
		s := newStore(t)

		emp, err := s.Create(ctx, CreateEmployeeInput{EmployeeID: "E1", FullName: "A", Status: "on_leave"})
		require.NoError(t, err)
		require.Equal(t, models.StatusOnLeave, emp.Status)
	})

	t.Run("create rejects invalid input", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, CreateEmployeeInput{EmployeeID: "   ", FullName: "Someone"})
		require.ErrorIs(t, err, ErrInvalidInput)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		require.Contains(t, appErr.Fields, "employee_id")

		_, err = s.Create(ctx, CreateEmployeeInput{EmployeeID: "E1", FullName: "  "})
		require.ErrorIs(t, err, ErrInvalidInput)
		require.True(t, errors.As(err, &appErr))
		require.Contains(t, appErr.Fields, "full_name")

		_, err = s.Create(ctx, CreateEmployeeInput{EmployeeID: "E1", FullName: "A", Status: "Retired"})
		require.ErrorIs(t, err, ErrInvalidInput)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("create rejects duplicate ids after normalisation", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, CreateEmployeeInput{EmployeeID: "AJ-EMP-001", FullName: "First"})
		require.NoError(t, err)

		_, err = s.Create(ctx, CreateEmployeeInput{EmployeeID: " aj-emp-001", FullName: "Second"})
		require.ErrorIs(t, err, ErrDuplicateID)

		got, err := s.Get(ctx, "AJ-EMP-001")
		require.NoError(t, err)
		require.Equal(t, "First", got.FullName)
	})

	t.Run("concurrent creates yield exactly one winner", func(t *testing.T) {
		s := newStore(t)

		const callers = 16
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			successes  int
			duplicates int
			others     []error
		)
		start := make(chan struct{})
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := s.Create(ctx, CreateEmployeeInput{EmployeeID: "AJ-EMP-777", FullName: "Racer"})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, ErrDuplicateID):
					duplicates++
				default:
					others = append(others, err)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Empty(t, others)
		require.Equal(t, 1, successes)
		require.Equal(t, callers-1, duplicates)
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Get(ctx, "NOPE")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.Get(ctx, "  ")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("list orders by id", func(t *testing.T) {
		s := newStore(t)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)

		for _, id := range []string{"C-3", "a-1", "B-2"} {
			_, err := s.Create(ctx, CreateEmployeeInput{EmployeeID: id, FullName: "Person " + id})
			require.NoError(t, err)
		}

		list, err = s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, "A-1", list[0].ID)
		require.Equal(t, "B-2", list[1].ID)
		require.Equal(t, "C-3", list[2].ID)
	})

	t.Run("update merges only supplied fields", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)

		updated, err := s.Update(ctx, "aj-emp-001", UpdateEmployeeInput{JobTitle: strPtr("Dispatcher")})
		require.NoError(t, err)
		require.Equal(t, "Dispatcher", updated.JobTitle)

		got, err := s.Get(ctx, "AJ-EMP-001")
		require.NoError(t, err)
		require.Equal(t, "Dispatcher", got.JobTitle)
		require.Equal(t, created.FullName, got.FullName)
		require.Equal(t, created.Department, got.Department)
		require.Equal(t, created.EmploymentType, got.EmploymentType)
		require.Equal(t, created.HireDate, got.HireDate)
		require.Equal(t, created.Status, got.Status)
		require.Equal(t, created.Phone, got.Phone)
		require.Equal(t, created.Email, got.Email)
		require.Equal(t, created.HomeAddress, got.HomeAddress)
		require.Equal(t, created.DOB, got.DOB)
		require.Equal(t, created.EmergencyContactName, got.EmergencyContactName)
		require.Equal(t, created.EmergencyContactPhone, got.EmergencyContactPhone)
		require.Equal(t, created.Notes, got.Notes)
		require.False(t, got.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("update can clear optional fields and change status", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)

		updated, err := s.Update(ctx, "AJ-EMP-001", UpdateEmployeeInput{
			Notes:  strPtr(""),
			Status: strPtr("terminated"),
		})
		require.NoError(t, err)
		require.Empty(t, updated.Notes)
		require.Equal(t, models.StatusTerminated, updated.Status)
		require.Equal(t, "Route Driver", updated.JobTitle)
	})

	t.Run("update with no fields still succeeds", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)

		updated, err := s.Update(ctx, "AJ-EMP-001", UpdateEmployeeInput{})
		require.NoError(t, err)
		require.Equal(t, created.FullName, updated.FullName)
		require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("update rejects bad input and unknown ids", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)

		_, err = s.Update(ctx, "AJ-EMP-001", UpdateEmployeeInput{FullName: strPtr("  "), JobTitle: strPtr("Nope")})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = s.Update(ctx, "AJ-EMP-001", UpdateEmployeeInput{Status: strPtr("Retired")})
		require.ErrorIs(t, err, ErrInvalidInput)

		got, err := s.Get(ctx, "AJ-EMP-001")
		require.NoError(t, err)
		require.Equal(t, "Route Driver", got.JobTitle)
		require.Equal(t, models.StatusActive, got.Status)

		_, err = s.Update(ctx, "AJ-EMP-404", UpdateEmployeeInput{JobTitle: strPtr("Ghost")})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete cascades to driver and documents", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)
		_, err = s.Create(ctx, fullEmployee("AJ-EMP-002"))
		require.NoError(t, err)
		for _, id := range []string{"AJ-EMP-001", "AJ-EMP-002"} {
			_, err = s.UpsertDriver(ctx, id, DriverInput{LicenseNumber: "D123"})
			require.NoError(t, err)
			_, err = s.UpsertDocuments(ctx, id, DocumentsInput{W4: "s3://docs/w4.pdf"})
			require.NoError(t, err)
		}

		require.NoError(t, s.Delete(ctx, "aj-emp-001"))

		_, err = s.Get(ctx, "AJ-EMP-001")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetDriver(ctx, "AJ-EMP-001")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetDocuments(ctx, "AJ-EMP-001")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetDriver(ctx, "AJ-EMP-002")
		require.NoError(t, err)
		_, err = s.GetDocuments(ctx, "AJ-EMP-002")
		require.NoError(t, err)

		require.ErrorIs(t, s.Delete(ctx, "AJ-EMP-001"), ErrNotFound)
	})

	t.Run("upsert driver replaces the whole record", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)

		_, err = s.UpsertDriver(ctx, "AJ-EMP-001", DriverInput{
			LicenseNumber:     "D123",
			LicenseState:      "TX",
			LicenseExpiry:     "2026-01-01",
			MedicalCardExpiry: "2025-06-01",
			DrugAlcoholStatus: "Clear",
			AssignedVehicle:   "TRK-9",
			RouteType:         "Regional",
			Notes:             "hazmat",
		})
		require.NoError(t, err)

		second, err := s.UpsertDriver(ctx, "aj-emp-001", DriverInput{LicenseNumber: "D999"})
		require.NoError(t, err)
		require.Equal(t, "AJ-EMP-001", second.EmployeeID)

		got, err := s.GetDriver(ctx, "AJ-EMP-001")
		require.NoError(t, err)
		require.Equal(t, "D999", got.LicenseNumber)
		require.Empty(t, got.LicenseState)
		require.Empty(t, got.LicenseExpiry)
		require.Empty(t, got.MedicalCardExpiry)
		require.Empty(t, got.DrugAlcoholStatus)
		require.Empty(t, got.AssignedVehicle)
		require.Empty(t, got.RouteType)
		require.Empty(t, got.Notes)
	})

	t.Run("upsert documents replaces the whole record", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(ctx, fullEmployee("AJ-EMP-001"))
		require.NoError(t, err)

		_, err = s.UpsertDocuments(ctx, "AJ-EMP-001", DocumentsInput{
			EmploymentAgreement: "doc://agreement",
			W4:                  "doc://w4",
			I9:                  "doc://i9",
			NDA:                 "doc://nda",
			BackgroundCheck:     "doc://bg",
		})
		require.NoError(t, err)

		_, err = s.UpsertDocuments(ctx, "AJ-EMP-001", DocumentsInput{I9: "doc://i9-v2"})
		require.NoError(t, err)

		got, err := s.GetDocuments(ctx, "AJ-EMP-001")
		require.NoError(t, err)
		require.Equal(t, "doc://i9-v2", got.I9)
		require.Empty(t, got.EmploymentAgreement)
		require.Empty(t, got.W4)
		require.Empty(t, got.NDA)
		require.Empty(t, got.BackgroundCheck)
	})

	t.Run("upserts require an existing employee", func(t *testing.T) {
		s := newStore(t)

		_, err := s.UpsertDriver(ctx, "AJ-EMP-404", DriverInput{LicenseNumber: "D1"})
		require.ErrorIs(t, err, ErrNotFound)
		_, err = s.UpsertDocuments(ctx, "AJ-EMP-404", DocumentsInput{W4: "x"})
		require.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetDriver(ctx, "AJ-EMP-404")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cancelled context surfaces unavailable", func(t *testing.T) {
		s := newStore(t)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Get(cancelled, "AJ-EMP-001")
		require.ErrorIs(t, err, ErrStoreUnavailable)

		_, err = s.Create(cancelled, CreateEmployeeInput{EmployeeID: "AJ-EMP-001", FullName: "A"})
		require.ErrorIs(t, err, ErrStoreUnavailable)

		require.ErrorIs(t, s.Ping(cancelled), ErrStoreUnavailable)
		require.NoError(t, s.Ping(ctx))
	})
}
