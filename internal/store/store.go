// Package store owns the employee registry: employees plus their optional
// driver addendum and document checklist.
//
// Employees are updated field by field. Driver and document rows are always
// replaced whole. Deleting an employee removes both child rows.
package store

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ajglobal/staffverify/internal/models"
	apperrors "github.com/ajglobal/staffverify/pkg/errors"
	"github.com/ajglobal/staffverify/pkg/metrics"
)

// DefaultTimeout bounds a single store operation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

var (
	// ErrInvalidInput reports missing or malformed required fields.
	ErrInvalidInput = apperrors.New("INVALID_INPUT", "Invalid employee data", http.StatusBadRequest)
	// ErrNotFound reports an unknown employee id.
	ErrNotFound = apperrors.New("EMPLOYEE_NOT_FOUND", "Employee not found", http.StatusNotFound)
	// ErrDuplicateID reports a create for an id that already exists.
	ErrDuplicateID = apperrors.New("DUPLICATE_ID", "Employee id already exists", http.StatusConflict)
	// ErrStoreUnavailable reports a timeout or lost connection. Callers may retry.
	ErrStoreUnavailable = apperrors.New("STORE_UNAVAILABLE", "Employee store temporarily unavailable, retry later", http.StatusServiceUnavailable)
)

// Store is the persistence contract shared by the verification and
// credential services and the admin API.
type Store interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id string, input UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, id string) error

	UpsertDriver(ctx context.Context, id string, input DriverInput) (*models.DriverAddendum, error)
	GetDriver(ctx context.Context, id string) (*models.DriverAddendum, error)
	UpsertDocuments(ctx context.Context, id string, input DocumentsInput) (*models.DocumentChecklist, error)
	GetDocuments(ctx context.Context, id string) (*models.DocumentChecklist, error)

	Ping(ctx context.Context) error
}

// NormalizeID is applied to every id entering the store.
func NormalizeID(id string) string {
	return models.NormalizeEmployeeID(id)
}

// CreateEmployeeInput describes a new employee. Status is optional and
// defaults to Active.
type CreateEmployeeInput struct {
	EmployeeID            string `json:"employee_id" validate:"required,max=64"`
	FullName              string `json:"full_name" validate:"required,max=200"`
	JobTitle              string `json:"job_title" validate:"max=200"`
	Department            string `json:"department" validate:"max=200"`
	EmploymentType        string `json:"employment_type" validate:"max=100"`
	HireDate              string `json:"hire_date" validate:"max=32"`
	Status                string `json:"status" validate:"max=32"`
	Phone                 string `json:"phone" validate:"max=64"`
	Email                 string `json:"email" validate:"omitempty,email"`
	HomeAddress           string `json:"home_address"`
	DOB                   string `json:"dob" validate:"max=32"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"max=64"`
	Notes                 string `json:"notes"`
}

// UpdateEmployeeInput enumerates mutable employee attributes. A nil field
// keeps the stored value.
type UpdateEmployeeInput struct {
	FullName              *string `json:"full_name" validate:"omitempty,max=200"`
	JobTitle              *string `json:"job_title" validate:"omitempty,max=200"`
	Department            *string `json:"department" validate:"omitempty,max=200"`
	EmploymentType        *string `json:"employment_type" validate:"omitempty,max=100"`
	HireDate              *string `json:"hire_date" validate:"omitempty,max=32"`
	Status                *string `json:"status" validate:"omitempty,max=32"`
	Phone                 *string `json:"phone" validate:"omitempty,max=64"`
	Email                 *string `json:"email" validate:"omitempty,clearable_email"`
	HomeAddress           *string `json:"home_address"`
	DOB                   *string `json:"dob" validate:"omitempty,max=32"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" validate:"omitempty,max=64"`
	Notes                 *string `json:"notes"`
}

// DriverInput is the full driver addendum. Omitted fields are stored empty.
type DriverInput struct {
	LicenseNumber     string `json:"license_number" validate:"max=64"`
	LicenseState      string `json:"license_state" validate:"max=32"`
	LicenseExpiry     string `json:"license_expiry" validate:"max=32"`
	MedicalCardExpiry string `json:"medical_card_expiry" validate:"max=32"`
	DrugAlcoholStatus string `json:"drug_alcohol_status" validate:"max=64"`
	AssignedVehicle   string `json:"assigned_vehicle" validate:"max=64"`
	RouteType         string `json:"route_type" validate:"max=64"`
	Notes             string `json:"notes"`
}

// DocumentsInput is the full document checklist. Omitted fields are stored empty.
type DocumentsInput struct {
	EmploymentAgreement string `json:"employment_agreement"`
	W4                  string `json:"w4"`
	I9                  string `json:"i9"`
	GovernmentIDCopy    string `json:"government_id_copy"`
	DriverLicenseCopy   string `json:"driver_license_copy"`
	MedicalCard         string `json:"medical_card"`
	NDA                 string `json:"nda"`
	InsuranceAck        string `json:"insurance_ack"`
	BackgroundCheck     string `json:"background_check"`
	Notes               string `json:"notes"`
}

func (in CreateEmployeeInput) build() (*models.Employee, error) {
	id := NormalizeID(in.EmployeeID)
	fullName := strings.TrimSpace(in.FullName)

	var invalid *apperrors.AppError
	if id == "" {
		invalid = ErrInvalidInput.WithField("employee_id", "employee id is required")
	}
	if fullName == "" {
		if invalid == nil {
			invalid = ErrInvalidInput
		}
		invalid = invalid.WithField("full_name", "full name is required")
	}

	status, err := models.ParseStatus(in.Status)
	if err != nil {
		if invalid == nil {
			invalid = ErrInvalidInput
		}
		invalid = invalid.WithField("status", statusHint())
	}
	if invalid != nil {
		return nil, invalid
	}

	return &models.Employee{
		ID:                    id,
		FullName:              fullName,
		JobTitle:              strings.TrimSpace(in.JobTitle),
		Department:            strings.TrimSpace(in.Department),
		EmploymentType:        strings.TrimSpace(in.EmploymentType),
		HireDate:              strings.TrimSpace(in.HireDate),
		Status:                status,
		Phone:                 strings.TrimSpace(in.Phone),
		Email:                 strings.TrimSpace(in.Email),
		HomeAddress:           strings.TrimSpace(in.HomeAddress),
		DOB:                   strings.TrimSpace(in.DOB),
		EmergencyContactName:  strings.TrimSpace(in.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(in.EmergencyContactPhone),
		Notes:                 strings.TrimSpace(in.Notes),
	}, nil
}

// validate checks the update without touching any record so a rejected
// update never leaves a half-applied row.
func (in UpdateEmployeeInput) validate() error {
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return ErrInvalidInput.WithField("full_name", "full name cannot be empty")
	}
	if in.Status != nil {
		if _, err := models.ParseStatus(*in.Status); err != nil || strings.TrimSpace(*in.Status) == "" {
			return ErrInvalidInput.WithField("status", statusHint())
		}
	}
	return nil
}

// apply merges the non-nil fields into emp. validate must have passed.
func (in UpdateEmployeeInput) apply(emp *models.Employee) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	set(&emp.FullName, in.FullName)
	set(&emp.JobTitle, in.JobTitle)
	set(&emp.Department, in.Department)
	set(&emp.EmploymentType, in.EmploymentType)
	set(&emp.HireDate, in.HireDate)
	set(&emp.Phone, in.Phone)
	set(&emp.Email, in.Email)
	set(&emp.HomeAddress, in.HomeAddress)
	set(&emp.DOB, in.DOB)
	set(&emp.EmergencyContactName, in.EmergencyContactName)
	set(&emp.EmergencyContactPhone, in.EmergencyContactPhone)
	set(&emp.Notes, in.Notes)

	if in.Status != nil {
		status, _ := models.ParseStatus(*in.Status)
		emp.Status = status
	}
}

func (in DriverInput) build(id string, now time.Time) *models.DriverAddendum {
	return &models.DriverAddendum{
		EmployeeID:        id,
		LicenseNumber:     strings.TrimSpace(in.LicenseNumber),
		LicenseState:      strings.TrimSpace(in.LicenseState),
		LicenseExpiry:     strings.TrimSpace(in.LicenseExpiry),
		MedicalCardExpiry: strings.TrimSpace(in.MedicalCardExpiry),
		DrugAlcoholStatus: strings.TrimSpace(in.DrugAlcoholStatus),
		AssignedVehicle:   strings.TrimSpace(in.AssignedVehicle),
		RouteType:         strings.TrimSpace(in.RouteType),
		Notes:             strings.TrimSpace(in.Notes),
		UpdatedAt:         now,
	}
}

func (in DocumentsInput) build(id string, now time.Time) *models.DocumentChecklist {
	return &models.DocumentChecklist{
		EmployeeID:          id,
		EmploymentAgreement: strings.TrimSpace(in.EmploymentAgreement),
		W4:                  strings.TrimSpace(in.W4),
		I9:                  strings.TrimSpace(in.I9),
		GovernmentIDCopy:    strings.TrimSpace(in.GovernmentIDCopy),
		DriverLicenseCopy:   strings.TrimSpace(in.DriverLicenseCopy),
		MedicalCard:         strings.TrimSpace(in.MedicalCard),
		NDA:                 strings.TrimSpace(in.NDA),
		InsuranceAck:        strings.TrimSpace(in.InsuranceAck),
		BackgroundCheck:     strings.TrimSpace(in.BackgroundCheck),
		Notes:               strings.TrimSpace(in.Notes),
		UpdatedAt:           now,
	}
}

func statusHint() string {
	names := make([]string, len(models.Statuses))
	for i, status := range models.Statuses {
		names[i] = string(status)
	}
	return "status must be one of: " + strings.Join(names, ", ")
}

func requireID(raw string) (string, error) {
	id := NormalizeID(raw)
	if id == "" {
		return "", ErrInvalidInput.WithField("employee_id", "employee id is required")
	}
	return id, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// observe records the outcome of a store call.
func observe(operation string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case isClientError(err):
		result = "rejected"
	case isUnavailable(err):
		result = "unavailable"
	default:
		result = "error"
	}
	metrics.StoreOperations.WithLabelValues(operation, result).Inc()
}
