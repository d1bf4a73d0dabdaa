package models

import (
	"strings"
	"time"
)

// NormalizeEmployeeID trims and upper-cases an external employee identifier.
// Every read and write path must go through it so lookups never miss on case
// or whitespace drift.
func NormalizeEmployeeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Employee is the identity record behind a staff credential.
type Employee struct {
	ID             string         `gorm:"primaryKey;column:employee_id;size:64" json:"employee_id"`
	FullName       string         `gorm:"not null" json:"full_name"`
	JobTitle       string         `json:"job_title"`
	Department     string         `json:"department"`
	EmploymentType string         `json:"employment_type"`
	HireDate       string         `json:"hire_date"`
	Status         EmployeeStatus `gorm:"size:32;not null;default:Active;index" json:"status"`

	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	HomeAddress           string `json:"home_address"`
	DOB                   string `gorm:"column:dob" json:"dob"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	Notes                 string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (Employee) TableName() string {
	return "employees"
}
