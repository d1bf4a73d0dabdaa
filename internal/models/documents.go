package models

import "time"

// DocumentChecklist tracks onboarding paperwork for an Employee. Values are
// opaque references (URIs or storage keys), never file content.
type DocumentChecklist struct {
	EmployeeID          string    `gorm:"primaryKey;size:64" json:"employee_id"`
	Employee            *Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	EmploymentAgreement string    `json:"employment_agreement"`
	W4                  string    `gorm:"column:w4" json:"w4"`
	I9                  string    `gorm:"column:i9" json:"i9"`
	GovernmentIDCopy    string    `gorm:"column:government_id_copy" json:"government_id_copy"`
	DriverLicenseCopy   string    `json:"driver_license_copy"`
	MedicalCard         string    `json:"medical_card"`
	NDA                 string    `gorm:"column:nda" json:"nda"`
	InsuranceAck        string    `json:"insurance_ack"`
	BackgroundCheck     string    `json:"background_check"`
	Notes               string    `json:"notes"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (DocumentChecklist) TableName() string {
	return "documents"
}
