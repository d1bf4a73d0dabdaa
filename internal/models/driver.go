package models

import "time"

// DriverAddendum extends an Employee with licensing and vehicle assignment
// details. It exists only for driving staff and is always written whole.
type DriverAddendum struct {
	EmployeeID        string    `gorm:"primaryKey;size:64" json:"employee_id"`
	Employee          *Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	LicenseNumber     string    `json:"license_number"`
	LicenseState      string    `json:"license_state"`
	LicenseExpiry     string    `json:"license_expiry"`
	MedicalCardExpiry string    `json:"medical_card_expiry"`
	DrugAlcoholStatus string    `json:"drug_alcohol_status"`
	AssignedVehicle   string    `json:"assigned_vehicle"`
	RouteType         string    `json:"route_type"`
	Notes             string    `json:"notes"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (DriverAddendum) TableName() string {
	return "drivers"
}
