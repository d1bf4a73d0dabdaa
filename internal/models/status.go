package models

import (
	"fmt"
	"strings"
)

// EmployeeStatus enumerates the employment states tracked for a person.
type EmployeeStatus string

const (
	StatusActive     EmployeeStatus = "Active"
	StatusInactive   EmployeeStatus = "Inactive"
	StatusOnLeave    EmployeeStatus = "On Leave"
	StatusTerminated EmployeeStatus = "Terminated"
)

// Statuses lists every accepted status in display order.
var Statuses = []EmployeeStatus{StatusActive, StatusInactive, StatusOnLeave, StatusTerminated}

// ParseStatus accepts any casing and "_"/"-" separators ("on_leave", "ON LEAVE").
// An empty value yields StatusActive.
func ParseStatus(raw string) (EmployeeStatus, error) {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(raw))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return StatusActive, nil
	}
	for _, status := range Statuses {
		if strings.EqualFold(cleaned, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown employee status %q", raw)
}

// IsActive reports whether the status attests current employment.
func (s EmployeeStatus) IsActive() bool {
	return s == StatusActive
}

// Display renders the status the way the public verification page shows it.
func (s EmployeeStatus) Display() string {
	return strings.ToUpper(string(s))
}
