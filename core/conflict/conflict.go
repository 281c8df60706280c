// Package conflict finds assignments that violate operational rules:
// missing skills or certifications, location mismatches, maintenance
// windows, availability dates and double bookings.
package conflict

import "fmt"

// Type classifies a conflict.
type Type string

const (
	TypeSkillMismatch         Type = "skill_mismatch"
	TypeCertificationMismatch Type = "certification_mismatch"
	TypeLocationMismatch      Type = "location_mismatch"
	TypeMaintenanceConflict   Type = "maintenance_conflict"
	TypeAvailabilityConflict  Type = "availability_conflict"
	TypeDoubleBooking         Type = "double_booking"
)

// Severity grades how urgently a conflict needs attention.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityOf is the fixed severity for each conflict type.
func severityOf(t Type) Severity {
	switch t {
	case TypeLocationMismatch:
		return SeverityMedium
	case TypeDoubleBooking:
		return SeverityCritical
	}
	return SeverityHigh
}

// Conflict is one detected rule violation, described for humans in Message
// and for machines in Type and Severity.
type Conflict struct {
	Type     Type     `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func newConflict(t Type, format string, args ...any) Conflict {
	return Conflict{Type: t, Severity: severityOf(t), Message: fmt.Sprintf(format, args...)}
}
