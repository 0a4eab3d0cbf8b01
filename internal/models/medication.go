package models

import (
	"strings"

	"gorm.io/datatypes"
)

// MedicationStatus represents the state of a medication schedule.
type MedicationStatus string

const (
	MedicationActive       MedicationStatus = "active"
	MedicationPaused       MedicationStatus = "paused"
	MedicationDiscontinued MedicationStatus = "discontinued"
)

// MedicationStatuses lists the accepted statuses in display order.
var MedicationStatuses = []MedicationStatus{MedicationActive, MedicationPaused, MedicationDiscontinued}

// ParseMedicationStatus lower-cases s and reports whether it is a known status.
func ParseMedicationStatus(s string) (MedicationStatus, bool) {
	status := MedicationStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MedicationStatuses {
		if status == known {
			return status, true
		}
	}
	return status, false
}

// Medication is a patient's dosing schedule. Times is kept sorted ascending.
type Medication struct {
	BaseModel
	Patient      string                      `gorm:"size:100;not null;index" json:"patient"`
	DrugName     string                      `gorm:"size:100;not null" json:"drug_name"`
	Dosage       string                      `gorm:"size:50" json:"dosage"`
	Times        datatypes.JSONSlice[string] `gorm:"not null" json:"times"`
	Instructions string                      `gorm:"type:text" json:"instructions"`
	Status       MedicationStatus            `gorm:"size:20;default:'active'" json:"status"`
}

// Attr returns the value of a filterable or sortable column.
func (m *Medication) Attr(column string) string {
	switch column {
	case "patient":
		return m.Patient
	case "drug_name":
		return m.DrugName
	case "status":
		return string(m.Status)
	}
	return ""
}

// Clone returns a copy that shares no state with m.
func (m *Medication) Clone() *Medication {
	c := *m
	c.Times = append(datatypes.JSONSlice[string](nil), m.Times...)
	return &c
}
