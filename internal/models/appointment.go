package models

import "strings"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// AppointmentStatuses lists the accepted statuses in display order.
var AppointmentStatuses = []AppointmentStatus{StatusScheduled, StatusCompleted, StatusCancelled, StatusRescheduled}

// ParseAppointmentStatus lower-cases s and reports whether it is a known status.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AppointmentStatuses {
		if status == known {
			return status, true
		}
	}
	return status, false
}

// Appointment is a booked doctor visit.
type Appointment struct {
	BaseModel
	Patient string            `gorm:"size:100;not null;index" json:"patient"`
	Doctor  string            `gorm:"size:100;not null;index" json:"doctor"`
	Date    string            `gorm:"column:appointment_date;size:10;not null" json:"date"`
	Time    string            `gorm:"column:appointment_time;size:5;not null" json:"time"`
	Status  AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes   string            `gorm:"type:text" json:"notes,omitempty"`
}

// Attr returns the value of a filterable or sortable column.
func (a *Appointment) Attr(column string) string {
	switch column {
	case "patient":
		return a.Patient
	case "doctor":
		return a.Doctor
	case "appointment_date":
		return a.Date
	case "appointment_time":
		return a.Time
	case "status":
		return string(a.Status)
	}
	return ""
}

// Clone returns a copy that shares no state with a.
func (a *Appointment) Clone() *Appointment {
	c := *a
	return &c
}
