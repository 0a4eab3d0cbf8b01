package models

// SeizureLog records whether a patient had a seizure on a given day.
// At most one log exists per (patient, date).
type SeizureLog struct {
	BaseModel
	Patient  string `gorm:"size:100;not null;uniqueIndex:uidx_patient_date" json:"patient"`
	Date     string `gorm:"column:log_date;size:10;not null;uniqueIndex:uidx_patient_date" json:"date"`
	Occurred int    `gorm:"not null" json:"occurred"`
	Notes    string `gorm:"type:text" json:"notes"`
}

// Attr returns the value of a filterable or sortable column.
func (l *SeizureLog) Attr(column string) string {
	switch column {
	case "patient":
		return l.Patient
	case "log_date":
		return l.Date
	}
	return ""
}

// Clone returns a copy that shares no state with l.
func (l *SeizureLog) Clone() *SeizureLog {
	c := *l
	return &c
}
