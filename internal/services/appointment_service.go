package services

import (
	"context"
	"strings"

	"seizure-care-server/internal/events"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/store"
	"seizure-care-server/internal/validation"
)

// BookAppointmentRequest is the body of a booking. Nil fields were absent.
type BookAppointmentRequest struct {
	Patient *string `json:"patient" validate:"required,not_blank"`
	Doctor  *string `json:"doctor" validate:"required,not_blank"`
	Date    *string `json:"date" validate:"required,calendar_date"`
	Time    *string `json:"time" validate:"required,clock_time"`
	Notes   *string `json:"notes"`
}

// UpdateAppointmentRequest carries a status change.
type UpdateAppointmentRequest struct {
	Status *string `json:"status"`
}

// AppointmentFilter narrows a listing. Empty fields do not filter.
type AppointmentFilter struct {
	Patient string
	Doctor  string
	Status  string
}

var bookMessages = map[string]string{
	validation.TagNotBlank: "Patient and doctor names cannot be empty",
}

// AppointmentService books and tracks doctor appointments.
type AppointmentService struct {
	store store.Store[*models.Appointment]
	deps  Deps
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(s store.Store[*models.Appointment], deps Deps) *AppointmentService {
	return &AppointmentService{store: s, deps: deps.withDefaults()}
}

// Book validates req and stores a scheduled appointment.
func (s *AppointmentService) Book(ctx context.Context, req BookAppointmentRequest) (*models.Appointment, error) {
	verr := checkRequest(req, bookMessages)
	// A past date is reported ahead of a malformed time.
	if verr != nil && verr.Code != CodeInvalidTimeFormat {
		return nil, verr
	}
	if *req.Date < s.deps.today() {
		return nil, invalid(CodeInvalidDate, "Appointment date cannot be in the past")
	}
	if verr != nil {
		return nil, verr
	}

	appt := &models.Appointment{
		Patient: strings.TrimSpace(*req.Patient),
		Doctor:  strings.TrimSpace(*req.Doctor),
		Date:    *req.Date,
		Time:    *req.Time,
		Status:  models.StatusScheduled,
	}
	if req.Notes != nil {
		appt.Notes = strings.TrimSpace(*req.Notes)
	}

	if _, err := s.store.Insert(ctx, appt); err != nil {
		return nil, classify(err, "appointment", "")
	}
	s.deps.publish(ctx, events.AppointmentBooked, appt.ID, appt.Patient)
	return appt, nil
}

// List returns the appointments matching f ordered by date then time.
func (s *AppointmentService) List(ctx context.Context, f AppointmentFilter) ([]*models.Appointment, error) {
	q := store.Query{}.
		Where("patient", strings.TrimSpace(f.Patient), store.Contains).
		Where("doctor", strings.TrimSpace(f.Doctor), store.Contains).
		Where("status", strings.TrimSpace(f.Status), store.EqualFold).
		OrderBy("appointment_date", false).
		OrderBy("appointment_time", false)

	appts, err := s.store.List(ctx, q)
	if err != nil {
		return nil, classify(err, "appointment", "")
	}
	return appts, nil
}

// Get returns one appointment.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "appointment", id)
	}
	return appt, nil
}

// UpdateStatus changes the status of the appointment with id.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req UpdateAppointmentRequest) (*models.Appointment, error) {
	if req.Status == nil {
		return nil, invalid(CodeMissingField, "Status field is required")
	}
	status, ok := models.ParseAppointmentStatus(*req.Status)
	if !ok {
		return nil, invalid(CodeInvalidStatus, "Status must be one of: %s", joinStatuses(models.AppointmentStatuses))
	}

	appt, err := s.store.Update(ctx, id, func(a *models.Appointment) error {
		a.Status = status
		return nil
	})
	if err != nil {
		return nil, classify(err, "appointment", id)
	}
	s.deps.publish(ctx, events.AppointmentStatusChanged, appt.ID, appt.Patient)
	return appt, nil
}

func joinStatuses[S ~string](statuses []S) string {
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}
