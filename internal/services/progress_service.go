package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"seizure-care-server/internal/events"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/store"
	"seizure-care-server/internal/trend"
	"seizure-care-server/internal/validation"
)

// LogSeizureRequest is the body of a daily log. Occurred is decoded loosely
// so that 1.0, 1 and true are treated alike.
type LogSeizureRequest struct {
	Date     *string `json:"date" validate:"required,calendar_date"`
	Occurred any     `json:"occurred" validate:"seizure_flag"`
	Patient  *string `json:"patient" validate:"required,not_blank"`
	Notes    *string `json:"notes"`
}

// UpdateSeizureLogRequest is a partial update; nil fields are left unchanged.
type UpdateSeizureLogRequest struct {
	Occurred any     `json:"occurred" validate:"omitempty,seizure_flag"`
	Notes    *string `json:"notes"`
}

// ProgressQuery selects the history to summarize.
type ProgressQuery struct {
	Patient string
	Days    *int
}

var (
	logMessages    = map[string]string{validation.TagNotBlank: "Patient name cannot be empty"}
	updateMessages = map[string]string{validation.TagSeizureFlag: "Occurred must be 0 or 1"}
)

// ProgressReport is a trend summary with the logs it was computed from,
// newest first.
type ProgressReport struct {
	Summary trend.Summary        `json:"summary"`
	Logs    []*models.SeizureLog `json:"logs"`
}

// ProgressService records seizure logs and summarizes treatment progress.
type ProgressService struct {
	store store.Store[*models.SeizureLog]
	deps  Deps

	// mu makes the duplicate check and the insert one step.
	mu sync.Mutex
}

// NewProgressService creates a new ProgressService.
func NewProgressService(s store.Store[*models.SeizureLog], deps Deps) *ProgressService {
	return &ProgressService{store: s, deps: deps.withDefaults()}
}

// Log records one day for a patient. A second log for the same patient and
// date, compared exactly, is a conflict.
func (s *ProgressService) Log(ctx context.Context, req LogSeizureRequest) (*models.SeizureLog, error) {
	if verr := checkRequest(req, logMessages); verr != nil {
		return nil, verr
	}
	patient := strings.TrimSpace(*req.Patient)
	occurred, _ := validation.ParseSeizureFlag(req.Occurred)
	date := *req.Date
	if date > s.deps.today() {
		return nil, invalid(CodeInvalidDate, "Cannot log seizures for future dates")
	}

	entry := &models.SeizureLog{Patient: patient, Date: date, Occurred: occurred, Notes: trimmed(req.Notes)}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx, store.Query{}.
		Where("patient", patient, store.Exact).
		Where("log_date", date, store.Exact))
	if err != nil {
		return nil, classify(err, "seizure log", "")
	}
	if len(existing) > 0 {
		return nil, duplicateLog(patient, date)
	}

	if _, err := s.store.Insert(ctx, entry); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, duplicateLog(patient, date)
		}
		return nil, classify(err, "seizure log", "")
	}
	s.deps.publish(ctx, events.SeizureLogRecorded, entry.ID, entry.Patient)
	return entry, nil
}

// Progress summarizes the logs of patients whose name contains q.Patient.
func (s *ProgressService) Progress(ctx context.Context, q ProgressQuery) (*ProgressReport, error) {
	days := trend.DefaultWindowDays
	if q.Days != nil {
		days = *q.Days
	}

	logs, err := s.store.List(ctx, store.Query{}.
		Where("patient", strings.TrimSpace(q.Patient), store.Contains).
		OrderBy("log_date", true))
	if err != nil {
		return nil, classify(err, "seizure log", "")
	}

	return &ProgressReport{
		Summary: trend.Analyze(logs, days, s.deps.Now()),
		Logs:    logs,
	}, nil
}

// Get returns one log.
func (s *ProgressService) Get(ctx context.Context, id string) (*models.SeizureLog, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "seizure log", id)
	}
	return entry, nil
}

// Update changes occurred and/or notes of the log with id.
func (s *ProgressService) Update(ctx context.Context, id string, req UpdateSeizureLogRequest) (*models.SeizureLog, error) {
	if req.Occurred == nil && req.Notes == nil {
		return nil, invalid(CodeInvalidInput, "Please provide data to update")
	}

	entry, err := s.store.Update(ctx, id, func(l *models.SeizureLog) error {
		if verr := checkRequest(req, updateMessages); verr != nil {
			return verr
		}
		if req.Occurred != nil {
			l.Occurred, _ = validation.ParseSeizureFlag(req.Occurred)
		}
		if req.Notes != nil {
			l.Notes = strings.TrimSpace(*req.Notes)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "seizure log", id)
	}
	s.deps.publish(ctx, events.SeizureLogUpdated, entry.ID, entry.Patient)
	return entry, nil
}

// Delete removes the log with id.
func (s *ProgressService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return classify(err, "seizure log", id)
	}
	s.deps.publish(ctx, events.SeizureLogDeleted, id, "")
	return nil
}

func duplicateLog(patient, date string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateLog,
		Message: "Seizure log already exists for " + patient + " on " + date,
	}
}
