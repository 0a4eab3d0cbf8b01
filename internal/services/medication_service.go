package services

import (
	"context"
	"sort"
	"strings"

	"seizure-care-server/internal/events"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/store"
	"seizure-care-server/internal/validation"
)

// ScheduleMedicationRequest is the body of a new schedule. Times is decoded
// loosely so a non-array value can be reported as such.
type ScheduleMedicationRequest struct {
	Patient      *string `json:"patient" validate:"required,not_blank"`
	DrugName     *string `json:"drug_name" validate:"required,not_blank"`
	Times        any     `json:"times" validate:"required,time_list,dive,clock_time"`
	Dosage       *string `json:"dosage"`
	Instructions *string `json:"instructions"`
}

// UpdateMedicationRequest is a partial update; nil fields are left unchanged.
type UpdateMedicationRequest struct {
	Times        any     `json:"times" validate:"omitempty,time_list,dive,clock_time"`
	Dosage       *string `json:"dosage"`
	Instructions *string `json:"instructions"`
	Status       *string `json:"status"`
}

func (r UpdateMedicationRequest) empty() bool {
	return r.Times == nil && r.Dosage == nil && r.Instructions == nil && r.Status == nil
}

// MedicationFilter narrows a listing. Empty fields do not filter.
type MedicationFilter struct {
	Patient string
	Status  string
}

var scheduleMessages = map[string]string{
	validation.TagNotBlank: "Patient and drug names cannot be empty",
}

// MedicationService manages medication schedules.
type MedicationService struct {
	store store.Store[*models.Medication]
	deps  Deps
}

// NewMedicationService creates a new MedicationService.
func NewMedicationService(s store.Store[*models.Medication], deps Deps) *MedicationService {
	return &MedicationService{store: s, deps: deps.withDefaults()}
}

// Schedule validates req and stores an active schedule with sorted times.
func (s *MedicationService) Schedule(ctx context.Context, req ScheduleMedicationRequest) (*models.Medication, error) {
	if verr := checkRequest(req, scheduleMessages); verr != nil {
		return nil, verr
	}
	times, err := parseTimes(req.Times)
	if err != nil {
		return nil, err
	}

	med := &models.Medication{
		Patient:      strings.TrimSpace(*req.Patient),
		DrugName:     strings.TrimSpace(*req.DrugName),
		Times:        times,
		Dosage:       trimmed(req.Dosage),
		Instructions: trimmed(req.Instructions),
		Status:       models.MedicationActive,
	}
	if _, err := s.store.Insert(ctx, med); err != nil {
		return nil, classify(err, "medication", "")
	}
	s.deps.publish(ctx, events.MedicationScheduled, med.ID, med.Patient)
	return med, nil
}

// List returns the schedules matching f ordered by patient then drug name.
func (s *MedicationService) List(ctx context.Context, f MedicationFilter) ([]*models.Medication, error) {
	q := store.Query{}.
		Where("patient", strings.TrimSpace(f.Patient), store.Contains).
		Where("status", strings.TrimSpace(f.Status), store.EqualFold).
		OrderBy("patient", false).
		OrderBy("drug_name", false)

	meds, err := s.store.List(ctx, q)
	if err != nil {
		return nil, classify(err, "medication", "")
	}
	return meds, nil
}

// Get returns one schedule.
func (s *MedicationService) Get(ctx context.Context, id string) (*models.Medication, error) {
	med, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "medication", id)
	}
	return med, nil
}

// Update applies the supplied fields. The patch is applied as a whole or not
// at all.
func (s *MedicationService) Update(ctx context.Context, id string, req UpdateMedicationRequest) (*models.Medication, error) {
	if req.empty() {
		return nil, invalid(CodeInvalidInput, "Please provide data to update")
	}

	med, err := s.store.Update(ctx, id, func(m *models.Medication) error {
		if verr := checkRequest(req, nil); verr != nil {
			return verr
		}
		if req.Times != nil {
			times, err := parseTimes(req.Times)
			if err != nil {
				return err
			}
			m.Times = times
		}
		if req.Status != nil {
			status, ok := models.ParseMedicationStatus(*req.Status)
			if !ok {
				return invalid(CodeInvalidStatus, "Status must be one of: %s", joinStatuses(models.MedicationStatuses))
			}
			m.Status = status
		}
		if req.Dosage != nil {
			m.Dosage = strings.TrimSpace(*req.Dosage)
		}
		if req.Instructions != nil {
			m.Instructions = strings.TrimSpace(*req.Instructions)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "medication", id)
	}
	s.deps.publish(ctx, events.MedicationUpdated, med.ID, med.Patient)
	return med, nil
}

// Delete removes the schedule with id.
func (s *MedicationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return classify(err, "medication", id)
	}
	s.deps.publish(ctx, events.MedicationDeleted, id, "")
	return nil
}

// parseTimes converts a list that passed the time rules into sorted strings.
func parseTimes(v any) ([]string, error) {
	var raw []any
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			raw = append(raw, s)
		}
	case []any:
		raw = t
	default:
		return nil, invalid(CodeInvalidTimes, "Times must be a non-empty array of time strings")
	}
	if len(raw) == 0 {
		return nil, invalid(CodeInvalidTimes, "Times must be a non-empty array of time strings")
	}

	times := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok || !validation.IsValidTime(s) {
			return nil, invalid(CodeInvalidTimeFormat, "Time '%v' must be in HH:MM format (24-hour)", item)
		}
		times = append(times, s)
	}
	sort.Strings(times)
	return times, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
