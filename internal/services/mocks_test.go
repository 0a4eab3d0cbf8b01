package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"seizure-care-server/internal/events"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/prediction"
	"seizure-care-server/internal/store"
)

var testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func testDeps(pub events.Publisher) Deps {
	return Deps{Publisher: pub, Logger: zerolog.Nop(), Now: func() time.Time { return testNow }}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// --- recordingPublisher ---
var _ events.Publisher = (*recordingPublisher)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- MockAppointmentStore ---
var _ store.Store[*models.Appointment] = (*MockAppointmentStore)(nil)

// MockAppointmentStore lets a test fail individual store calls.
type MockAppointmentStore struct {
	InsertFunc func(ctx context.Context, rec *models.Appointment) (string, error)
	ListFunc   func(ctx context.Context, q store.Query) ([]*models.Appointment, error)
}

func (m *MockAppointmentStore) Insert(ctx context.Context, rec *models.Appointment) (string, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, rec)
	}
	return "", errors.New("InsertFunc not implemented in mock")
}

func (m *MockAppointmentStore) Get(context.Context, string) (*models.Appointment, error) {
	return nil, store.ErrNotFound
}

func (m *MockAppointmentStore) List(ctx context.Context, q store.Query) ([]*models.Appointment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockAppointmentStore) Update(context.Context, string, func(*models.Appointment) error) (*models.Appointment, error) {
	return nil, store.ErrNotFound
}

func (m *MockAppointmentStore) Delete(context.Context, string) error { return store.ErrNotFound }

func (m *MockAppointmentStore) Count(context.Context) (int, error) { return 0, nil }

// --- fake prediction collaborators ---
type fakePredictor struct {
	result prediction.Result
	err    error
	calls  int
	got    []float64
}

func (f *fakePredictor) Predict(_ context.Context, features []float64) (prediction.Result, error) {
	f.calls++
	f.got = features
	return f.result, f.err
}

type fakeModels struct {
	status    prediction.Status
	reloadErr error
	reloads   int
}

func (f *fakeModels) Status() prediction.Status { return f.status }

func (f *fakeModels) Reload(context.Context) (*prediction.Pair, error) {
	f.reloads++
	if f.reloadErr != nil {
		return nil, f.reloadErr
	}
	f.status.Loaded = true
	return &prediction.Pair{}, nil
}
