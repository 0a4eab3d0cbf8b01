package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seizure-care-server/internal/events"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/store"
)

func newAppointmentService(pub events.Publisher) *AppointmentService {
	return NewAppointmentService(store.NewMemoryStore[*models.Appointment](store.WithClock(func() time.Time { return testNow })), testDeps(pub))
}

func booking(date, clock string) BookAppointmentRequest {
	return BookAppointmentRequest{
		Patient: strPtr("  John Doe "),
		Doctor:  strPtr("Dr. Smith"),
		Date:    strPtr(date),
		Time:    strPtr(clock),
	}
}

func requireKind(t *testing.T, err error, kind Kind, code string) {
	t.Helper()
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %v", err)
	assert.Equal(t, kind, svcErr.Kind)
	assert.Equal(t, code, svcErr.Code)
}

func TestAppointmentService_BookRoundTrips(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newAppointmentService(pub)
	ctx := context.Background()

	appt, err := svc.Book(ctx, booking("2024-06-22", "14:30"))
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "John Doe", appt.Patient)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, testNow, appt.CreatedAt)

	other, err := svc.Book(ctx, booking("2024-06-15", "08:00"))
	require.NoError(t, err, "today is not in the past")
	assert.NotEqual(t, appt.ID, other.ID)

	list, err := svc.List(ctx, AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, other, list[0])
	assert.Equal(t, appt, list[1])
	assert.Equal(t, []string{events.AppointmentBooked, events.AppointmentBooked}, pub.types())
}

func TestAppointmentService_BookValidation(t *testing.T) {
	svc := newAppointmentService(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  BookAppointmentRequest
		code string
	}{
		{"past date", booking("2024-06-14", "10:00"), CodeInvalidDate},
		{"past date with bad time", booking("2020-01-01", "99:99"), CodeInvalidDate},
		{"bad date", booking("15/06/2024", "10:00"), CodeInvalidDateFormat},
		{"bad time", booking("2024-07-01", "25:00"), CodeInvalidTimeFormat},
		{"missing doctor", BookAppointmentRequest{Patient: strPtr("A"), Date: strPtr("2024-07-01"), Time: strPtr("10:00")}, CodeMissingField},
		{"blank patient", BookAppointmentRequest{Patient: strPtr("  "), Doctor: strPtr("B"), Date: strPtr("2024-07-01"), Time: strPtr("10:00")}, CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(ctx, tt.req)
			requireKind(t, err, KindValidation, tt.code)
		})
	}

	_, err := svc.Book(ctx, BookAppointmentRequest{Patient: strPtr("A"), Doctor: strPtr(" "), Date: strPtr("bad"), Time: strPtr("10:00")})
	requireKind(t, err, KindValidation, CodeInvalidInput)
	assert.Contains(t, err.Error(), "Patient and doctor names cannot be empty")

	list, err := svc.List(ctx, AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAppointmentService_ListFilters(t *testing.T) {
	svc := newAppointmentService(nil)
	ctx := context.Background()

	for _, req := range []BookAppointmentRequest{
		{Patient: strPtr("Alice"), Doctor: strPtr("Dr. House"), Date: strPtr("2024-07-02"), Time: strPtr("09:00")},
		{Patient: strPtr("Bob"), Doctor: strPtr("Dr. Grey"), Date: strPtr("2024-07-01"), Time: strPtr("11:00")},
		{Patient: strPtr("alice b"), Doctor: strPtr("Dr. Grey"), Date: strPtr("2024-07-01"), Time: strPtr("10:00")},
	} {
		_, err := svc.Book(ctx, req)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, AppointmentFilter{Patient: "ALI"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice b", got[0].Patient)

	got, err = svc.List(ctx, AppointmentFilter{Doctor: "grey"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10:00", got[0].Time)
	assert.Equal(t, "11:00", got[1].Time)

	_, err = svc.UpdateStatus(ctx, got[1].ID, UpdateAppointmentRequest{Status: strPtr("cancelled")})
	require.NoError(t, err)
	got, err = svc.List(ctx, AppointmentFilter{Status: "CANCELLED"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Patient)
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newAppointmentService(pub)
	ctx := context.Background()

	appt, err := svc.Book(ctx, booking("2024-07-01", "10:00"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, appt.ID, UpdateAppointmentRequest{Status: strPtr("Completed")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, appt.ID, UpdateAppointmentRequest{Status: strPtr("lost")})
	requireKind(t, err, KindValidation, CodeInvalidStatus)
	_, err = svc.UpdateStatus(ctx, appt.ID, UpdateAppointmentRequest{})
	requireKind(t, err, KindValidation, CodeMissingField)

	current, err := svc.Get(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, current.Status)

	_, err = svc.UpdateStatus(ctx, "nope", UpdateAppointmentRequest{Status: strPtr("cancelled")})
	requireKind(t, err, KindNotFound, CodeNotFound)
	_, err = svc.Get(ctx, "nope")
	requireKind(t, err, KindNotFound, CodeNotFound)

	assert.Equal(t, []string{events.AppointmentBooked, events.AppointmentStatusChanged}, pub.types())
}

func TestAppointmentService_StoreFailures(t *testing.T) {
	down := store.ErrUnavailable
	mock := &MockAppointmentStore{
		InsertFunc: func(context.Context, *models.Appointment) (string, error) { return "", down },
		ListFunc:   func(context.Context, store.Query) ([]*models.Appointment, error) { return nil, errors.New("boom") },
	}
	svc := NewAppointmentService(mock, testDeps(nil))

	_, err := svc.Book(context.Background(), booking("2024-07-01", "10:00"))
	requireKind(t, err, KindUnavailable, CodeStoreUnavailable)

	_, err = svc.List(context.Background(), AppointmentFilter{})
	requireKind(t, err, KindInternal, CodeInternal)
}

func TestAppointmentService_PublishFailureDoesNotFailBooking(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newAppointmentService(pub)

	appt, err := svc.Book(context.Background(), booking("2024-07-01", "10:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
}
