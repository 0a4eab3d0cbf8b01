package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"seizure-care-server/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newLogStore(db *gorm.DB) *GormStore[*models.SeizureLog] {
	return NewGormStore(db, func() *models.SeizureLog { return &models.SeizureLog{} }, WithClock(fixedClock()))
}

func TestGormStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := newLogStore(openTestDB(t))

	entry := &models.SeizureLog{Patient: "Alice", Date: "2024-03-01", Occurred: 1, Notes: "after dinner"}
	id, err := s.Insert(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Patient)
	assert.Equal(t, "2024-03-01", got.Date)
	assert.Equal(t, 1, got.Occurred)
	assert.Equal(t, "after dinner", got.Notes)
	assert.True(t, fixedClock()().Equal(got.CreatedAt))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_DuplicatePatientDateConflicts(t *testing.T) {
	ctx := context.Background()
	s := newLogStore(openTestDB(t))

	_, err := s.Insert(ctx, &models.SeizureLog{Patient: "Alice", Date: "2024-03-01"})
	require.NoError(t, err)

	_, err = s.Insert(ctx, &models.SeizureLog{Patient: "Alice", Date: "2024-03-01", Occurred: 1})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Insert(ctx, &models.SeizureLog{Patient: "alice", Date: "2024-03-01"})
	assert.NoError(t, err, "patient names are compared exactly")

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGormStore_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := newLogStore(openTestDB(t))
	for _, l := range []*models.SeizureLog{
		{Patient: "Alice Smith", Date: "2024-03-01"},
		{Patient: "Bob", Date: "2024-03-02"},
		{Patient: "alice jones", Date: "2024-03-03"},
		{Patient: "100% Alice", Date: "2024-03-04"},
		{Patient: "Alice Smith", Date: "2024-03-05"},
	} {
		_, err := s.Insert(ctx, l)
		require.NoError(t, err)
	}

	t.Run("contains is case-insensitive", func(t *testing.T) {
		got, err := s.List(ctx, Query{}.Where("patient", "ali", Contains).OrderBy("log_date", true))
		require.NoError(t, err)
		require.Len(t, got, 4)
		dates := make([]string, len(got))
		for i, l := range got {
			dates[i] = l.Date
		}
		assert.Equal(t, []string{"2024-03-05", "2024-03-04", "2024-03-03", "2024-03-01"}, dates)
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		got, err := s.List(ctx, Query{}.Where("patient", "0%", Contains))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "100% Alice", got[0].Patient)

		got, err = s.List(ctx, Query{}.Where("patient", "_", Contains))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("exact pair", func(t *testing.T) {
		got, err := s.List(ctx, Query{}.
			Where("patient", "Alice Smith", Exact).
			Where("log_date", "2024-03-05", Exact))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "2024-03-05", got[0].Date)

		got, err = s.List(ctx, Query{}.Where("patient", "alice smith", Exact))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty filter value is ignored", func(t *testing.T) {
		got, err := s.List(ctx, Query{}.Where("patient", "", Contains))
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})
}

func TestGormStore_EqualFoldStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := NewGormStore(db, func() *models.Appointment { return &models.Appointment{} })
	for _, a := range []*models.Appointment{
		{Patient: "Alice", Doctor: "Dr. House", Date: "2024-05-02", Time: "09:00", Status: models.StatusScheduled},
		{Patient: "Bob", Doctor: "Dr. Grey", Date: "2024-05-01", Time: "15:00", Status: models.StatusCancelled},
	} {
		_, err := s.Insert(ctx, a)
		require.NoError(t, err)
	}

	got, err := s.List(ctx, Query{}.Where("status", "CANCELLED", EqualFold))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Patient)
}

func TestGormStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newLogStore(openTestDB(t))
	id, err := s.Insert(ctx, &models.SeizureLog{Patient: "Alice", Date: "2024-03-01"})
	require.NoError(t, err)

	got, err := s.Update(ctx, id, func(l *models.SeizureLog) error {
		l.Occurred = 1
		l.Notes = "morning"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occurred)
	assert.Equal(t, id, got.ID)

	stored, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "morning", stored.Notes)

	errRejected := errors.New("rejected")
	_, err = s.Update(ctx, id, func(l *models.SeizureLog) error {
		l.Notes = "discarded"
		return errRejected
	})
	assert.ErrorIs(t, err, errRejected)

	stored, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "morning", stored.Notes)

	_, err = s.Update(ctx, "missing", func(*models.SeizureLog) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newLogStore(openTestDB(t))
	id, err := s.Insert(ctx, &models.SeizureLog{Patient: "Alice", Date: "2024-03-01"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestGormStore_MedicationTimesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(openTestDB(t), func() *models.Medication { return &models.Medication{} })

	id, err := s.Insert(ctx, &models.Medication{
		Patient:  "Alice",
		DrugName: "Keppra",
		Times:    []string{"08:00", "20:00"},
		Status:   models.MedicationActive,
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "20:00"}, []string(got.Times))

	got, err = s.Update(ctx, id, func(m *models.Medication) error {
		m.Times = []string{"07:30"}
		return nil
	})
	require.NoError(t, err)

	stored, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"07:30"}, []string(stored.Times))
	assert.Equal(t, got.Times, stored.Times)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrConflict)

	err := translate(errors.New("connection refused"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}
