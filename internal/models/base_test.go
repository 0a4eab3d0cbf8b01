package models

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewGormLoggerWritesWarningsToZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(zerolog.New(&buf))
	ctx := context.Background()

	l.Info(ctx, "connected to %s", "primary")
	assert.Empty(t, buf.String(), "info is below the threshold")

	l.Error(ctx, "lost connection to %s", "primary")
	assert.Contains(t, buf.String(), "lost connection to primary")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(DatabaseConfig{Driver: "oracle", Logger: zerolog.Nop()})
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}
