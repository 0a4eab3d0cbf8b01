// Package services implements the appointment, medication, progress and
// prediction operations on top of the stores and the prediction adapter.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"seizure-care-server/internal/events"
	"seizure-care-server/internal/validation"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Publisher events.Publisher
	Logger    zerolog.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// today returns the current calendar date as YYYY-MM-DD.
func (d Deps) today() string {
	return d.Now().Format(validation.DateLayout)
}

// publish reports a write. Failures are logged and never fail the write.
func (d Deps) publish(ctx context.Context, eventType, id, patient string) {
	err := d.Publisher.Publish(ctx, events.Event{Type: eventType, ID: id, Patient: patient, OccurredAt: d.Now()})
	if err != nil {
		d.Logger.Warn().Err(err).Str("event", eventType).Str("id", id).Msg("event publish failed")
	}
}
