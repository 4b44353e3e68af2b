// Package driven defines the outbound port interfaces implemented by adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
)

// SettingsStore persists the notification settings record. Get never fails on
// absence: an empty store yields model.DefaultSettings().
type SettingsStore interface {
	Get(ctx context.Context) (model.Settings, error)
	Set(ctx context.Context, settings model.Settings) error
}
