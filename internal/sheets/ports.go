package sheets

import (
	"context"

	"paydown/internal/storage"
)

// Ports for outbound adapters.
type (
	// ScenarioWriter appends a saved scenario summary to an external sheet.
	ScenarioWriter interface {
		Append(ctx context.Context, s storage.Scenario) (rowRef string, err error)
	}
)
