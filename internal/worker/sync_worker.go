package worker

import (
	"context"
	"fmt"
	"log/slog"

	"paydown/internal/amqp"
	"paydown/internal/sheets"
	"paydown/internal/storage"
)

// SyncWorker handles export of saved scenarios from SQLite to Google Sheets.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.ScenarioWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets sheets.ScenarioWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single scenario sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ScenarioSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	scenario, err := w.storage.GetScenario(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get scenario from storage: %w", err)
	}

	if err := w.syncScenarioToSheets(ctx, *scenario); err != nil {
		return fmt.Errorf("sync scenario to sheets: %w", err)
	}

	return nil
}

// ProcessPendingScenarios processes any scenarios that haven't been exported yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingScenarios(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncScenarios(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending scenarios: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending scenarios", "count", len(pending))

	for _, p := range pending {
		scenario, err := w.storage.GetScenario(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get scenario", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.syncScenarioToSheets(ctx, *scenario); err != nil {
			slog.ErrorContext(ctx, "Failed to sync scenario", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports any pending scenarios at worker startup.
// This recovers from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.storage.GetPendingSyncScenarios(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending scenarios for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending scenarios found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending scenarios on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		scenario, err := w.storage.GetScenario(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get scenario for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.syncScenarioToSheets(ctx, *scenario); err != nil {
			slog.ErrorContext(ctx, "Failed to sync scenario during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncScenarioToSheets(ctx context.Context, scenario storage.Scenario) error {
	ref, err := w.sheets.Append(ctx, scenario)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, scenario.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", scenario.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, scenario.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", scenario.ID, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully synced scenario",
		"id", scenario.ID,
		"sheets_ref", ref,
		"scenario_name", scenario.Name,
		"months", scenario.Months)

	return nil
}
