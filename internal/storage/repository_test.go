package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paydown/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testScenario(name string) Scenario {
	return Scenario{
		Name: name,
		Loan: core.Loan{
			Balance:    decimal.RequireFromString("200000"),
			Payment:    decimal.RequireFromString("1200"),
			AnnualRate: decimal.RequireFromString("0.04"),
		},
		ExtraSpecs:    "3:500,6:250",
		PeriodicSpecs: "12:300",
		StartMonth:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Months:        244,
		PayoffMonth:   time.Date(2045, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalPaid:     decimal.RequireFromString("292421.60"),
		TotalInterest: decimal.RequireFromString("92421.60"),
	}
}

func TestSaveAndGetScenario(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.SaveScenario(ctx, testScenario("baseline"))
	if err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}
	if id == 0 {
		t.Fatal("SaveScenario() returned id 0")
	}

	got, err := repo.GetScenario(ctx, id)
	if err != nil {
		t.Fatalf("GetScenario() error = %v", err)
	}

	if got.Name != "baseline" {
		t.Errorf("Name = %q, want %q", got.Name, "baseline")
	}
	if !got.Loan.Balance.Equal(decimal.RequireFromString("200000")) {
		t.Errorf("Balance = %s, want 200000", got.Loan.Balance)
	}
	if !got.Loan.AnnualRate.Equal(decimal.RequireFromString("0.04")) {
		t.Errorf("AnnualRate = %s, want 0.04", got.Loan.AnnualRate)
	}
	if got.ExtraSpecs != "3:500,6:250" {
		t.Errorf("ExtraSpecs = %q, want %q", got.ExtraSpecs, "3:500,6:250")
	}
	if got.Months != 244 {
		t.Errorf("Months = %d, want 244", got.Months)
	}
	if !got.PayoffMonth.Equal(time.Date(2045, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PayoffMonth = %v", got.PayoffMonth)
	}
	if !got.TotalInterest.Equal(decimal.RequireFromString("92421.60")) {
		t.Errorf("TotalInterest = %s, want 92421.60", got.TotalInterest)
	}
}

func TestGetScenario_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.GetScenario(context.Background(), 404); err == nil {
		t.Error("GetScenario() should fail for unknown id")
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.SaveScenario(ctx, testScenario("first"))
	if err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}
	second, err := repo.SaveScenario(ctx, testScenario("second"))
	if err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}

	pending, err := repo.GetPendingSyncScenarios(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncScenarios() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].ID != first || pending[1].ID != second {
		t.Errorf("pending order = %d, %d, want %d, %d", pending[0].ID, pending[1].ID, first, second)
	}

	if err := repo.MarkSynced(ctx, first); err != nil {
		t.Fatalf("MarkSynced() error = %v", err)
	}

	pending, err = repo.GetPendingSyncScenarios(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncScenarios() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second {
		t.Errorf("pending after MarkSynced = %+v, want only id %d", pending, second)
	}

	// A sync error keeps the scenario pending for retry.
	if err := repo.MarkSyncError(ctx, second); err != nil {
		t.Fatalf("MarkSyncError() error = %v", err)
	}
	pending, err = repo.GetPendingSyncScenarios(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncScenarios() error = %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending after MarkSyncError = %d, want 1", len(pending))
	}
}

func TestGetPendingSyncScenarios_Limit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.SaveScenario(ctx, testScenario("bulk")); err != nil {
			t.Fatalf("SaveScenario() error = %v", err)
		}
	}

	pending, err := repo.GetPendingSyncScenarios(ctx, 3)
	if err != nil {
		t.Fatalf("GetPendingSyncScenarios() error = %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("pending = %d, want 3 (limit)", len(pending))
	}
}

func TestEpisodes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.LastEpisodeDate(ctx); err != nil || ok {
		t.Fatalf("LastEpisodeDate() on empty table = ok=%v, err=%v, want ok=false", ok, err)
	}

	dates := []time.Time{
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		err := repo.RecordEpisode(ctx, Episode{
			EpisodeDate: d,
			URL:         "https://example.com/" + d.Format("2006.01.02") + ".mp3",
			FilePath:    "/episodes/" + d.Format("2006.01.02") + ".mp3",
			Bytes:       1024,
		})
		if err != nil {
			t.Fatalf("RecordEpisode(%v) error = %v", d, err)
		}
	}

	last, ok, err := repo.LastEpisodeDate(ctx)
	if err != nil || !ok {
		t.Fatalf("LastEpisodeDate() = ok=%v, err=%v", ok, err)
	}
	if !last.Equal(dates[2]) {
		t.Errorf("LastEpisodeDate() = %v, want %v", last, dates[2])
	}

	episodes, err := repo.ListEpisodes(ctx, 10)
	if err != nil {
		t.Fatalf("ListEpisodes() error = %v", err)
	}
	if len(episodes) != 3 {
		t.Fatalf("ListEpisodes() len = %d, want 3", len(episodes))
	}
	if !episodes[0].EpisodeDate.Equal(dates[2]) {
		t.Errorf("ListEpisodes() newest first: got %v", episodes[0].EpisodeDate)
	}
}

func TestRecordEpisode_Replaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
	for _, bytes := range []int64{100, 2048} {
		err := repo.RecordEpisode(ctx, Episode{
			EpisodeDate: date,
			URL:         "https://example.com/ep.mp3",
			FilePath:    "/episodes/ep.mp3",
			Bytes:       bytes,
		})
		if err != nil {
			t.Fatalf("RecordEpisode() error = %v", err)
		}
	}

	episodes, err := repo.ListEpisodes(ctx, 10)
	if err != nil {
		t.Fatalf("ListEpisodes() error = %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("ListEpisodes() len = %d, want 1 after re-download", len(episodes))
	}
	if episodes[0].Bytes != 2048 {
		t.Errorf("Bytes = %d, want 2048 (latest download wins)", episodes[0].Bytes)
	}
}
