package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paydown/internal/core"
	"paydown/internal/storage"
)

func sampleScenario(name string) storage.Scenario {
	return storage.Scenario{
		Name: name,
		Loan: core.Loan{
			Balance:    decimal.RequireFromString("200000"),
			Payment:    decimal.RequireFromString("1200"),
			AnnualRate: decimal.RequireFromString("0.04"),
		},
		StartMonth:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Months:        244,
		PayoffMonth:   time.Date(2045, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalPaid:     decimal.RequireFromString("292421.60"),
		TotalInterest: decimal.RequireFromString("92421.60"),
	}
}

func TestStore_Append(t *testing.T) {
	store := New()
	ctx := context.Background()

	ref, err := store.Append(ctx, sampleScenario("baseline"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("Append() ref = %q, want %q", ref, "mem:1")
	}

	ref, err = store.Append(ctx, sampleScenario("with extras"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "mem:2" {
		t.Errorf("Append() ref = %q, want %q", ref, "mem:2")
	}

	items := store.Scenarios()
	if len(items) != 2 {
		t.Fatalf("Scenarios() len = %d, want 2", len(items))
	}
	if items[0].Name != "baseline" || items[1].Name != "with extras" {
		t.Errorf("Scenarios() order = %q, %q", items[0].Name, items[1].Name)
	}
}

func TestStore_ConcurrentAppend(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Append(ctx, sampleScenario("concurrent")); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(store.Scenarios()); got != 20 {
		t.Errorf("Scenarios() len = %d, want 20", got)
	}
}

func TestStore_ScenariosReturnsCopy(t *testing.T) {
	store := New()
	if _, err := store.Append(context.Background(), sampleScenario("original")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	items := store.Scenarios()
	items[0].Name = "mutated"

	if store.Scenarios()[0].Name != "original" {
		t.Error("Scenarios() should return a copy, not the backing slice")
	}
}
