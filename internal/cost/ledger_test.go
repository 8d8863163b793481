package cost

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecordComputesCost(t *testing.T) {
	l := New(DefaultPricingTable())

	rec := l.Record("grok-4-1-fast-reasoning", 1_000_000, 1_000_000, "sample", "marketing")

	want := decimal.NewFromFloat(3.00).Add(decimal.NewFromFloat(15.00))
	if !rec.CostUSD.Equal(want) {
		t.Errorf("expected cost %s, got %s", want, rec.CostUSD)
	}
}

func TestSummaryAggregatesByModelAndOperation(t *testing.T) {
	l := New(DefaultPricingTable())

	l.Record("grok-4-fast", 1_000_000, 0, "deconstruct", "general")
	l.Record("grok-4-fast", 1_000_000, 0, "diagnose", "general")
	l.Record("grok-4-1-fast-reasoning", 0, 1_000_000, "design", "general")

	summary := l.Summary(time.Time{}, time.Time{})
	if summary.Count != 3 {
		t.Fatalf("expected 3 records, got %d", summary.Count)
	}

	wantFast := decimal.NewFromFloat(0.20).Mul(decimal.NewFromInt(2))
	if !summary.ByModel["grok-4-fast"].Equal(wantFast) {
		t.Errorf("expected grok-4-fast total %s, got %s", wantFast, summary.ByModel["grok-4-fast"])
	}

	wantReasoning := decimal.NewFromFloat(15.00)
	if !summary.ByModel["grok-4-1-fast-reasoning"].Equal(wantReasoning) {
		t.Errorf("expected reasoning total %s, got %s", wantReasoning, summary.ByModel["grok-4-1-fast-reasoning"])
	}

	if summary.ByOperation["deconstruct"].IsZero() {
		t.Error("expected a non-zero deconstruct operation total")
	}
}

func TestBudgetWarningFiresWhenDailyBudgetExceeded(t *testing.T) {
	l := New(DefaultPricingTable())

	var warnings []string
	l.OnWarning(func(msg string) { warnings = append(warnings, msg) })

	daily := decimal.NewFromFloat(1.00)
	l.SetBudget(Budget{Daily: &daily})

	// 1,000,000 prompt tokens @ $3/M = $3.00, well past the $1.00 daily budget.
	l.Record("grok-4-1-fast-reasoning", 1_000_000, 0, "sample", "general")

	if len(warnings) == 0 {
		t.Fatal("expected at least one budget warning")
	}
}

func TestBudgetNeverBlocksRecording(t *testing.T) {
	l := New(DefaultPricingTable())

	tiny := decimal.NewFromFloat(0.0001)
	l.SetBudget(Budget{Daily: &tiny})

	for i := 0; i < 5; i++ {
		l.Record("grok-4-1-fast-reasoning", 1_000_000, 1_000_000, "sample", "general")
	}

	summary := l.Summary(time.Time{}, time.Time{})
	if summary.Count != 5 {
		t.Errorf("expected all 5 records to be accepted despite exceeding budget, got %d", summary.Count)
	}
}
