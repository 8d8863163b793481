// Package cost implements the Cost Ledger: pure accounting over a static per-model
// pricing table, with soft daily/monthly budget warnings.
package cost

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Pricing is the per-million-token input/output rate for one model.
type Pricing struct {
	InputPerMillion  decimal.Decimal
	OutputPerMillion decimal.Decimal
}

// DefaultPricingTable mirrors the original system's static MODEL_PRICING table.
func DefaultPricingTable() map[string]Pricing {
	return map[string]Pricing{
		"grok-4-1-fast-reasoning": {
			InputPerMillion:  decimal.NewFromFloat(3.00),
			OutputPerMillion: decimal.NewFromFloat(15.00),
		},
		"grok-4-fast": {
			InputPerMillion:  decimal.NewFromFloat(0.20),
			OutputPerMillion: decimal.NewFromFloat(0.50),
		},
	}
}

// Record is one append-only cost observation.
type Record struct {
	Timestamp        time.Time
	Model            string
	PromptTokens     int
	CompletionTokens int
	CostUSD          decimal.Decimal
	Operation        string
	Category         string
}

// Summary aggregates a window of Records by model and operation.
type Summary struct {
	TotalCostUSD decimal.Decimal
	ByModel      map[string]decimal.Decimal
	ByOperation  map[string]decimal.Decimal
	Count        int
}

// Budget holds soft daily/monthly thresholds. Crossing either is observational only —
// the ledger never denies a call on cost grounds.
type Budget struct {
	Daily   *decimal.Decimal
	Monthly *decimal.Decimal
}

// Ledger is a process-global, thread-safe, append-only cost journal.
type Ledger struct {
	mu      sync.Mutex
	pricing map[string]Pricing
	records []Record
	budget  Budget
	onWarn  func(msg string)
}

// New constructs a Ledger against the given pricing table.
func New(pricing map[string]Pricing) *Ledger {
	return &Ledger{pricing: pricing}
}

// SetBudget installs soft daily/monthly thresholds.
func (l *Ledger) SetBudget(b Budget) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.budget = b
}

// OnWarning registers a callback invoked whenever a budget threshold is crossed.
func (l *Ledger) OnWarning(fn func(msg string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onWarn = fn
}

// Record computes cost from promptTokens/completionTokens at model's rate and appends
// it to the journal, firing any budget warnings that the new total crosses.
func (l *Ledger) Record(model string, promptTokens, completionTokens int, operation, category string) Record {
	price := l.pricing[model]

	cost := decimal.NewFromInt(int64(promptTokens)).
		Div(decimal.NewFromInt(1_000_000)).
		Mul(price.InputPerMillion).
		Add(decimal.NewFromInt(int64(completionTokens)).
			Div(decimal.NewFromInt(1_000_000)).
			Mul(price.OutputPerMillion))

	rec := Record{
		Timestamp:        time.Now(),
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CostUSD:          cost,
		Operation:        operation,
		Category:         category,
	}

	l.mu.Lock()
	l.records = append(l.records, rec)
	warnings := l.checkBudgetLocked()
	onWarn := l.onWarn
	l.mu.Unlock()

	if onWarn != nil {
		for _, w := range warnings {
			onWarn(w)
		}
	}

	return rec
}

func (l *Ledger) checkBudgetLocked() []string {
	var warnings []string
	now := time.Now()
	dayTotal, monthTotal := decimal.Zero, decimal.Zero

	for _, r := range l.records {
		if r.Timestamp.Year() == now.Year() && r.Timestamp.YearDay() == now.YearDay() {
			dayTotal = dayTotal.Add(r.CostUSD)
		}
		if r.Timestamp.Year() == now.Year() && r.Timestamp.Month() == now.Month() {
			monthTotal = monthTotal.Add(r.CostUSD)
		}
	}

	if l.budget.Daily != nil && l.budget.Daily.IsPositive() {
		warnings = append(warnings, budgetWarnings(dayTotal, *l.budget.Daily, "daily")...)
	}
	if l.budget.Monthly != nil && l.budget.Monthly.IsPositive() {
		warnings = append(warnings, budgetWarnings(monthTotal, *l.budget.Monthly, "monthly")...)
	}
	return warnings
}

func budgetWarnings(total, limit decimal.Decimal, label string) []string {
	ratio := total.Div(limit)
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return []string{label + " budget exceeded (100%+)"}
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.8)):
		return []string{label + " budget at 80%+"}
	default:
		return nil
	}
}

// Summary aggregates every record with since <= Timestamp <= until. A zero time.Time on
// either bound leaves that side unbounded.
func (l *Ledger) Summary(since, until time.Time) Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{
		TotalCostUSD: decimal.Zero,
		ByModel:      make(map[string]decimal.Decimal),
		ByOperation:  make(map[string]decimal.Decimal),
	}

	for _, r := range l.records {
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && r.Timestamp.After(until) {
			continue
		}
		s.TotalCostUSD = s.TotalCostUSD.Add(r.CostUSD)
		s.ByModel[r.Model] = s.ByModel[r.Model].Add(r.CostUSD)
		s.ByOperation[r.Operation] = s.ByOperation[r.Operation].Add(r.CostUSD)
		s.Count++
	}
	return s
}
