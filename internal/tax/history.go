package tax

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// History is an in-memory list of calculation records, newest last.
type History struct {
	mu      sync.RWMutex
	records []model.TaxCalculation
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{}
}

// Append adds a record.
func (h *History) Append(rec model.TaxCalculation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
}

// List returns a copy of all records in insertion order.
func (h *History) List() []model.TaxCalculation {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.TaxCalculation, len(h.records))
	copy(out, h.records)
	return out
}

// Get returns a record by ID.
func (h *History) Get(id string) (model.TaxCalculation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, rec := range h.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return model.TaxCalculation{}, false
}

// Delete removes a record by ID.
func (h *History) Delete(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, rec := range h.records {
		if rec.ID == id {
			h.records = append(h.records[:i], h.records[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

// KindSummary aggregates the records of one tax kind.
type KindSummary struct {
	Kind     model.TaxKind
	Count    int
	TotalTax decimal.Decimal
	// AverageRate is the mean applied rate over flat-rate records, zero if
	// there are none.
	AverageRate decimal.Decimal
}

// Summary returns one entry per tax kind, in model.TaxKinds order.
func (h *History) Summary() []KindSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]KindSummary, 0, len(model.TaxKinds))
	for _, kind := range model.TaxKinds {
		s := KindSummary{Kind: kind, TotalTax: decimal.Zero, AverageRate: decimal.Zero}
		rateSum := decimal.Zero
		flat := 0
		for _, rec := range h.records {
			if rec.Kind != kind {
				continue
			}
			s.Count++
			s.TotalTax = s.TotalTax.Add(rec.TaxAmount)
			if rec.AppliedRate != nil {
				rateSum = rateSum.Add(*rec.AppliedRate)
				flat++
			}
		}
		if flat > 0 {
			s.AverageRate = rateSum.Div(decimal.NewFromInt(int64(flat)))
		}
		out = append(out, s)
	}
	return out
}
