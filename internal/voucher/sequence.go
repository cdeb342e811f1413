package voucher

import (
	"context"
	"sync"
)

// Sequencer hands out voucher sequence numbers per ledger ("JV-2024").
// Numbers are strictly increasing and never reused, independent of how many
// vouchers currently exist.
type Sequencer interface {
	Next(ctx context.Context, ledger string) (int, error)
}

// MemorySequencer keeps counters in process memory.
type MemorySequencer struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMemorySequencer creates an empty MemorySequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{counters: make(map[string]int)}
}

// Next returns the next number for ledger, starting at 1.
func (s *MemorySequencer) Next(ctx context.Context, ledger string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[ledger]++
	return s.counters[ledger], nil
}

// Seed makes the next number for ledger at least last+1. It never moves a
// counter backwards.
func (s *MemorySequencer) Seed(ledger string, last int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last > s.counters[ledger] {
		s.counters[ledger] = last
	}
}

// Current returns the last number handed out for ledger (0 if none).
func (s *MemorySequencer) Current(ledger string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[ledger]
}
