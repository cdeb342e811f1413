package voucher

import (
	"fmt"
	"sync"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// Book is an in-memory, append-only store of validated vouchers.
type Book struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]model.Voucher
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{byID: make(map[string]model.Voucher)}
}

// Add appends a Saved voucher.
func (b *Book) Add(v model.Voucher) error {
	if v.Status != model.StatusSaved {
		return fmt.Errorf("adding %s: %w", v.Number, ErrNotSaved)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byID[v.ID]; ok {
		return fmt.Errorf("adding %s: %w", v.Number, ErrDuplicate)
	}
	b.byID[v.ID] = v
	b.order = append(b.order, v.ID)
	return nil
}

// Get returns a voucher by ID.
func (b *Book) Get(id string) (model.Voucher, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.byID[id]
	return v, ok
}

// List returns all vouchers in the order they were added.
func (b *Book) List() []model.Voucher {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]model.Voucher, 0, len(b.order))
	for _, id := range b.order {
		result = append(result, b.byID[id])
	}
	return result
}

// Len returns the number of vouchers in the book.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Post moves a Saved voucher to Posted and returns the updated voucher.
func (b *Book) Post(id string) (model.Voucher, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.byID[id]
	if !ok {
		return model.Voucher{}, ErrNotFound
	}
	if v.Status == model.StatusPosted {
		return v, fmt.Errorf("posting %s: %w", v.Number, ErrAlreadyPosted)
	}
	v.Status = model.StatusPosted
	b.byID[id] = v
	return v, nil
}

// Delete removes a voucher that has not been posted. Its number is not
// handed out again.
func (b *Book) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.byID[id]
	if !ok {
		return ErrNotFound
	}
	if v.Status == model.StatusPosted {
		return fmt.Errorf("deleting %s: %w", v.Number, ErrPostedImmutable)
	}
	delete(b.byID, id)
	for i, got := range b.order {
		if got == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}
