package voucher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

func savedVoucher(t *testing.T, v *Validator) model.Voucher {
	t.Helper()
	got, err := v.Validate(context.Background(), openingBalance())
	require.NoError(t, err)
	return got
}

func TestBook_AddListGet(t *testing.T) {
	v, _ := newTestValidator()
	b := NewBook()

	first := savedVoucher(t, v)
	second := savedVoucher(t, v)
	require.NoError(t, b.Add(first))
	require.NoError(t, b.Add(second))

	list := b.List()
	require.Len(t, list, 2)
	assert.Equal(t, "JV-2024-001", list[0].Number)
	assert.Equal(t, "JV-2024-002", list[1].Number)

	got, ok := b.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, second.Number, got.Number)

	_, ok = b.Get("missing")
	assert.False(t, ok)
}

func TestBook_AddRejects(t *testing.T) {
	v, _ := newTestValidator()
	b := NewBook()

	saved := savedVoucher(t, v)
	require.NoError(t, b.Add(saved))
	assert.ErrorIs(t, b.Add(saved), ErrDuplicate)

	draft := savedVoucher(t, v)
	draft.Status = model.StatusDraft
	assert.ErrorIs(t, b.Add(draft), ErrNotSaved)
	assert.Equal(t, 1, b.Len())
}

func TestBook_ListIsACopy(t *testing.T) {
	v, _ := newTestValidator()
	b := NewBook()
	require.NoError(t, b.Add(savedVoucher(t, v)))

	list := b.List()
	list[0].Narration = "changed"
	got := b.List()
	assert.Equal(t, "Opening balance", got[0].Narration)
}

func TestBook_PostAndDelete(t *testing.T) {
	v, _ := newTestValidator()
	b := NewBook()

	posted := savedVoucher(t, v)
	deleted := savedVoucher(t, v)
	require.NoError(t, b.Add(posted))
	require.NoError(t, b.Add(deleted))

	got, err := b.Post(posted.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, got.Status)

	_, err = b.Post(posted.ID)
	assert.ErrorIs(t, err, ErrAlreadyPosted)

	assert.ErrorIs(t, b.Delete(posted.ID), ErrPostedImmutable)
	require.NoError(t, b.Delete(deleted.ID))
	assert.ErrorIs(t, b.Delete(deleted.ID), ErrNotFound)

	_, err = b.Post("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list := b.List()
	require.Len(t, list, 1)
	assert.Equal(t, posted.ID, list[0].ID)
}
