package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the closed set of voucher kinds.
type VoucherType string

const (
	VoucherJournal VoucherType = "journal"
	VoucherPayment VoucherType = "payment"
	VoucherReceipt VoucherType = "receipt"
)

// VoucherTypes lists every voucher type in display order.
var VoucherTypes = []VoucherType{VoucherJournal, VoucherPayment, VoucherReceipt}

// Valid reports whether t is one of the known voucher types.
func (t VoucherType) Valid() bool {
	switch t {
	case VoucherJournal, VoucherPayment, VoucherReceipt:
		return true
	}
	return false
}

// Prefix returns the default voucher number prefix for t ("JV", "PV", "RV").
func (t VoucherType) Prefix() string {
	switch t {
	case VoucherJournal:
		return "JV"
	case VoucherPayment:
		return "PV"
	case VoucherReceipt:
		return "RV"
	}
	return ""
}

// Label returns the human-readable name, e.g. "Journal Voucher".
func (t VoucherType) Label() string {
	switch t {
	case VoucherJournal:
		return "Journal Voucher"
	case VoucherPayment:
		return "Payment Voucher"
	case VoucherReceipt:
		return "Receipt Voucher"
	}
	return string(t)
}

// ParseVoucherType accepts "journal", "Journal Voucher" or "JV" (any case).
func ParseVoucherType(s string) (VoucherType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, " voucher")
	for _, t := range VoucherTypes {
		if norm == string(t) || norm == strings.ToLower(t.Prefix()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown voucher type %q", s)
}

// VoucherStatus is the lifecycle state of a voucher.
type VoucherStatus string

const (
	StatusDraft  VoucherStatus = "draft"
	StatusSaved  VoucherStatus = "saved"
	StatusPosted VoucherStatus = "posted"
)

// VoucherLine is one debit or credit row of a voucher.
type VoucherLine struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// VoucherDraft is an unvalidated voucher as entered by a user.
type VoucherDraft struct {
	Date      time.Time
	Type      VoucherType
	Narration string
	Lines     []VoucherLine
}

// Voucher is a validated, numbered journal entry.
type Voucher struct {
	ID          string
	Number      string // "JV-2024-001"
	Date        time.Time
	Type        VoucherType
	Narration   string
	Lines       []VoucherLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Status      VoucherStatus
	CreatedAt   time.Time
}
