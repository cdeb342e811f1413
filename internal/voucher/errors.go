package voucher

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorKind names a class of voucher validation failure.
type ErrorKind string

const (
	KindEmptyNarration ErrorKind = "EmptyNarration"
	KindInvalidType    ErrorKind = "InvalidType"
	KindNoLines        ErrorKind = "NoLines"
	KindMissingAccount ErrorKind = "MissingAccount"
	KindUnknownAccount ErrorKind = "UnknownAccount"
	KindInvalidAmount  ErrorKind = "InvalidAmount"
	KindUnbalanced     ErrorKind = "Unbalanced"
)

// NoLine marks a ValidationError that is not tied to a specific line.
const NoLine = -1

// ValidationError describes why a draft could not be saved.
type ValidationError struct {
	Kind       ErrorKind
	Line       int // zero-based line index, NoLine if not line specific
	Account    string
	Difference decimal.Decimal // ΣDebit − ΣCredit, set for KindUnbalanced
}

func (e ValidationError) Error() string {
	switch e.Kind {
	case KindEmptyNarration:
		return "narration is required"
	case KindInvalidType:
		return "unknown voucher type"
	case KindNoLines:
		return "voucher has no lines"
	case KindMissingAccount:
		return fmt.Sprintf("line %d: account is required", e.Line+1)
	case KindUnknownAccount:
		return fmt.Sprintf("line %d: unknown account %q", e.Line+1, e.Account)
	case KindInvalidAmount:
		return fmt.Sprintf("line %d: debit and credit must not be negative", e.Line+1)
	case KindUnbalanced:
		return fmt.Sprintf("voucher is not balanced: debit and credit differ by %s", e.Difference.String())
	}
	return string(e.Kind)
}

// Is matches any ValidationError of the same Kind, so
// errors.Is(err, ErrUnbalanced) works regardless of line or difference.
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrEmptyNarration = ValidationError{Kind: KindEmptyNarration, Line: NoLine}
	ErrInvalidType    = ValidationError{Kind: KindInvalidType, Line: NoLine}
	ErrNoLines        = ValidationError{Kind: KindNoLines, Line: NoLine}
	ErrMissingAccount = ValidationError{Kind: KindMissingAccount, Line: NoLine}
	ErrUnknownAccount = ValidationError{Kind: KindUnknownAccount, Line: NoLine}
	ErrInvalidAmount  = ValidationError{Kind: KindInvalidAmount, Line: NoLine}
	ErrUnbalanced     = ValidationError{Kind: KindUnbalanced, Line: NoLine}
)

// Book errors.
var (
	ErrNotFound        = errors.New("voucher not found")
	ErrDuplicate       = errors.New("voucher already exists")
	ErrNotSaved        = errors.New("only saved vouchers can be added to the book")
	ErrAlreadyPosted   = errors.New("voucher is already posted")
	ErrPostedImmutable = errors.New("posted vouchers cannot be deleted")
)
