package tax

import (
	"errors"
	"fmt"
)

// ErrorKind names a class of tax calculation failure.
type ErrorKind string

const (
	KindInvalidAmount    ErrorKind = "InvalidAmount"
	KindEmptySlabTable   ErrorKind = "EmptySlabTable"
	KindInvalidSlabTable ErrorKind = "InvalidSlabTable"
	KindInvalidKind      ErrorKind = "InvalidKind"
)

// Error is a typed tax input failure.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e Error) Error() string {
	var msg string
	switch e.Kind {
	case KindInvalidAmount:
		msg = "invalid amount"
	case KindEmptySlabTable:
		msg = "slab table is empty"
	case KindInvalidSlabTable:
		msg = "invalid slab table"
	case KindInvalidKind:
		msg = "unknown tax kind"
	default:
		msg = string(e.Kind)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// Is matches any Error of the same Kind.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidAmount    = Error{Kind: KindInvalidAmount}
	ErrEmptySlabTable   = Error{Kind: KindEmptySlabTable}
	ErrInvalidSlabTable = Error{Kind: KindInvalidSlabTable}
	ErrInvalidKind      = Error{Kind: KindInvalidKind}
)

// ErrRecordNotFound is returned by History for an unknown record ID.
var ErrRecordNotFound = errors.New("tax record not found")

func invalidAmount(format string, args ...any) Error {
	return Error{Kind: KindInvalidAmount, Detail: fmt.Sprintf(format, args...)}
}

func invalidSlabs(format string, args ...any) Error {
	return Error{Kind: KindInvalidSlabTable, Detail: fmt.Sprintf(format, args...)}
}
