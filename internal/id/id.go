package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FormatLedger returns the ledger key a voucher sequence belongs to, e.g. "JV-2024".
func FormatLedger(prefix string, year int) string {
	return fmt.Sprintf("%s-%04d", prefix, year)
}

// FormatVoucherNumber returns a voucher number like "JV-2024-001".
func FormatVoucherNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%03d", FormatLedger(prefix, year), seq)
}

// ParseVoucherNumber parses "JV-2024-001" into prefix, year, seq.
// The prefix may itself contain dashes ("JV-DHK-2024-001").
func ParseVoucherNumber(number string) (prefix string, year, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) < 3 {
		return "", 0, 0, fmt.Errorf("invalid voucher number format: %q", number)
	}

	n := len(parts)
	prefix = strings.Join(parts[:n-2], "-")
	if prefix == "" {
		return "", 0, 0, fmt.Errorf("missing prefix in voucher number %q", number)
	}

	year, err = strconv.Atoi(parts[n-2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in voucher number %q: %w", number, err)
	}

	seq, err = strconv.Atoi(parts[n-1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sequence in voucher number %q: %w", number, err)
	}
	if seq < 1 {
		return "", 0, 0, fmt.Errorf("invalid sequence in voucher number %q", number)
	}

	return prefix, year, seq, nil
}

// New returns a random record ID.
func New() string {
	return uuid.NewString()
}
