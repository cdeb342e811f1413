package voucher

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// LinesHeader is the CSV header for voucher line files.
const LinesHeader = "account,debit,credit"

const (
	numLineFields = 3
	colAccount    = 0
	colDebit      = 1
	colCredit     = 2
)

// ReadLines reads voucher lines from CSV (header first).
func ReadLines(r io.Reader) ([]model.VoucherLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numLineFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading voucher lines CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var lines []model.VoucherLine
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteLines writes voucher lines as CSV (including header).
func WriteLines(w io.Writer, lines []model.VoucherLine) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(LinesHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLine converts a VoucherLine to a CSV row. Zero sides are left blank.
func MarshalLine(line model.VoucherLine) []string {
	row := make([]string, numLineFields)
	row[colAccount] = line.Account
	if !line.Debit.IsZero() {
		row[colDebit] = line.Debit.StringFixed(2)
	}
	if !line.Credit.IsZero() {
		row[colCredit] = line.Credit.StringFixed(2)
	}
	return row
}

// UnmarshalLine converts a CSV row to a VoucherLine.
func UnmarshalLine(record []string) (model.VoucherLine, error) {
	if len(record) != numLineFields {
		return model.VoucherLine{}, fmt.Errorf("expected %d fields, got %d", numLineFields, len(record))
	}

	debit, err := parseCell(record[colDebit])
	if err != nil {
		return model.VoucherLine{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
	}
	credit, err := parseCell(record[colCredit])
	if err != nil {
		return model.VoucherLine{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
	}

	return model.VoucherLine{
		Account: strings.TrimSpace(record[colAccount]),
		Debit:   debit,
		Credit:  credit,
	}, nil
}

func parseCell(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
