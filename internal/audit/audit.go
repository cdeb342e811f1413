package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Actions recorded in the audit log.
const (
	ActionVoucherSaved   = "voucher.saved"
	ActionVoucherPosted  = "voucher.posted"
	ActionVoucherDeleted = "voucher.deleted"
	ActionTaxComputed    = "tax.computed"
	ActionTaxDeleted     = "tax.deleted"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	Source    string // "cli" or "api"
	Action    string
	Reference string // voucher number or tax record ID
	Amount    string
	Details   string
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,source,action,reference,amount,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/audit-log.csv"
	colTimestamp = 0
	colSource    = 1
	colAction    = 2
	colReference = 3
	colAmount    = 4
	colDetails   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colSource] = e.Source
	row[colAction] = e.Action
	row[colReference] = e.Reference
	row[colAmount] = e.Amount
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Source:    record[colSource],
		Action:    record[colAction],
		Reference: record[colReference],
		Amount:    record[colAmount],
		Details:   record[colDetails],
	}, nil
}

// Path returns the audit log location under repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, logFile)
}

// Log appends entries to one repo's audit log. It is safe for concurrent use.
type Log struct {
	repoRoot string
	source   string
	now      func() time.Time
	mu       sync.Mutex
}

// NewLog creates a Log for repoRoot tagging entries with source.
func NewLog(repoRoot, source string) *Log {
	return &Log{repoRoot: repoRoot, source: source, now: time.Now}
}

// Record appends a single entry stamped with the current time.
func (l *Log) Record(action, reference, amount, details string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Append(l.repoRoot, []Entry{{
		Timestamp: l.now(),
		Source:    l.source,
		Action:    action,
		Reference: reference,
		Amount:    amount,
		Details:   details,
	}})
}

// Append writes entries to <repoRoot>/logs/audit-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(repoRoot)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/audit-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
