package voucher

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// DateFormat is the wire format for voucher dates.
const DateFormat = "2006-01-02"

// DraftInput is the JSON shape of a voucher draft. Narration and lines are
// left to Check so failures come back as ValidationErrors.
type DraftInput struct {
	Date      string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type      string      `json:"type" validate:"required"`
	Narration string      `json:"narration"`
	Lines     []LineInput `json:"lines"`
}

// LineInput is one line of a DraftInput. Amounts may be JSON numbers or strings.
type LineInput struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// Draft converts the input to a model.VoucherDraft. An unknown type yields
// ErrInvalidType.
func (in DraftInput) Draft() (model.VoucherDraft, error) {
	t, err := model.ParseVoucherType(in.Type)
	if err != nil {
		return model.VoucherDraft{}, ValidationError{Kind: KindInvalidType, Line: NoLine}
	}

	var date time.Time
	if s := strings.TrimSpace(in.Date); s != "" {
		date, err = time.Parse(DateFormat, s)
		if err != nil {
			return model.VoucherDraft{}, fmt.Errorf("parsing date %q: %w", in.Date, err)
		}
	}

	lines := make([]model.VoucherLine, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = model.VoucherLine{Account: l.Account, Debit: l.Debit, Credit: l.Credit}
	}

	return model.VoucherDraft{
		Date:      date,
		Type:      t,
		Narration: in.Narration,
		Lines:     lines,
	}, nil
}

// DecodeDraft reads a JSON draft.
func DecodeDraft(r io.Reader) (model.VoucherDraft, error) {
	var in DraftInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return model.VoucherDraft{}, fmt.Errorf("decoding voucher draft: %w", err)
	}
	return in.Draft()
}
