package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/internal/accounts"
	"github.com/ledgerbook/ledgerbook/internal/audit"
	"github.com/ledgerbook/ledgerbook/internal/model"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

func newVoucherCommand() *cobra.Command {
	voucherCmd := &cobra.Command{
		Use:   "voucher",
		Short: "Voucher operations",
	}
	voucherCmd.AddCommand(newVoucherCheckCommand())
	return voucherCmd
}

type checkOptions struct {
	repoDir   string
	typ       string
	narration string
	date      string
	dryRun    bool
}

func newVoucherCheckCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <draft.json|lines.csv>",
		Short: "Validate a voucher draft and assign its number",
		Long: "Validate a voucher draft against the chart of accounts. A JSON file holds a\n" +
			"complete draft; a CSV file holds only the lines, with type, narration and\n" +
			"date taken from flags. Unless --dry-run is set, a passing draft draws the\n" +
			"next number from the configured sequencer.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(opts.repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			opts.repoDir = absDir
			return runVoucherCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&opts.typ, "type", "journal", "voucher type for CSV input (journal, payment, receipt)")
	cmd.Flags().StringVar(&opts.narration, "narration", "", "narration for CSV input")
	cmd.Flags().StringVar(&opts.date, "date", "", "voucher date for CSV input (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate without drawing a number")

	return cmd
}

func runVoucherCheck(cmd *cobra.Command, path string, opts checkOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(opts.repoDir)
	if err != nil {
		return err
	}
	chart, err := accounts.Load(opts.repoDir)
	if err != nil {
		return err
	}

	draft, err := readDraft(path, opts)
	if err != nil {
		return err
	}

	seq, closeSeq, err := openSequencer(cmd.Context(), cfg, opts.repoDir)
	if err != nil {
		return err
	}
	defer closeSeq()
	v := newValidator(cfg, chart, seq)

	if opts.dryRun {
		totals, err := v.Check(draft)
		if err != nil {
			return reportRejection(out, totals, err)
		}
		fmt.Fprintf(out, "Balanced: debit %s, credit %s\n", totals.Debit.StringFixed(2), totals.Credit.StringFixed(2))
		return nil
	}

	saved, err := v.Validate(cmd.Context(), draft)
	if err != nil {
		totals, _ := v.Check(draft)
		return reportRejection(out, totals, err)
	}

	if err := audit.NewLog(opts.repoDir, "cli").Record(audit.ActionVoucherSaved, saved.Number, saved.TotalDebit.StringFixed(2), saved.Narration); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s dated %s\n", saved.Type.Label(), saved.Number, saved.Date.Format(voucher.DateFormat))
	fmt.Fprintf(out, "  %-24s %14s %14s\n", "Account", "Debit", "Credit")
	for _, l := range saved.Lines {
		fmt.Fprintf(out, "  %-24s %14s %14s\n", l.Account, blankZero(l.Debit.StringFixed(2)), blankZero(l.Credit.StringFixed(2)))
	}
	fmt.Fprintf(out, "  %-24s %14s %14s\n", "Total", saved.TotalDebit.StringFixed(2), saved.TotalCredit.StringFixed(2))
	return nil
}

func reportRejection(out io.Writer, totals voucher.Totals, err error) error {
	var ve voucher.ValidationError
	if errors.As(err, &ve) && ve.Kind == voucher.KindUnbalanced {
		fmt.Fprintf(out, "Debit %s, credit %s, difference %s\n",
			totals.Debit.StringFixed(2), totals.Credit.StringFixed(2), totals.Difference.String())
	}
	return fmt.Errorf("voucher rejected: %w", err)
}

func readDraft(path string, opts checkOptions) (model.VoucherDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.VoucherDraft{}, fmt.Errorf("opening draft: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return draftFromCSV(f, opts)
	}
	return voucher.DecodeDraft(f)
}

func draftFromCSV(r io.Reader, opts checkOptions) (model.VoucherDraft, error) {
	lines, err := voucher.ReadLines(r)
	if err != nil {
		return model.VoucherDraft{}, err
	}
	t, err := model.ParseVoucherType(opts.typ)
	if err != nil {
		return model.VoucherDraft{}, err
	}

	var date time.Time
	if opts.date != "" {
		date, err = time.Parse(voucher.DateFormat, opts.date)
		if err != nil {
			return model.VoucherDraft{}, fmt.Errorf("parsing --date: %w", err)
		}
	}

	return model.VoucherDraft{
		Date:      date,
		Type:      t,
		Narration: opts.narration,
		Lines:     lines,
	}, nil
}

func blankZero(s string) string {
	if s == "0.00" {
		return ""
	}
	return s
}
