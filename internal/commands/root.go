package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerbook",
		Short:   "Double-entry vouchers and tax calculations for small businesses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVoucherCommand())
	rootCmd.AddCommand(newTaxCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
