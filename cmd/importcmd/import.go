// Package importcmd handles the statement import command.
package importcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JordanBelfort38/noabo-sub000/cmd/common"
	"github.com/JordanBelfort38/noabo-sub000/cmd/root"
	"github.com/JordanBelfort38/noabo-sub000/internal/config"
)

var formatOverride string

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import <statement-file>",
	Short: "Import a bank statement",
	Long: `Import parses a bank statement export (CSV, OFX, QIF or PDF), normalizes
its transactions and stores them. Re-importing the same statement is safe:
exact duplicates are skipped.`,
	Args: cobra.ExactArgs(1),
	Run:  importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&formatOverride, "format", "f", "", "Force the statement format (CSV, OFX, QIF, PDF)")
}

func importFunc(cmd *cobra.Command, args []string) {
	cfg := config.GetGlobalConfig()

	st := root.OpenStore()
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.Warnf("Failed to close database: %v", err)
		}
	}()

	summary, err := common.ImportStatement(cmd.Context(), st, root.LoadRules(), root.Logger(), args[0], common.ImportOptions{
		UserID:         root.SharedFlags.UserID,
		FormatOverride: formatOverride,
		MaxSizeBytes:   cfg.Import.MaxSizeBytes,
	})
	if err != nil {
		root.Log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Format:      %s\n", summary.Format)
	fmt.Printf("Parsed:      %d\n", summary.Parsed)
	fmt.Printf("Inserted:    %d\n", summary.Inserted)
	fmt.Printf("Duplicates:  %d\n", summary.Duplicates)
	fmt.Printf("Dropped:     %d\n", summary.Dropped)
	if len(summary.ParseErrors) > 0 {
		fmt.Printf("Row errors:  %d\n", len(summary.ParseErrors))
		for _, msg := range summary.ParseErrors {
			fmt.Printf("  - %s\n", msg)
		}
	}
}
