// Package exportcmd handles CSV export commands.
package exportcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JordanBelfort38/noabo-sub000/cmd/root"
	"github.com/JordanBelfort38/noabo-sub000/internal/export"
)

// Cmd represents the export command group.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data as CSV",
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Export all stored transactions as CSV",
	Run:   transactionsFunc,
}

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Export detected subscriptions as CSV",
	Run:   subscriptionsFunc,
}

func init() {
	Cmd.AddCommand(transactionsCmd)
	Cmd.AddCommand(subscriptionsCmd)
}

func transactionsFunc(cmd *cobra.Command, args []string) {
	st := root.OpenStore()
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.Warnf("Failed to close database: %v", err)
		}
	}()

	txs, err := st.ListTransactions(cmd.Context(), root.SharedFlags.UserID)
	if err != nil {
		root.Log.Fatalf("Failed to list transactions: %v", err)
	}

	if root.SharedFlags.Output == "" {
		csvText, err := export.MarshalTransactions(txs)
		if err != nil {
			root.Log.Fatalf("Failed to render CSV: %v", err)
		}
		fmt.Print(csvText)
		return
	}

	if err := export.WriteTransactions(txs, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Failed to write CSV: %v", err)
	}
	fmt.Printf("Wrote %d transactions to %s\n", len(txs), root.SharedFlags.Output)
}

func subscriptionsFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Output == "" {
		root.Log.Fatal("An output file is required: use --output")
	}

	st := root.OpenStore()
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.Warnf("Failed to close database: %v", err)
		}
	}()

	subs, err := st.ListSubscriptions(cmd.Context(), root.SharedFlags.UserID)
	if err != nil {
		root.Log.Fatalf("Failed to list subscriptions: %v", err)
	}

	if err := export.WriteSubscriptions(subs, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Failed to write CSV: %v", err)
	}
	fmt.Printf("Wrote %d subscriptions to %s\n", len(subs), root.SharedFlags.Output)
}
