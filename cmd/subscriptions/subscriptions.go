// Package subscriptions handles listing and confirming stored subscriptions.
package subscriptions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JordanBelfort38/noabo-sub000/cmd/root"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// Cmd represents the subscriptions command group.
var Cmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "List and manage detected subscriptions",
	Run:   listFunc,
}

var confirmCmd = &cobra.Command{
	Use:   "confirm <subscription-id>",
	Short: "Mark a subscription as confirmed",
	Long: `Confirm marks a subscription as user-verified. Confirmed subscriptions keep
their amount, frequency and confidence across future detection runs.`,
	Args: cobra.ExactArgs(1),
	Run:  confirmFunc,
}

func init() {
	Cmd.AddCommand(confirmCmd)
}

func listFunc(cmd *cobra.Command, args []string) {
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

	if len(subs) == 0 {
		fmt.Println("No subscriptions detected yet. Run 'noabo detect' after importing statements.")
		return
	}

	for _, sub := range subs {
		next := "unknown"
		if sub.NextChargeDate != nil {
			next = sub.NextChargeDate.Format("2006-01-02")
		}
		marker := " "
		if sub.IsConfirmed() {
			marker = "*"
		}
		fmt.Printf("%s %-36s %-30s %8s %-10s confidence %3d  next %s\n",
			marker, sub.ID, sub.MerchantName,
			models.CentsToDecimal(sub.AmountCents).StringFixed(2),
			sub.Frequency, sub.Confidence, next)
	}
}

func confirmFunc(cmd *cobra.Command, args []string) {
	st := root.OpenStore()
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.Warnf("Failed to close database: %v", err)
		}
	}()

	if err := st.Confirm(cmd.Context(), root.SharedFlags.UserID, args[0]); err != nil {
		root.Log.Fatalf("Failed to confirm subscription: %v", err)
	}
	fmt.Printf("Confirmed subscription %s\n", args[0])
}
