// Package detect handles the subscription detection command.
package detect

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JordanBelfort38/noabo-sub000/cmd/root"
	"github.com/JordanBelfort38/noabo-sub000/internal/detector"
	"github.com/JordanBelfort38/noabo-sub000/internal/merge"
)

// Cmd represents the detect command.
var Cmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect recurring subscriptions",
	Long: `Detect re-examines the user's full transaction history, infers recurring
subscriptions and reconciles them with the stored records. Manually confirmed
subscriptions keep their amount, frequency and confidence.`,
	Run: detectFunc,
}

func detectFunc(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	userID := root.SharedFlags.UserID

	st := root.OpenStore()
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.Warnf("Failed to close database: %v", err)
		}
	}()

	history, err := st.ListDebitsWithMerchant(ctx, userID)
	if err != nil {
		root.Log.Fatalf("Failed to load transaction history: %v", err)
	}

	candidates := detector.New(root.LoadRules(), root.Logger()).Detect(history)

	stats, err := merge.New(st, root.Logger()).Apply(ctx, userID, candidates)
	if err != nil {
		root.Log.Fatalf("Failed to save detection results: %v", err)
	}

	fmt.Printf("Candidates:  %d\n", len(candidates))
	fmt.Printf("Created:     %d\n", stats.Created)
	fmt.Printf("Updated:     %d\n", stats.Updated)
	fmt.Printf("Refreshed:   %d\n", stats.Refreshed)
	fmt.Printf("Unchanged:   %d\n", stats.Unchanged)

	for _, candidate := range candidates {
		next := "unknown"
		if candidate.NextChargeDate != nil {
			next = candidate.NextChargeDate.Format("2006-01-02")
		}
		fmt.Printf("  %-30s %8.2f %-10s confidence %3d  next %s\n",
			candidate.MerchantName,
			float64(candidate.AverageAmountCents)/100,
			candidate.Frequency,
			candidate.Confidence,
			next)
	}
}
