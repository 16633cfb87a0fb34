package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finvex/remitagent/ledger"
)

func newReconcileCmd() *cobra.Command {
	var dbPath, threshold string

	cmd := &cobra.Command{
		Use:   "reconcile <payment-reference>",
		Short: "Analyze a stored payment against AR records",
		Long: "Compares the payment identified by its reference against the Accounts Receivable " +
			"records it was allocated to and prints the reconciliation result as JSON. " +
			"Differences within the threshold are not discrepancies.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tol, err := decimal.NewFromString(threshold)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", threshold, err)
			}

			l, err := ledger.Open(dbPath)
			if err != nil {
				return err
			}
			defer l.Close()

			result, err := l.Analyze(cmd.Context(), args[0], tol)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "ledger.db", "path to the ledger database")
	cmd.Flags().StringVar(&threshold, "threshold", "0.01", "monetary discrepancy threshold")

	return cmd
}
