package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finvex/remitagent/ledger"
)

// storeDocument is the JSON shape accepted by the store command: the
// remittance header plus its line items.
type storeDocument struct {
	Payment  ledger.PaymentInput      `json:"payment"`
	Invoices []ledger.AllocationInput `json:"invoices"`
}

func newStoreCmd() *cobra.Command {
	var dbPath, file string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store a payment with its allocations in the ledger",
		Long: "Reads a remittance document (payment header plus line items) from a JSON file " +
			"and records it in the reconciliation ledger, printing the stored allocations and facility totals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var doc storeDocument
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			l, err := ledger.Open(dbPath)
			if err != nil {
				return err
			}
			defer l.Close()

			result, err := l.StorePayment(cmd.Context(), doc.Payment, doc.Invoices)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "ledger.db", "path to the ledger database")
	cmd.Flags().StringVar(&file, "file", "", "JSON remittance document to store")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
