package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remitagent",
		Short:         "Payment remittance reconciliation agent package toolkit",
		Long:          "remitagent validates, renders and exercises the declarative artifacts of a payment remittance reconciliation agent package: the YAML agent manifest, the INI logging configurations and the reconciliation ledger.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newValidateCmd(),
		newRenderCmd(),
		newStoreCmd(),
		newReconcileCmd(),
	)

	return cmd
}
