// Command remitagent is the toolkit CLI for payment remittance agent
// packages: it validates and re-emits the declarative artifacts (agent
// manifest, logging configs) and drives the reconciliation ledger.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
