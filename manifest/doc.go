// Package manifest loads, validates and re-emits the YAML agent-package
// manifest describing the payment remittance reconciliation agent: its
// identity, model provider, referenced action packages and worker metadata.
//
// The document lives under the top level agent-package key:
//
//	agent-package:
//	  spec-version: v2
//	  agents:
//	    - name: Payment Remittance Reconciliation Agent
//	      model:
//	        provider: OpenAI
//	        name: gpt-4o
//	      action-packages:
//	        - name: payment-remittance-reconcile-actions
//	          path: actions/MyActions/payment-remittance-reconcile-actions
//	          ...
//
// Parsing is strict (unknown keys are rejected so typos surface early) and
// Encode preserves every declared key, giving lossless round trips. Reference
// resolution (action package folders, the runbook file) is separate from
// parsing so a manifest can be validated without the package tree present.
package manifest
