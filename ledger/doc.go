// Package ledger implements the invoice reconciliation ledger the remittance
// action packages operate against.
//
// The ledger stores customers, facilities, invoices (the Accounts Receivable
// side), payments and per-invoice payment allocations (the remittance side).
// Two operations make up the reconciliation surface:
//
//   - StorePayment records a payment and its allocations, aggregating net
//     totals per facility type
//   - Analyze compares a stored payment against the AR records: per invoice,
//     per facility type and in total, flagging every difference whose
//     absolute value exceeds a monetary threshold
//
// All monetary amounts are 2dp decimals; net amounts are gross minus
// discounts and every intermediate result is rounded before comparison, so
// reported differences are exactly the ones a reviewer would compute by hand.
package ledger
