package testutil

import (
	"path/filepath"
	"testing"

	"github.com/finvex/remitagent/ledger"
)

// OpenLedger opens a ledger backed by a file in a test temp directory. The
// test fails on any error; Close is registered as cleanup.
func OpenLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open test ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// PaymentBuilder provides a fluent helper for constructing payment inputs in
// tests. Example:
//
//	in := NewPaymentBuilder().Reference("PMT-1001").Total("$14,250.00").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type PaymentBuilder struct {
	in ledger.PaymentInput
}

// NewPaymentBuilder creates a builder with a default customer and date.
func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{in: ledger.PaymentInput{
		CustomerID:         "CUST-100",
		PaymentDate:        "2024-10-15",
		BankAccount:        "****4821",
		PaymentReference:   "PMT-1001",
		PaymentMethod:      "ACH",
		TotalPayment:       "0",
		TotalInvoiceAmount: "0",
	}}
}

// Customer sets the customer id (chainable).
func (b *PaymentBuilder) Customer(id string) *PaymentBuilder { b.in.CustomerID = id; return b }

// Reference sets the payment reference (chainable).
func (b *PaymentBuilder) Reference(ref string) *PaymentBuilder {
	b.in.PaymentReference = ref
	return b
}

// Date sets the payment date (chainable).
func (b *PaymentBuilder) Date(d string) *PaymentBuilder { b.in.PaymentDate = d; return b }

// Total sets the net total payment (chainable).
func (b *PaymentBuilder) Total(v string) *PaymentBuilder { b.in.TotalPayment = v; return b }

// InvoiceTotal sets the gross AR total (chainable).
func (b *PaymentBuilder) InvoiceTotal(v string) *PaymentBuilder {
	b.in.TotalInvoiceAmount = v
	return b
}

// Discounts sets the total discounts applied (chainable).
func (b *PaymentBuilder) Discounts(v string) *PaymentBuilder { b.in.TotalDiscounts = v; return b }

// Charges sets the total additional charges (chainable).
func (b *PaymentBuilder) Charges(v string) *PaymentBuilder { b.in.TotalCharges = v; return b }

// Invoices sets the declared invoice count (chainable).
func (b *PaymentBuilder) Invoices(n int) *PaymentBuilder { b.in.InvoiceCount = n; return b }

// Notes sets the remittance notes (chainable).
func (b *PaymentBuilder) Notes(n string) *PaymentBuilder { b.in.RemittanceNotes = n; return b }

// Build returns the payment input.
func (b *PaymentBuilder) Build() ledger.PaymentInput { return b.in }

// Allocation constructs one remittance line item.
func Allocation(invoiceNumber, facilityType, serviceType, amountPaid, invoiceAmount, discounts string) ledger.AllocationInput {
	return ledger.AllocationInput{
		InvoiceNumber:    invoiceNumber,
		FacilityType:     facilityType,
		ServiceType:      serviceType,
		AmountPaid:       amountPaid,
		InvoiceAmount:    invoiceAmount,
		DiscountsApplied: discounts,
	}
}

// SeedInvoice registers a customer-owned AR invoice, creating the facility on
// first use. The test fails on any error.
func SeedInvoice(t *testing.T, l *ledger.Ledger, inv ledger.Invoice, facilityID string) {
	t.Helper()
	if err := l.AddInvoice(inv, facilityID); err != nil {
		t.Fatalf("seed invoice %s: %v", inv.InvoiceNumber, err)
	}
}

// SeedCustomer registers a customer. The test fails on any error.
func SeedCustomer(t *testing.T, l *ledger.Ledger, id, name string) {
	t.Helper()
	if err := l.AddCustomer(ledger.Customer{CustomerID: id, CustomerName: name}); err != nil {
		t.Fatalf("seed customer %s: %v", id, err)
	}
}
