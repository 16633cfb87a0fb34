package ledger

import (
	"github.com/shopspring/decimal"
)

// Customer is the payer a remittance document belongs to.
type Customer struct {
	CustomerID   string `gorm:"primaryKey;column:customer_id"`
	CustomerName string `gorm:"column:customer_name"`
}

// Facility is a billing site; invoices reference it and discrepancies are
// aggregated per facility type.
type Facility struct {
	InternalFacilityID string `gorm:"primaryKey;column:internal_facility_id"`
	FacilityID         string `gorm:"column:facility_id;index"`
	FacilityType       string `gorm:"column:facility_type"`
	CustomerID         string `gorm:"column:customer_id;index"`
}

// Invoice is one AR record: the gross amount owed plus any discounts applied.
type Invoice struct {
	InvoiceID          string          `gorm:"primaryKey;column:invoice_id"`
	CustomerID         string          `gorm:"column:customer_id;index:idx_invoice_customer_number"`
	InvoiceNumber      string          `gorm:"column:invoice_number;index:idx_invoice_customer_number"`
	InternalFacilityID string          `gorm:"column:internal_facility_id;index"`
	FacilityType       string          `gorm:"column:facility_type"`
	ServiceType        string          `gorm:"column:service_type"`
	InvoiceAmount      decimal.Decimal `gorm:"column:invoice_amount;type:decimal(18,2)"`
	DiscountsApplied   decimal.Decimal `gorm:"column:discounts_applied;type:decimal(18,2)"`
}

// Payment is the remittance header: the net amount paid and the gross AR
// totals the document claims to settle.
type Payment struct {
	PaymentID              string          `gorm:"primaryKey;column:payment_id"`
	CustomerID             string          `gorm:"column:customer_id;index"`
	PaymentDate            string          `gorm:"column:payment_date"`
	BankAccountNumber      string          `gorm:"column:bank_account_number"`
	TotalPaymentPaid       decimal.Decimal `gorm:"column:total_payment_paid;type:decimal(18,2)"`
	PaymentReference       string          `gorm:"column:payment_reference;uniqueIndex"`
	PaymentMethod          string          `gorm:"column:payment_method"`
	TotalInvoiceAmount     decimal.Decimal `gorm:"column:total_invoice_amount;type:decimal(18,2)"`
	TotalAdditionalCharges decimal.Decimal `gorm:"column:total_additional_charges;type:decimal(18,2)"`
	TotalDiscountsApplied  decimal.Decimal `gorm:"column:total_discounts_applied;type:decimal(18,2)"`
	TotalInvoices          int             `gorm:"column:total_invoices"`
	RemittanceNotes        string          `gorm:"column:remittance_notes"`
}

// PaymentAllocation applies part of a payment to one invoice.
type PaymentAllocation struct {
	AllocationID      string          `gorm:"primaryKey;column:allocation_id"`
	PaymentID         string          `gorm:"column:payment_id;index"`
	InvoiceID         string          `gorm:"column:invoice_id;index"`
	AmountApplied     decimal.Decimal `gorm:"column:amount_applied;type:decimal(18,2)"`
	InvoiceAmount     decimal.Decimal `gorm:"column:invoice_amount;type:decimal(18,2)"`
	DiscountsApplied  decimal.Decimal `gorm:"column:discounts_applied;type:decimal(18,2)"`
	AdditionalCharges decimal.Decimal `gorm:"column:additional_charges;type:decimal(18,2)"`
}
