package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentInput is the remittance header as extracted from the document.
// Monetary values are strings exactly as they appear ("$1,234.56" is fine).
type PaymentInput struct {
	CustomerID         string `json:"customer_id"`
	PaymentDate        string `json:"payment_date"`
	BankAccount        string `json:"bank_account"`
	PaymentReference   string `json:"payment_reference"`
	PaymentMethod      string `json:"payment_method"`
	TotalPayment       string `json:"total_payment"`        // net amount paid
	TotalInvoiceAmount string `json:"total_invoice_amount"` // gross AR total
	TotalDiscounts     string `json:"total_discounts"`
	TotalCharges       string `json:"total_charges"`
	InvoiceCount       int    `json:"invoice_count"`
	RemittanceNotes    string `json:"remittance_notes"`
}

// AllocationInput is one remittance line item applying part of the payment
// to an invoice.
type AllocationInput struct {
	InvoiceNumber     string `json:"invoice_number"`
	FacilityType      string `json:"facility_type"`
	ServiceType       string `json:"service_type"`
	AmountPaid        string `json:"amount_paid"`     // net amount
	InvoiceAmount     string `json:"invoice_amount"`  // gross amount
	DiscountsApplied  string `json:"discounts_applied"`
	AdditionalCharges string `json:"additional_charges"`
}

// AllocationRecord reports one stored allocation.
type AllocationRecord struct {
	AllocationID  string          `json:"allocation_id"`
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	Discounts     decimal.Decimal `json:"discounts"`
	Charges       decimal.Decimal `json:"charges"`
}

// StoreTotals echoes the parsed header totals.
type StoreTotals struct {
	Payment   decimal.Decimal `json:"payment"`
	Invoice   decimal.Decimal `json:"invoice"`
	Discounts decimal.Decimal `json:"discounts"`
	Charges   decimal.Decimal `json:"charges"`
}

// StoreResult reports a stored payment with its allocations and the net
// totals per facility type.
type StoreResult struct {
	PaymentID      string                     `json:"payment_id"`
	Allocations    []AllocationRecord         `json:"allocations"`
	FacilityTotals map[string]decimal.Decimal `json:"facility_totals"`
	Totals         StoreTotals                `json:"totals"`
}

// StorePayment records a payment and one allocation per remittance line
// item. Re-storing the same payment reference updates the header and
// allocation amounts in place. Every invoice number must already exist as an
// AR record for the customer.
func (l *Ledger) StorePayment(ctx context.Context, in PaymentInput, invoices []AllocationInput) (*StoreResult, error) {
	log := l.logger.WithRun(uuid.NewString()).WithContext("customer_id", in.CustomerID)
	log.Info("Storing payment", "payment_reference", in.PaymentReference, "invoice_count", len(invoices))

	totalPayment, err := ParseAmount(in.TotalPayment)
	if err != nil {
		return nil, fmt.Errorf("total_payment: %w", err)
	}
	totalInvoice, err := ParseAmount(in.TotalInvoiceAmount)
	if err != nil {
		return nil, fmt.Errorf("total_invoice_amount: %w", err)
	}
	totalDiscounts, err := ParseAmount(in.TotalDiscounts)
	if err != nil {
		return nil, fmt.Errorf("total_discounts: %w", err)
	}
	totalCharges, err := ParseAmount(in.TotalCharges)
	if err != nil {
		return nil, fmt.Errorf("total_charges: %w", err)
	}

	result := &StoreResult{
		PaymentID:      fmt.Sprintf("PMT-%s-%s", in.PaymentDate, in.PaymentReference),
		FacilityTotals: map[string]decimal.Decimal{},
		Totals: StoreTotals{
			Payment:   totalPayment,
			Invoice:   totalInvoice,
			Discounts: totalDiscounts,
			Charges:   totalCharges,
		},
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := Payment{
			PaymentID:              result.PaymentID,
			CustomerID:             in.CustomerID,
			PaymentDate:            in.PaymentDate,
			BankAccountNumber:      in.BankAccount,
			TotalPaymentPaid:       totalPayment,
			PaymentReference:       in.PaymentReference,
			PaymentMethod:          in.PaymentMethod,
			TotalInvoiceAmount:     totalInvoice,
			TotalAdditionalCharges: totalCharges,
			TotalDiscountsApplied:  totalDiscounts,
			TotalInvoices:          in.InvoiceCount,
			RemittanceNotes:        in.RemittanceNotes,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			UpdateAll: true,
		}).Create(&payment).Error; err != nil {
			return fmt.Errorf("store payment record: %w", err)
		}

		for _, line := range invoices {
			rec, err := l.storeAllocation(tx, in.CustomerID, result.PaymentID, line)
			if err != nil {
				return err
			}
			result.Allocations = append(result.Allocations, rec)

			// Facility totals track net amounts.
			total := result.FacilityTotals[line.FacilityType]
			result.FacilityTotals[line.FacilityType] = round2(total.Add(rec.Amount))
		}
		return nil
	})
	if err != nil {
		log.Error("Storing payment failed", "error", err.Error())
		return nil, err
	}

	log.Info("Payment stored", "payment_id", result.PaymentID)
	return result, nil
}

func (l *Ledger) storeAllocation(tx *gorm.DB, customerID, paymentID string, line AllocationInput) (AllocationRecord, error) {
	amountPaid, err := ParseAmount(line.AmountPaid)
	if err != nil {
		return AllocationRecord{}, fmt.Errorf("invoice %s amount_paid: %w", line.InvoiceNumber, err)
	}
	invoiceAmount, err := ParseAmount(line.InvoiceAmount)
	if err != nil {
		return AllocationRecord{}, fmt.Errorf("invoice %s invoice_amount: %w", line.InvoiceNumber, err)
	}
	discounts, err := ParseAmount(line.DiscountsApplied)
	if err != nil {
		return AllocationRecord{}, fmt.Errorf("invoice %s discounts_applied: %w", line.InvoiceNumber, err)
	}
	charges, err := ParseAmount(line.AdditionalCharges)
	if err != nil {
		return AllocationRecord{}, fmt.Errorf("invoice %s additional_charges: %w", line.InvoiceNumber, err)
	}

	var invoice Invoice
	err = tx.Where("customer_id = ? AND invoice_number = ?", customerID, line.InvoiceNumber).Take(&invoice).Error
	if err != nil {
		return AllocationRecord{}, fmt.Errorf("invoice %s not found for customer %s", line.InvoiceNumber, customerID)
	}

	allocation := PaymentAllocation{
		AllocationID:      fmt.Sprintf("ALLOC-%s-%s", paymentID, invoice.InvoiceID),
		PaymentID:         paymentID,
		InvoiceID:         invoice.InvoiceID,
		AmountApplied:     amountPaid,
		InvoiceAmount:     invoiceAmount,
		DiscountsApplied:  discounts,
		AdditionalCharges: charges,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "allocation_id"}},
		UpdateAll: true,
	}).Create(&allocation).Error; err != nil {
		return AllocationRecord{}, fmt.Errorf("store allocation for invoice %s: %w", line.InvoiceNumber, err)
	}

	return AllocationRecord{
		AllocationID:  allocation.AllocationID,
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: line.InvoiceNumber,
		Amount:        amountPaid,
		InvoiceAmount: invoiceAmount,
		Discounts:     discounts,
		Charges:       charges,
	}, nil
}
