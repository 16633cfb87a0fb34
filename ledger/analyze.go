package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status is the overall outcome of a reconciliation analysis.
type Status string

const (
	// StatusMatched means the payment settles the net AR balance within the
	// threshold.
	StatusMatched Status = "MATCHED"
	// StatusDiscrepancyFound means the total difference exceeds the threshold.
	StatusDiscrepancyFound Status = "DISCREPANCY_FOUND"
)

// InvoiceDiscrepancy details one invoice whose remitted amount differs from
// its net AR amount by more than the threshold.
type InvoiceDiscrepancy struct {
	InvoiceNumber    string          `json:"invoice_number"`
	FacilityID       string          `json:"facility_id"`
	FacilityType     string          `json:"facility_type"`
	ServiceType      string          `json:"service_type"`
	RemittanceAmount decimal.Decimal `json:"remittance_amount"`
	ARAmount         decimal.Decimal `json:"ar_amount"`
	Difference       decimal.Decimal `json:"difference"`
}

// FacilitySummary aggregates remitted versus net AR amounts per facility type.
type FacilitySummary struct {
	FacilityType     string          `json:"facility_type"`
	RemittanceAmount decimal.Decimal `json:"remittance_amount"`
	ARSystemAmount   decimal.Decimal `json:"ar_system_amount"`
	Difference       decimal.Decimal `json:"difference"`
	ServiceTypes     []string        `json:"service_types"`
	InvoiceCount     int             `json:"invoice_count"`
	HasDiscrepancy   bool            `json:"has_discrepancy"`
}

// ProcessingMetrics summarizes what the analysis covered.
type ProcessingMetrics struct {
	TotalInvoices     int      `json:"total_invoices"`
	FacilityTypes     []string `json:"facility_types"`
	FacilityTypeCount int      `json:"facility_type_count"`
	ServiceTypes      []string `json:"service_types"`
	ServiceTypeCount  int      `json:"service_type_count"`
	AllMatched        bool     `json:"all_matched"`
}

// DiscrepancySummary is attached to a result when the total difference
// exceeds the threshold.
type DiscrepancySummary struct {
	TotalDifference       decimal.Decimal   `json:"total_difference"`
	AffectedFacilityCount int               `json:"affected_facility_count"`
	AffectedInvoiceCount  int               `json:"affected_invoice_count"`
	TotalRemittanceAmount decimal.Decimal   `json:"total_remittance_amount"`
	TotalARAmount         decimal.Decimal   `json:"total_ar_amount"`
	FacilityDifferences   []FacilitySummary `json:"facility_differences"`
	AffectedServiceTypes  []string          `json:"affected_service_types"`
}

// RemittanceFields echoes the stored payment header in the result.
type RemittanceFields struct {
	CustomerName       string          `json:"customer_name"`
	CustomerID         string          `json:"customer_id"`
	PaymentDate        string          `json:"payment_date"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentReference   string          `json:"payment_reference"`
	TotalPayment       decimal.Decimal `json:"total_payment"`
	TotalInvoiceAmount decimal.Decimal `json:"total_invoice_amount"`
	TotalDiscounts     decimal.Decimal `json:"total_discounts"`
	TotalCharges       decimal.Decimal `json:"total_charges"`
	BankAccount        string          `json:"bank_account"`
	RemittanceNotes    string          `json:"remittance_notes"`
}

// Result is the outcome of analyzing one payment against AR records.
type Result struct {
	Status               Status               `json:"status"`
	PaymentReference     string               `json:"payment_reference"`
	PaymentAmount        decimal.Decimal      `json:"payment_amount"`
	ARBalance            decimal.Decimal      `json:"ar_balance"`
	TotalDifference      decimal.Decimal      `json:"total_difference"`
	Threshold            decimal.Decimal      `json:"threshold"`
	ProcessingMetrics    ProcessingMetrics    `json:"processing_metrics"`
	DiscrepancySummary   *DiscrepancySummary  `json:"discrepancy_summary,omitempty"`
	InvoiceDiscrepancies []InvoiceDiscrepancy `json:"invoice_discrepancies,omitempty"`
	RemittanceFields     RemittanceFields     `json:"remittance_fields"`
}

// paymentRow is the payment header joined with the customer name.
type paymentRow struct {
	PaymentID              string          `gorm:"column:payment_id"`
	CustomerID             string          `gorm:"column:customer_id"`
	PaymentDate            string          `gorm:"column:payment_date"`
	BankAccountNumber      string          `gorm:"column:bank_account_number"`
	TotalPaymentPaid       decimal.Decimal `gorm:"column:total_payment_paid"`
	PaymentReference       string          `gorm:"column:payment_reference"`
	PaymentMethod          string          `gorm:"column:payment_method"`
	TotalInvoiceAmount     decimal.Decimal `gorm:"column:total_invoice_amount"`
	TotalAdditionalCharges decimal.Decimal `gorm:"column:total_additional_charges"`
	TotalDiscountsApplied  decimal.Decimal `gorm:"column:total_discounts_applied"`
	CustomerName           string          `gorm:"column:customer_name"`
	RemittanceNotes        string          `gorm:"column:remittance_notes"`
}

// invoiceRow is one allocation joined with its invoice and facility.
type invoiceRow struct {
	InvoiceNumber   string          `gorm:"column:invoice_number"`
	InvoiceID       string          `gorm:"column:invoice_id"`
	FacilityID      string          `gorm:"column:facility_id"`
	FacilityType    string          `gorm:"column:facility_type"`
	ServiceType     string          `gorm:"column:service_type"`
	AllocatedAmount decimal.Decimal `gorm:"column:allocated_amount"`
	ARAmount        decimal.Decimal `gorm:"column:ar_amount"`
	Discounts       decimal.Decimal `gorm:"column:discounts"`
}

// Analyze compares the payment identified by paymentReference against the AR
// records it was allocated to. A difference counts as a discrepancy only when
// its absolute value exceeds threshold.
func (l *Ledger) Analyze(ctx context.Context, paymentReference string, threshold decimal.Decimal) (*Result, error) {
	start := time.Now()
	log := l.logger.WithRun(uuid.NewString())

	payment, err := l.paymentInfo(ctx, paymentReference)
	if err != nil {
		log.LogReconciliation(paymentReference, "", time.Since(start), err)
		return nil, err
	}

	rows, err := l.invoiceData(ctx, payment.PaymentID)
	if err != nil {
		log.LogReconciliation(paymentReference, "", time.Since(start), err)
		return nil, err
	}

	// Net AR balance: gross minus discounts.
	totalARNet := round2(payment.TotalInvoiceAmount.Sub(payment.TotalDiscountsApplied))

	metrics := calculateMetrics(rows)

	allMatched := true
	var discrepancies []InvoiceDiscrepancy
	for _, inv := range rows {
		arNet := round2(inv.ARAmount.Sub(inv.Discounts))
		difference := round2(inv.AllocatedAmount.Sub(arNet))
		if exceeds(difference, threshold) {
			allMatched = false
			discrepancies = append(discrepancies, InvoiceDiscrepancy{
				InvoiceNumber:    inv.InvoiceNumber,
				FacilityID:       inv.FacilityID,
				FacilityType:     inv.FacilityType,
				ServiceType:      inv.ServiceType,
				RemittanceAmount: inv.AllocatedAmount,
				ARAmount:         arNet,
				Difference:       difference,
			})
		}
	}

	facilitySummaries := calculateFacilitySummaries(rows, threshold)

	totalDifference := round2(payment.TotalPaymentPaid.Sub(totalARNet))
	hasDiscrepancy := exceeds(totalDifference, threshold)
	if hasDiscrepancy {
		allMatched = false
	}
	metrics.AllMatched = allMatched && metrics.TotalInvoices > 0

	result := &Result{
		Status:            StatusMatched,
		PaymentReference:  paymentReference,
		PaymentAmount:     payment.TotalPaymentPaid,
		ARBalance:         totalARNet,
		TotalDifference:   totalDifference,
		Threshold:         threshold,
		ProcessingMetrics: metrics,
		RemittanceFields: RemittanceFields{
			CustomerName:       payment.CustomerName,
			CustomerID:         payment.CustomerID,
			PaymentDate:        payment.PaymentDate,
			PaymentMethod:      payment.PaymentMethod,
			PaymentReference:   payment.PaymentReference,
			TotalPayment:       payment.TotalPaymentPaid,
			TotalInvoiceAmount: payment.TotalInvoiceAmount,
			TotalDiscounts:     payment.TotalDiscountsApplied,
			TotalCharges:       payment.TotalAdditionalCharges,
			BankAccount:        payment.BankAccountNumber,
			RemittanceNotes:    payment.RemittanceNotes,
		},
	}

	if hasDiscrepancy {
		result.Status = StatusDiscrepancyFound
		result.InvoiceDiscrepancies = discrepancies

		affectedFacilities := 0
		for _, fs := range facilitySummaries {
			if fs.HasDiscrepancy {
				affectedFacilities++
			}
		}
		result.DiscrepancySummary = &DiscrepancySummary{
			TotalDifference:       totalDifference,
			AffectedFacilityCount: affectedFacilities,
			AffectedInvoiceCount:  len(discrepancies),
			TotalRemittanceAmount: payment.TotalPaymentPaid,
			TotalARAmount:         totalARNet,
			FacilityDifferences:   facilitySummaries,
			AffectedServiceTypes:  affectedServiceTypes(discrepancies),
		}
	}

	log.LogReconciliation(paymentReference, string(result.Status), time.Since(start), nil)
	return result, nil
}

func (l *Ledger) paymentInfo(ctx context.Context, paymentReference string) (*paymentRow, error) {
	var row paymentRow
	err := l.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, customers.customer_name").
		Joins("JOIN customers ON customers.customer_id = payments.customer_id").
		Where("payments.payment_reference = ?", paymentReference).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment not found: %s", paymentReference)
	}
	if err != nil {
		return nil, fmt.Errorf("load payment %s: %w", paymentReference, err)
	}
	return &row, nil
}

func (l *Ledger) invoiceData(ctx context.Context, paymentID string) ([]invoiceRow, error) {
	var rows []invoiceRow
	err := l.db.WithContext(ctx).
		Table("payment_allocations").
		Select("invoices.invoice_number, invoices.invoice_id, facilities.facility_id, invoices.facility_type, invoices.service_type, "+
			"payment_allocations.amount_applied AS allocated_amount, invoices.invoice_amount AS ar_amount, invoices.discounts_applied AS discounts").
		Joins("JOIN invoices ON invoices.invoice_id = payment_allocations.invoice_id").
		Joins("JOIN facilities ON facilities.internal_facility_id = invoices.internal_facility_id").
		Where("payment_allocations.payment_id = ?", paymentID).
		Order("invoices.facility_type, invoices.invoice_number").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load invoice data for %s: %w", paymentID, err)
	}
	return rows, nil
}

// calculateMetrics derives the coverage metrics; AllMatched is finalized by
// the caller once discrepancies are known.
func calculateMetrics(rows []invoiceRow) ProcessingMetrics {
	metrics := ProcessingMetrics{
		TotalInvoices: len(rows),
		FacilityTypes: []string{},
		ServiceTypes:  []string{},
	}

	facilitySet := map[string]bool{}
	serviceSet := map[string]bool{}
	for _, r := range rows {
		facilitySet[r.FacilityType] = true
		if r.ServiceType != "" {
			serviceSet[r.ServiceType] = true
		}
	}
	metrics.FacilityTypes = sortedKeys(facilitySet)
	metrics.FacilityTypeCount = len(metrics.FacilityTypes)
	metrics.ServiceTypes = sortedKeys(serviceSet)
	metrics.ServiceTypeCount = len(metrics.ServiceTypes)
	return metrics
}

// calculateFacilitySummaries aggregates net amounts per facility type and
// sorts the summaries by absolute difference, largest first.
func calculateFacilitySummaries(rows []invoiceRow, threshold decimal.Decimal) []FacilitySummary {
	type totals struct {
		remit     decimal.Decimal
		arGross   decimal.Decimal
		discounts decimal.Decimal
		services  map[string]bool
		count     int
	}

	byType := map[string]*totals{}
	var order []string
	for _, r := range rows {
		t, ok := byType[r.FacilityType]
		if !ok {
			t = &totals{services: map[string]bool{}}
			byType[r.FacilityType] = t
			order = append(order, r.FacilityType)
		}
		t.remit = t.remit.Add(r.AllocatedAmount)
		t.arGross = t.arGross.Add(r.ARAmount)
		t.discounts = t.discounts.Add(r.Discounts)
		t.services[r.ServiceType] = true
		t.count++
	}

	summaries := make([]FacilitySummary, 0, len(byType))
	for _, ftype := range order {
		t := byType[ftype]
		netAR := round2(t.arGross.Sub(t.discounts))
		remit := round2(t.remit)
		difference := round2(remit.Sub(netAR))
		summaries = append(summaries, FacilitySummary{
			FacilityType:     ftype,
			RemittanceAmount: remit,
			ARSystemAmount:   netAR,
			Difference:       difference,
			ServiceTypes:     sortedKeys(t.services),
			InvoiceCount:     t.count,
			HasDiscrepancy:   exceeds(difference, threshold),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Difference.Abs().GreaterThan(summaries[j].Difference.Abs())
	})
	return summaries
}

func affectedServiceTypes(discrepancies []InvoiceDiscrepancy) []string {
	set := map[string]bool{}
	for _, d := range discrepancies {
		set[d.ServiceType] = true
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
