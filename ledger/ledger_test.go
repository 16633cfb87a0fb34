package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvex/remitagent/internal/testutil"
	"github.com/finvex/remitagent/ledger"
)

// seedMeridian registers the customer and two AR invoices the payment
// scenarios below allocate against.
func seedMeridian(t *testing.T, l *ledger.Ledger) {
	t.Helper()
	testutil.SeedCustomer(t, l, "CUST-100", "Meridian Health Partners")
	testutil.SeedInvoice(t, l, ledger.Invoice{
		CustomerID:       "CUST-100",
		InvoiceNumber:    "INV-2024-001",
		FacilityType:     "Hospital",
		ServiceType:      "Inpatient Services",
		InvoiceAmount:    decimal.RequireFromString("10000.00"),
		DiscountsApplied: decimal.RequireFromString("200.00"),
	}, "FAC-H01")
	testutil.SeedInvoice(t, l, ledger.Invoice{
		CustomerID:       "CUST-100",
		InvoiceNumber:    "INV-2024-002",
		FacilityType:     "Clinic",
		ServiceType:      "Outpatient Services",
		InvoiceAmount:    decimal.RequireFromString("4500.00"),
		DiscountsApplied: decimal.RequireFromString("50.00"),
	}, "FAC-C01")
}

func amount(t *testing.T, d decimal.Decimal) string {
	t.Helper()
	return d.StringFixed(2)
}

func TestStorePayment(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	in := testutil.NewPaymentBuilder().
		Total("$14,250.00").
		InvoiceTotal("$14,500.00").
		Discounts("$250.00").
		Invoices(2).
		Notes("October remittance").
		Build()

	result, err := l.StorePayment(context.Background(), in, []ledger.AllocationInput{
		testutil.Allocation("INV-2024-001", "Hospital", "Inpatient Services", "9800.00", "10000.00", "200.00"),
		testutil.Allocation("INV-2024-002", "Clinic", "Outpatient Services", "4450.00", "4500.00", "50.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "PMT-2024-10-15-PMT-1001", result.PaymentID)
	assert.Equal(t, "14250.00", amount(t, result.Totals.Payment))
	assert.Equal(t, "14500.00", amount(t, result.Totals.Invoice))
	assert.Equal(t, "250.00", amount(t, result.Totals.Discounts))

	require.Len(t, result.Allocations, 2)
	first := result.Allocations[0]
	assert.Equal(t, "INV-2024-001", first.InvoiceNumber)
	assert.Equal(t, "ALLOC-"+result.PaymentID+"-"+first.InvoiceID, first.AllocationID)
	assert.Equal(t, "9800.00", amount(t, first.Amount))

	// Facility totals track net amounts per facility type.
	assert.Equal(t, "9800.00", amount(t, result.FacilityTotals["Hospital"]))
	assert.Equal(t, "4450.00", amount(t, result.FacilityTotals["Clinic"]))
}

func TestStorePayment_UpsertByReference(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	allocations := []ledger.AllocationInput{
		testutil.Allocation("INV-2024-001", "Hospital", "Inpatient Services", "9800.00", "10000.00", "200.00"),
	}

	first := testutil.NewPaymentBuilder().Total("9800.00").InvoiceTotal("10000.00").Discounts("200.00").Invoices(1).Build()
	_, err := l.StorePayment(context.Background(), first, allocations)
	require.NoError(t, err)

	corrected := testutil.NewPaymentBuilder().Total("9650.00").InvoiceTotal("10000.00").Discounts("200.00").Invoices(1).Build()
	_, err = l.StorePayment(context.Background(), corrected, allocations)
	require.NoError(t, err)

	var paymentCount, allocationCount int64
	require.NoError(t, l.DB().Model(&ledger.Payment{}).Count(&paymentCount).Error)
	require.NoError(t, l.DB().Model(&ledger.PaymentAllocation{}).Count(&allocationCount).Error)
	assert.Equal(t, int64(1), paymentCount)
	assert.Equal(t, int64(1), allocationCount)

	result, err := l.Analyze(context.Background(), "PMT-1001", ledger.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, "9650.00", amount(t, result.PaymentAmount))
}

func TestStorePayment_UnknownInvoice(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	in := testutil.NewPaymentBuilder().Total("100.00").Build()
	_, err := l.StorePayment(context.Background(), in, []ledger.AllocationInput{
		testutil.Allocation("INV-9999", "Hospital", "Inpatient Services", "100.00", "100.00", "0"),
	})
	assert.ErrorContains(t, err, "invoice INV-9999 not found for customer CUST-100")
}

func TestStorePayment_BadAmount(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	in := testutil.NewPaymentBuilder().Total("not-a-number").Build()
	_, err := l.StorePayment(context.Background(), in, nil)
	assert.ErrorContains(t, err, "total_payment")
}

func TestAnalyze_Matched(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	in := testutil.NewPaymentBuilder().
		Total("14250.00").
		InvoiceTotal("14500.00").
		Discounts("250.00").
		Invoices(2).
		Build()
	_, err := l.StorePayment(context.Background(), in, []ledger.AllocationInput{
		testutil.Allocation("INV-2024-001", "Hospital", "Inpatient Services", "9800.00", "10000.00", "200.00"),
		testutil.Allocation("INV-2024-002", "Clinic", "Outpatient Services", "4450.00", "4500.00", "50.00"),
	})
	require.NoError(t, err)

	result, err := l.Analyze(context.Background(), "PMT-1001", ledger.DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusMatched, result.Status)
	assert.Equal(t, "PMT-1001", result.PaymentReference)
	assert.Equal(t, "14250.00", amount(t, result.PaymentAmount))
	// Net AR balance: gross minus discounts.
	assert.Equal(t, "14250.00", amount(t, result.ARBalance))
	assert.Equal(t, "0.00", amount(t, result.TotalDifference))
	assert.Nil(t, result.DiscrepancySummary)
	assert.Empty(t, result.InvoiceDiscrepancies)

	metrics := result.ProcessingMetrics
	assert.Equal(t, 2, metrics.TotalInvoices)
	assert.Equal(t, []string{"Clinic", "Hospital"}, metrics.FacilityTypes)
	assert.Equal(t, []string{"Inpatient Services", "Outpatient Services"}, metrics.ServiceTypes)
	assert.True(t, metrics.AllMatched)

	fields := result.RemittanceFields
	assert.Equal(t, "Meridian Health Partners", fields.CustomerName)
	assert.Equal(t, "CUST-100", fields.CustomerID)
	assert.Equal(t, "ACH", fields.PaymentMethod)
}

func TestAnalyze_DiscrepancyFound(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	// The hospital invoice is underpaid by 150.00.
	in := testutil.NewPaymentBuilder().
		Total("14100.00").
		InvoiceTotal("14500.00").
		Discounts("250.00").
		Invoices(2).
		Build()
	_, err := l.StorePayment(context.Background(), in, []ledger.AllocationInput{
		testutil.Allocation("INV-2024-001", "Hospital", "Inpatient Services", "9650.00", "10000.00", "200.00"),
		testutil.Allocation("INV-2024-002", "Clinic", "Outpatient Services", "4450.00", "4500.00", "50.00"),
	})
	require.NoError(t, err)

	result, err := l.Analyze(context.Background(), "PMT-1001", ledger.DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusDiscrepancyFound, result.Status)
	assert.Equal(t, "-150.00", amount(t, result.TotalDifference))
	assert.False(t, result.ProcessingMetrics.AllMatched)

	require.Len(t, result.InvoiceDiscrepancies, 1)
	disc := result.InvoiceDiscrepancies[0]
	assert.Equal(t, "INV-2024-001", disc.InvoiceNumber)
	assert.Equal(t, "FAC-H01", disc.FacilityID)
	assert.Equal(t, "9650.00", amount(t, disc.RemittanceAmount))
	assert.Equal(t, "9800.00", amount(t, disc.ARAmount))
	assert.Equal(t, "-150.00", amount(t, disc.Difference))

	summary := result.DiscrepancySummary
	require.NotNil(t, summary)
	assert.Equal(t, "-150.00", amount(t, summary.TotalDifference))
	assert.Equal(t, 1, summary.AffectedFacilityCount)
	assert.Equal(t, 1, summary.AffectedInvoiceCount)
	assert.Equal(t, []string{"Inpatient Services"}, summary.AffectedServiceTypes)

	// Facility summaries sort by absolute difference, largest first.
	require.Len(t, summary.FacilityDifferences, 2)
	hospital := summary.FacilityDifferences[0]
	assert.Equal(t, "Hospital", hospital.FacilityType)
	assert.Equal(t, "-150.00", amount(t, hospital.Difference))
	assert.True(t, hospital.HasDiscrepancy)
	clinic := summary.FacilityDifferences[1]
	assert.Equal(t, "Clinic", clinic.FacilityType)
	assert.False(t, clinic.HasDiscrepancy)
}

func TestAnalyze_WithinThresholdMatches(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	// One cent short: not a discrepancy at the default threshold.
	in := testutil.NewPaymentBuilder().
		Total("9799.99").
		InvoiceTotal("10000.00").
		Discounts("200.00").
		Invoices(1).
		Build()
	_, err := l.StorePayment(context.Background(), in, []ledger.AllocationInput{
		testutil.Allocation("INV-2024-001", "Hospital", "Inpatient Services", "9799.99", "10000.00", "200.00"),
	})
	require.NoError(t, err)

	result, err := l.Analyze(context.Background(), "PMT-1001", ledger.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusMatched, result.Status)
	assert.Equal(t, "-0.01", amount(t, result.TotalDifference))
	assert.True(t, result.ProcessingMetrics.AllMatched)
}

func TestAnalyze_CustomThreshold(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	in := testutil.NewPaymentBuilder().
		Total("9750.00").
		InvoiceTotal("10000.00").
		Discounts("200.00").
		Invoices(1).
		Build()
	_, err := l.StorePayment(context.Background(), in, []ledger.AllocationInput{
		testutil.Allocation("INV-2024-001", "Hospital", "Inpatient Services", "9750.00", "10000.00", "200.00"),
	})
	require.NoError(t, err)

	// A 50.00 shortfall is tolerated at a 100.00 threshold.
	result, err := l.Analyze(context.Background(), "PMT-1001", decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusMatched, result.Status)

	result, err = l.Analyze(context.Background(), "PMT-1001", ledger.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusDiscrepancyFound, result.Status)
}

func TestAnalyze_NoInvoices(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	in := testutil.NewPaymentBuilder().Total("0").InvoiceTotal("0").Build()
	_, err := l.StorePayment(context.Background(), in, nil)
	require.NoError(t, err)

	result, err := l.Analyze(context.Background(), "PMT-1001", ledger.DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusMatched, result.Status)
	assert.Equal(t, "0.00", amount(t, result.TotalDifference))

	metrics := result.ProcessingMetrics
	assert.Equal(t, 0, metrics.TotalInvoices)
	assert.Empty(t, metrics.FacilityTypes)
	// A payment covering no invoices is never all matched.
	assert.False(t, metrics.AllMatched)
}

func TestAnalyze_PaymentNotFound(t *testing.T) {
	l := testutil.OpenLedger(t)
	seedMeridian(t, l)

	_, err := l.Analyze(context.Background(), "PMT-9999", ledger.DefaultThreshold)
	assert.ErrorContains(t, err, "payment not found: PMT-9999")
}

func TestOpen_InMemory(t *testing.T) {
	l, err := ledger.Open("")
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.AddCustomer(ledger.Customer{CustomerID: "CUST-1", CustomerName: "Test"}))
	var count int64
	require.NoError(t, l.DB().Model(&ledger.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
