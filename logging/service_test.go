package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServiceLogger_ContextualCloning(t *testing.T) {
	var buf bytes.Buffer
	base := NewServiceLogger(newCapturedLogger("root", &buf)).WithComponent("ledger")

	run := base.WithRun("run-1").WithContext("customer_id", "CUST-100")
	run.Info("Storing payment")

	out := buf.String()
	assert.Contains(t, out, "Storing payment")
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "customer_id=CUST-100")

	// The clone must not leak back into the base logger.
	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "run_id")
	assert.NotContains(t, buf.String(), "customer_id")
}

func TestServiceLogger_NilLoggerIsNoOp(t *testing.T) {
	l := NewServiceLogger(nil)
	// Must not panic.
	l.Info("dropped")
	l.LogActionRun("store_payment_with_allocations", time.Millisecond, nil)
}

func TestServiceLogger_LogActionRun(t *testing.T) {
	var buf bytes.Buffer
	l := NewServiceLogger(newCapturedLogger("root", &buf))

	l.LogActionRun("analyze_payment_reconciliation", 5*time.Millisecond, nil)
	assert.Contains(t, buf.String(), "Action run completed")
	assert.Contains(t, buf.String(), "action=analyze_payment_reconciliation")
	assert.Contains(t, buf.String(), "success=true")

	buf.Reset()
	l.LogActionRun("store_payment_with_allocations", time.Millisecond, errors.New("invoice missing"))
	assert.Contains(t, buf.String(), "ERROR - Action run failed")
	assert.Contains(t, buf.String(), "error=invoice missing")
}

func TestServiceLogger_LogReconciliation(t *testing.T) {
	var buf bytes.Buffer
	l := NewServiceLogger(newCapturedLogger("root", &buf))

	l.LogReconciliation("PMT-1001", "MATCHED", 10*time.Millisecond, nil)
	assert.Contains(t, buf.String(), "Reconciliation completed with status MATCHED")
	assert.Contains(t, buf.String(), "payment_reference=PMT-1001")

	buf.Reset()
	l.LogReconciliation("PMT-1002", "", time.Millisecond, errors.New("payment not found"))
	assert.Contains(t, buf.String(), "ERROR - Reconciliation failed")
	assert.Contains(t, buf.String(), "error=payment not found")
}
