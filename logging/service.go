package logging

import (
	"fmt"
	"sort"
	"time"
)

// ServiceLogger wraps a Logger with contextual cloning helpers and domain
// convenience methods for action runs and reconciliation outcomes. It is
// cheap to copy via the With* methods.
type ServiceLogger struct {
	logger    Logger
	component string
	runID     string
	context   map[string]any
}

// NewServiceLogger wraps a Logger. A nil logger results in a no-op.
func NewServiceLogger(logger Logger) *ServiceLogger {
	if logger == nil {
		logger = NoOpLogger{}
	}
	return &ServiceLogger{logger: logger, context: map[string]any{}}
}

func (l *ServiceLogger) clone() *ServiceLogger {
	nl := *l
	nl.context = make(map[string]any, len(l.context))
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithComponent sets the logical component (ledger, manifest, logconf, cli).
func (l *ServiceLogger) WithComponent(c string) *ServiceLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithRun attaches a run identifier correlating all entries of one operation.
func (l *ServiceLogger) WithRun(runID string) *ServiceLogger {
	nl := l.clone()
	nl.runID = runID
	return nl
}

// WithContext adds a key/value attribute attached to every entry.
func (l *ServiceLogger) WithContext(key string, value any) *ServiceLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

func (l *ServiceLogger) args(extra ...any) []any {
	out := make([]any, 0, len(extra)+6+2*len(l.context))
	if l.component != "" {
		out = append(out, "component", l.component)
	}
	if l.runID != "" {
		out = append(out, "run_id", l.runID)
	}
	keys := make([]string, 0, len(l.context))
	for k := range l.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k, l.context[k])
	}
	return append(out, extra...)
}

// Debug logs at debug level.
func (l *ServiceLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.args(args...)...) }

// Info logs at info level.
func (l *ServiceLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.args(args...)...) }

// Warn logs at warning level.
func (l *ServiceLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.args(args...)...) }

// Error logs at error level.
func (l *ServiceLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.args(args...)...) }

// LogActionRun records execution details for one whitelisted action run.
func (l *ServiceLogger) LogActionRun(action string, dur time.Duration, err error) {
	args := l.args("action", action, "duration", dur, "success", err == nil)
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.Error("Action run failed", args...)
		return
	}
	l.logger.Info("Action run completed", args...)
}

// LogReconciliation records the outcome of a payment reconciliation analysis.
func (l *ServiceLogger) LogReconciliation(paymentReference, status string, dur time.Duration, err error) {
	args := l.args("payment_reference", paymentReference, "status", status, "duration", dur)
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.Error("Reconciliation failed", args...)
		return
	}
	l.logger.Info(fmt.Sprintf("Reconciliation completed with status %s", status), args...)
}

// StartTimer returns a closure that logs the elapsed duration when invoked.
func (l *ServiceLogger) StartTimer(op string) func() {
	start := time.Now()
	return func() {
		l.Info("Operation completed", "operation", op, "duration", time.Since(start))
	}
}
