package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCapturedLogger(name string, buf *bytes.Buffer) Logger {
	h := NewLineHandler(buf, func(o *LineHandlerOptions) {
		o.Name = name
		o.Format = ParseLineFormat("%(name)s - %(levelname)s - %(message)s")
	})
	return NewLineLogger(LevelDebug, h)
}

func TestRegistry_GetFallsBackThroughHierarchy(t *testing.T) {
	var rootBuf, ledgerBuf bytes.Buffer
	r := NewRegistry(newCapturedLogger("root", &rootBuf))
	r.Register("reconciliation_ledger", newCapturedLogger("reconciliation_ledger", &ledgerBuf))

	// Exact match.
	r.Get("reconciliation_ledger").Info("direct")
	// Dotted child falls back to the nearest registered ancestor.
	r.Get("reconciliation_ledger.services.payment").Info("inherited")
	// Unrelated name falls back to root.
	r.Get("document_extraction").Info("rooted")

	assert.Contains(t, ledgerBuf.String(), "direct")
	assert.Contains(t, ledgerBuf.String(), "inherited")
	assert.Contains(t, rootBuf.String(), "rooted")
	assert.NotContains(t, rootBuf.String(), "inherited")
}

func TestRegistry_RegisterRoot(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(nil)
	r.Register("root", newCapturedLogger("root", &buf))

	r.Root().Info("hello")
	assert.Contains(t, buf.String(), "root - INFO - hello")
	assert.Empty(t, r.Names())
}

func TestRegistry_NilRootIsNoOp(t *testing.T) {
	r := NewRegistry(nil)
	// Must not panic.
	r.Get("anything").Error("dropped")
}

type recordingCloser struct {
	closed bool
	err    error
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return c.err
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry(nil)
	first := &recordingCloser{err: errors.New("close failed")}
	second := &recordingCloser{}
	r.AddCloser(first)
	r.AddCloser(second)

	err := r.Close()
	assert.EqualError(t, err, "close failed")
	assert.True(t, first.closed)
	assert.True(t, second.closed)

	// Closers are released after the first Close.
	assert.NoError(t, r.Close())
}
