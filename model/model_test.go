package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_ReplaysResponsesInOrder(t *testing.T) {
	m := NewMockModel("test-model", "first", "second")

	resp, err := m.Complete(context.Background(), Request{
		Instructions: "You reconcile remittance documents.",
		Messages:     []Message{{Role: "user", Text: "analyze PMT-1001"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	_, err = m.Complete(context.Background(), Request{})
	assert.ErrorContains(t, err, `mock model "test-model" has no responses left`)
}

func TestMockModel_RecordsCalls(t *testing.T) {
	m := NewMockModel("test-model", "ok")
	_, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "hello", calls[0].Messages[0].Text)
}

func TestMockModel_FailWith(t *testing.T) {
	wantErr := errors.New("provider unavailable")
	m := NewMockModel("test-model", "never returned").FailWith(wantErr)

	_, err := m.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, wantErr)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model")
	assert.Equal(t, Info{Name: "test-model", Provider: "mock"}, m.Info())
}
