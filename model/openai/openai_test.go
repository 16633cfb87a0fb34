package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"

	"github.com/finvex/remitagent/model"
)

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel()
	assert.Equal(t, openai.ChatModelGPT4o, m.opts.Model)
	assert.Equal(t, 0.2, m.opts.Temperature)
	assert.Equal(t, int64(4096), m.opts.MaxCompletionTokens)
	assert.Equal(t, model.Info{Name: openai.ChatModelGPT4o, Provider: "openai"}, m.Info())
}

func TestNewModel_Overrides(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gpt-4o-mini"
		o.MaxCompletionTokens = 1024
	})
	assert.Equal(t, "gpt-4o-mini", m.Info().Name)
	assert.Equal(t, int64(1024), m.opts.MaxCompletionTokens)
}

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		Instructions: "You reconcile remittance documents.",
		Messages: []model.Message{
			{Role: "user", Text: "analyze PMT-1001"},
			{Role: "assistant", Text: "working on it"},
			{Role: "user", Text: ""},
		},
	}

	msgs := buildMessages(req)
	// System prompt plus the two non-empty turns.
	assert.Len(t, msgs, 3)
}

func TestBuildMessages_NoInstructions(t *testing.T) {
	msgs := buildMessages(model.Request{
		Messages: []model.Message{{Role: "user", Text: "hello"}},
	})
	assert.Len(t, msgs, 1)
}
