package callback

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(debug bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLogger(zap.New(core), debug), logs
}

func TestLogger_StartEnd(t *testing.T) {
	l, logs := newObserved(true)
	info := &callbacks.RunInfo{Name: "reply", Type: "OpenAI", Component: components.ComponentOfChatModel}

	ctx := l.OnStart(context.Background(), info, &model.CallbackInput{
		Messages: []*schema.Message{schema.UserMessage("hi")},
	})
	l.OnEnd(ctx, info, &model.CallbackOutput{
		Message:    &schema.Message{Role: schema.Assistant, Content: "hello"},
		TokenUsage: &model.TokenUsage{PromptTokens: 3, CompletionTokens: 2},
	})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "Component started", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["messages"])

	end := entries[1].ContextMap()
	assert.Equal(t, "Component finished", entries[1].Message)
	assert.Equal(t, "reply", end["name"])
	assert.Equal(t, int64(5), end["response_length"])
	assert.Equal(t, int64(3), end["prompt_tokens"])
}

func TestLogger_DebugDisabledSkipsStart(t *testing.T) {
	l, logs := newObserved(false)
	info := &callbacks.RunInfo{Name: "nudge"}

	ctx := l.OnStart(context.Background(), info, nil)
	l.OnError(ctx, info, errors.New("quota exceeded"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "quota exceeded", entries[0].ContextMap()["error"])
}
