package service

import (
	"context"
	"errors"
	"testing"

	"go-therapy-platform/internal/analysis/sentiment"
	"go-therapy-platform/internal/testutil"
	"go-therapy-platform/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatModel struct {
	reply string
	err   error
	input []*schema.Message
}

func (s *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestAssistantReply_UsesModel(t *testing.T) {
	m := metrics.NewMetrics("test")
	stub := &stubChatModel{reply: " Estou aqui para ouvir você. "}
	a := NewAssistant(stub, testutil.NewLogger(), m)

	reply, fromModel := a.Reply(context.Background(), "Estou triste")

	assert.True(t, fromModel)
	assert.Equal(t, "Estou aqui para ouvir você.", reply)
	require.Len(t, stub.input, 2)
	assert.Equal(t, schema.System, stub.input[0].Role)
	assert.Equal(t, SystemPrompt, stub.input[0].Content)
	assert.Equal(t, schema.User, stub.input[1].Role)
	assert.Equal(t, "Estou triste", stub.input[1].Content)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.ChatCompletions.WithLabelValues(metrics.CompletionSuccess)))
}

func TestAssistantReply_FallbackOnError(t *testing.T) {
	m := metrics.NewMetrics("test")
	a := NewAssistant(&stubChatModel{err: errors.New("status 500")}, testutil.NewLogger(), m)

	reply, fromModel := a.Reply(context.Background(), "Oi")

	assert.False(t, fromModel)
	assert.Equal(t, sentiment.ReplyGreeting, reply)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.ChatCompletions.WithLabelValues(metrics.CompletionFallback)))
}

func TestAssistantReply_FallbackOnEmptyContent(t *testing.T) {
	a := NewAssistant(&stubChatModel{reply: "   "}, testutil.NewLogger(), nil)

	reply, fromModel := a.Reply(context.Background(), "quero um exercício de respiração")

	assert.False(t, fromModel)
	assert.Equal(t, sentiment.ReplyBreathing, reply)
}

func TestAssistantReply_NilModel(t *testing.T) {
	a := NewAssistant(nil, testutil.NewLogger(), nil)

	reply, fromModel := a.Reply(context.Background(), "xyz")

	assert.False(t, fromModel)
	assert.Equal(t, sentiment.ReplyRephrase, reply)
}
