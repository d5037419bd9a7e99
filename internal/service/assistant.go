package service

import (
	"context"
	"strings"
	"time"

	"go-therapy-platform/internal/analysis/sentiment"
	"go-therapy-platform/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "Você é um terapeuta virtual empático que ajuda o usuário com saúde mental, " +
	"respondendo de forma acolhedora, respeitosa e leve. " +
	"Foque em escutar e apoiar emocionalmente, sem julgamentos."

// Assistant produces the chat reply for a user message. It never fails:
// any provider problem degrades to the keyword fallback responder.
type Assistant interface {
	Reply(ctx context.Context, message string) (reply string, fromModel bool)
}

type assistant struct {
	chatModel model.BaseChatModel
	log       *logrus.Logger
	metrics   *metrics.Metrics
}

// NewAssistant accepts a nil chat model, in which case every reply comes
// from the fallback responder.
func NewAssistant(chatModel model.BaseChatModel, log *logrus.Logger, m *metrics.Metrics) Assistant {
	return &assistant{
		chatModel: chatModel,
		log:       log,
		metrics:   m,
	}
}

func (a *assistant) Reply(ctx context.Context, message string) (string, bool) {
	if a.chatModel == nil {
		a.observe(metrics.CompletionFallback, 0)
		return sentiment.FallbackReply(message), false
	}

	input := []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(message),
	}

	start := time.Now()
	out, err := a.chatModel.Generate(ctx, input)
	elapsed := time.Since(start)

	if err != nil {
		a.log.Warnf("Failed to get chat completion, using fallback: %+v", err)
		a.observe(metrics.CompletionFallback, elapsed)
		return sentiment.FallbackReply(message), false
	}

	reply := ""
	if out != nil {
		reply = strings.TrimSpace(out.Content)
	}
	if reply == "" {
		a.log.Warn("Chat completion returned empty content, using fallback")
		a.observe(metrics.CompletionFallback, elapsed)
		return sentiment.FallbackReply(message), false
	}

	a.observe(metrics.CompletionSuccess, elapsed)
	return reply, true
}

func (a *assistant) observe(outcome string, elapsed time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.ChatCompletions.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		a.metrics.ChatLatency.Observe(elapsed.Seconds())
	}
}
