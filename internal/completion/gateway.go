// Package completion turns a chat transcript into a single assistant reply,
// either from canned mock replies or from a live chat completion provider.
package completion

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"idea-builder-backend/internal/logger"
)

const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Provider produces the assistant message for a transcript.
type Provider interface {
	Complete(ctx context.Context, msgs []Message) (Message, error)
}

type Options struct {
	// Mock selects canned replies; Live is ignored when set.
	Mock bool
	// Live answers in live mode. A nil Live fails every call.
	Live   Provider
	Logger *logger.Logger
	// Timeout bounds a live call; zero means no deadline.
	Timeout time.Duration
}

var errNoLiveProvider = errors.New("no live provider configured")

type unconfiguredProvider struct{}

func (unconfiguredProvider) Complete(context.Context, []Message) (Message, error) {
	return Message{}, errNoLiveProvider
}

// Gateway is stateless between calls and safe for concurrent use.
type Gateway struct {
	mode     string
	provider Provider
	log      *logger.Logger
	timeout  time.Duration
}

func New(opts Options) *Gateway {
	g := &Gateway{mode: ModeLive, provider: opts.Live, log: opts.Logger, timeout: opts.Timeout}
	switch {
	case opts.Mock:
		g.mode = ModeMock
		g.provider = MockProvider{}
	case opts.Live == nil:
		g.provider = unconfiguredProvider{}
	}
	if g.log == nil {
		g.log = logger.NewNop()
	}
	return g
}

func (g *Gateway) Mode() string { return g.mode }

// GenerateReply never returns a Go error: provider failures are logged and
// reported as ErrGenerateFailed in the result.
func (g *Gateway) GenerateReply(ctx context.Context, msgs []Message) Result {
	ctx, span := otel.Tracer("idea-builder/completion").Start(ctx, "completion.GenerateReply",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("mode", g.mode), attribute.Int("messages", len(msgs))),
	)
	defer span.End()

	if g.timeout > 0 && g.mode == ModeLive {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.provider.Complete(ctx, msgs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		g.log.Error("chat completion failed", "mode", g.mode, "error", err, "elapsed", time.Since(start))
		return errorResult()
	}
	g.log.Debug("chat completion ok", "mode", g.mode, "elapsed", time.Since(start), "chars", len(reply.Content))
	return replyResult(reply.Content)
}
