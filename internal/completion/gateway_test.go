package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{ calls int }

func (f *failingProvider) Complete(context.Context, []Message) (Message, error) {
	f.calls++
	return Message{}, errors.New("connection refused")
}

func userMsgs(q string) []Message {
	return []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: q}}
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		query string
		want  Topic
	}{
		{"What's the price of this idea?", TopicIdea},
		{"PRICE check", TopicPricing},
		{"how do I Validate this", TopicValidation},
		{"the price to validate", TopicPricing},
		{"Hello world", TopicEcho},
		{"", TopicEcho},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestMockEchoKeepsQueryVerbatim(t *testing.T) {
	assert.Contains(t, MockReply("Hello world"), "Hello world")
	assert.Equal(t, `🤖 [Mock Reply] You said: "". Let's build your digital product together!`, MockReply(""))
}

func TestMockReplyIsDeterministic(t *testing.T) {
	g := New(Options{Mock: true})
	first := g.GenerateReply(context.Background(), userMsgs("tell me about pricing and price"))
	for i := 0; i < 5; i++ {
		again := g.GenerateReply(context.Background(), userMsgs("tell me about pricing and price"))
		require.True(t, again.OK())
		assert.Equal(t, first.Reply.Content, again.Reply.Content)
	}
	assert.Equal(t, RoleAssistant, first.Reply.Role)
}

func TestMockUsesMostRecentUserMessage(t *testing.T) {
	g := New(Options{Mock: true})
	msgs := []Message{
		{Role: RoleUser, Content: "an idea"},
		{Role: RoleAssistant, Content: "price"},
		{Role: RoleUser, Content: "please validate"},
		{Role: RoleSystem, Content: "idea"},
	}
	res := g.GenerateReply(context.Background(), msgs)
	require.True(t, res.OK())
	assert.Equal(t, cannedReplies[TopicValidation], res.Reply.Content)
}

func TestMockWithoutUserMessageEchoesEmpty(t *testing.T) {
	g := New(Options{Mock: true})
	res := g.GenerateReply(context.Background(), []Message{{Role: RoleSystem, Content: "idea price"}})
	require.True(t, res.OK())
	assert.Equal(t, MockReply(""), res.Reply.Content)
}

func TestMockModeIgnoresLiveProvider(t *testing.T) {
	live := &failingProvider{}
	g := New(Options{Mock: true, Live: live})
	assert.Equal(t, ModeMock, g.Mode())
	res := g.GenerateReply(context.Background(), userMsgs("Hello world"))
	assert.True(t, res.OK())
	assert.Zero(t, live.calls)
}

func TestLiveWithoutProviderFails(t *testing.T) {
	g := New(Options{})
	assert.Equal(t, ModeLive, g.Mode())
	res := g.GenerateReply(context.Background(), userMsgs("idea"))
	assert.False(t, res.OK())
	assert.Equal(t, ErrGenerateFailed, res.Err)
}

func TestLiveCallHasNoDeadlineByDefault(t *testing.T) {
	var hasDeadline bool
	g := New(Options{Live: providerFunc(func(ctx context.Context, _ []Message) (Message, error) {
		_, hasDeadline = ctx.Deadline()
		return Message{Role: RoleAssistant, Content: "ok"}, nil
	})})
	require.True(t, g.GenerateReply(context.Background(), userMsgs("hi")).OK())
	assert.False(t, hasDeadline)

	g = New(Options{Timeout: time.Minute, Live: providerFunc(func(ctx context.Context, _ []Message) (Message, error) {
		_, hasDeadline = ctx.Deadline()
		return Message{Role: RoleAssistant, Content: "ok"}, nil
	})})
	require.True(t, g.GenerateReply(context.Background(), userMsgs("hi")).OK())
	assert.True(t, hasDeadline)
}

type providerFunc func(ctx context.Context, msgs []Message) (Message, error)

func (f providerFunc) Complete(ctx context.Context, msgs []Message) (Message, error) {
	return f(ctx, msgs)
}

func TestLiveFailureBecomesErrorResult(t *testing.T) {
	live := &failingProvider{}
	g := New(Options{Live: live})
	assert.Equal(t, ModeLive, g.Mode())

	res := g.GenerateReply(context.Background(), userMsgs("idea"))
	assert.False(t, res.OK())
	assert.Nil(t, res.Reply)
	assert.Equal(t, "Failed to generate reply", res.Err)
	assert.Equal(t, 1, live.calls, "no retry")
}

func TestOpenAIProviderForwardsMessages(t *testing.T) {
	var got struct {
		Model       string    `json:"model"`
		Temperature float32   `json:"temperature"`
		Messages    []Message `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-3.5-turbo-0125",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Try three tiers."}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "gpt-3.5-turbo-0125", Temperature: 0.7})
	g := New(Options{Live: p})
	msgs := userMsgs(`{"product_type":"app"}`)

	res := g.GenerateReply(context.Background(), msgs)
	require.True(t, res.OK())
	assert.Equal(t, "Try three tiers.", res.Reply.Content)
	assert.Equal(t, "gpt-3.5-turbo-0125", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 1e-6)
	assert.Equal(t, msgs, got.Messages)
}

func TestOpenAIProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`},
		{"quota", http.StatusTooManyRequests, `{"error": {"message": "quota exceeded", "type": "insufficient_quota"}}`},
		{"no choices", http.StatusOK, `{"id": "x", "choices": []}`},
		{"malformed", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := New(Options{Live: NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL + "/v1", Model: "m"})})
			res := g.GenerateReply(context.Background(), userMsgs("hi"))
			assert.False(t, res.OK())
			assert.Equal(t, ErrGenerateFailed, res.Err)
		})
	}
}

func TestLastUserContent(t *testing.T) {
	assert.Equal(t, "", LastUserContent(nil))
	assert.Equal(t, "b", LastUserContent([]Message{{Role: RoleUser, Content: "a"}, {Role: RoleUser, Content: "b"}, {Role: RoleAssistant, Content: "c"}}))
}
