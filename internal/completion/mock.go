package completion

import (
	"context"
	"fmt"
	"strings"
)

type Topic string

const (
	TopicIdea       Topic = "idea"
	TopicPricing    Topic = "pricing"
	TopicValidation Topic = "validation"
	TopicEcho       Topic = "echo"
)

// Checked in order; the first match wins, so "idea" beats "price".
var topicKeywords = []struct {
	needle string
	topic  Topic
}{
	{"idea", TopicIdea},
	{"price", TopicPricing},
	{"validate", TopicValidation},
}

var cannedReplies = map[Topic]string{
	TopicIdea:       "🧠 Let’s turn that idea into something the world needs.",
	TopicPricing:    "💸 Let’s brainstorm a Good / Better / Best pricing tier.",
	TopicValidation: "✅ We can design a quick landing page and 3 social posts to test your idea.",
}

// Classify picks the canned topic for a query by case-insensitive substring match.
func Classify(query string) Topic {
	q := strings.ToLower(query)
	for _, k := range topicKeywords {
		if strings.Contains(q, k.needle) {
			return k.topic
		}
	}
	return TopicEcho
}

// MockReply returns the canned reply for a query.
func MockReply(query string) string {
	if r, ok := cannedReplies[Classify(query)]; ok {
		return r
	}
	return fmt.Sprintf("🤖 [Mock Reply] You said: \"%s\". Let's build your digital product together!", query)
}

// MockProvider answers from canned replies and never fails.
type MockProvider struct{}

func (MockProvider) Complete(_ context.Context, msgs []Message) (Message, error) {
	return Message{Role: RoleAssistant, Content: MockReply(LastUserContent(msgs))}, nil
}
