package completion

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrGenerateFailed is the only error text a caller ever sees from the gateway.
const ErrGenerateFailed = "Failed to generate reply"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is either a reply or an error message, never both.
type Result struct {
	Reply *Message
	Err   string
}

func (r Result) OK() bool { return r.Reply != nil }

func replyResult(content string) Result {
	return Result{Reply: &Message{Role: RoleAssistant, Content: content}}
}

func errorResult() Result {
	return Result{Err: ErrGenerateFailed}
}

// LastUserContent returns the content of the most recent user message, or "".
func LastUserContent(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
