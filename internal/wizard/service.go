package wizard

import (
	"context"
	"fmt"

	"idea-builder-backend/internal/completion"
	"idea-builder-backend/internal/logger"
	"idea-builder-backend/internal/steps"
)

// NoReplyText is shown when a submission yields no reply content.
const NoReplyText = "No reply received."

// Replier is the completion gateway as seen by the wizard. It is satisfied by
// *completion.Gateway in-process and by chatclient.Client over HTTP.
type Replier interface {
	GenerateReply(ctx context.Context, msgs []completion.Message) completion.Result
}

type Service struct {
	store    *Store
	registry *steps.Registry
	replier  Replier
	log      *logger.Logger
}

func NewService(store *Store, registry *steps.Registry, replier Replier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{store: store, registry: registry, replier: replier, log: log}
}

func (s *Service) Store() *Store { return s.store }

// SelectStep makes name the active step of the session.
func (s *Service) SelectStep(sessionID, name string) (Session, error) {
	sess, err := s.store.SelectStep(sessionID, name)
	if err != nil {
		return sess, fmt.Errorf("select step %q: %w", name, err)
	}
	s.log.Debug("step selected", "session_id", sessionID, "step", name)
	return sess, nil
}

// Submit sends the active step's form to the gateway and stores the reply text.
// The gateway call is detached from ctx cancellation: a reply that arrives
// after the caller went away is still stored.
func (s *Service) Submit(ctx context.Context, sessionID string, values map[string]string) (out Session, err error) {
	ticket, sess, err := s.store.BeginSubmit(sessionID, values)
	if err != nil {
		return sess, fmt.Errorf("submit: %w", err)
	}
	reply := NoReplyText
	defer func() {
		out = s.store.FinishSubmit(sessionID, ticket, reply)
	}()

	step, _ := s.registry.Lookup(string(ticket.Step))
	msgs, err := BuildMessages(step, sess.Form)
	if err != nil {
		return sess, fmt.Errorf("build messages: %w", err)
	}
	res := s.replier.GenerateReply(context.WithoutCancel(ctx), msgs)
	if !res.OK() {
		s.log.Warn("submission got no reply", "session_id", sessionID, "step", ticket.Step, "error", res.Err)
	}
	reply = ReplyText(res)
	return sess, nil
}

// ReplyText is the text the wizard displays for a gateway result.
func ReplyText(res completion.Result) string {
	if res.Reply == nil || res.Reply.Content == "" {
		return NoReplyText
	}
	return res.Reply.Content
}
