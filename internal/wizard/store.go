package wizard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"idea-builder-backend/internal/steps"
)

var (
	ErrUnknownStep  = errors.New("unknown step")
	ErrNoActiveStep = errors.New("no active step")
	ErrBusy         = errors.New("a submission is already in flight")
)

const sweepInterval = time.Minute

// Session is a snapshot of one browser's wizard state. ActiveStep is empty
// until the user picks a step.
type Session struct {
	ActiveStep steps.Name
	Form       map[string]string
	Reply      string
	HasReply   bool
	Loading    bool
	UpdatedAt  time.Time
}

// Ticket identifies one in-flight submission.
type Ticket struct {
	Step steps.Name
	gen  uint64
}

type entry struct {
	Session
	// bumped on every step change so late replies for an old step are dropped
	gen uint64
}

// Store keeps wizard sessions in memory only; idle sessions are evicted after ttl.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	registry  *steps.Registry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewStore(registry *steps.Registry, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		registry: registry,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session, or an empty one if the id is unknown.
func (s *Store) Get(sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return Session{Form: map[string]string{}}
	}
	return e.snapshot()
}

// SelectStep activates a step, clearing the form and any reply.
func (s *Store) SelectStep(sessionID, name string) (Session, error) {
	if _, ok := s.registry.Lookup(name); !ok {
		return Session{}, ErrUnknownStep
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(sessionID)
	e.ActiveStep = steps.Name(name)
	e.Form = map[string]string{}
	e.Reply = ""
	e.HasReply = false
	e.gen++
	return e.snapshot(), nil
}

// BeginSubmit records the submitted values and marks the session as loading.
// Only keys of the active step's fields with non-blank values are kept.
func (s *Store) BeginSubmit(sessionID string, values map[string]string) (Ticket, Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(sessionID)
	if e.ActiveStep == "" {
		return Ticket{}, e.snapshot(), ErrNoActiveStep
	}
	if e.Loading {
		return Ticket{}, e.snapshot(), ErrBusy
	}
	form := make(map[string]string, len(values))
	for k, v := range values {
		if strings.TrimSpace(v) == "" || !s.registry.Has(string(e.ActiveStep), k) {
			continue
		}
		form[k] = v
	}
	e.Form = form
	e.Loading = true
	return Ticket{Step: e.ActiveStep, gen: e.gen}, e.snapshot(), nil
}

// FinishSubmit clears the loading flag and stores the reply, unless the user
// switched steps while the request was in flight.
func (s *Store) FinishSubmit(sessionID string, t Ticket, reply string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(sessionID)
	e.Loading = false
	if e.gen == t.gen && e.ActiveStep == t.Step {
		e.Reply = reply
		e.HasReply = true
	}
	return e.snapshot()
}

// Reset forgets the session entirely.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) entryLocked(sessionID string) *entry {
	now := s.now()
	s.sweepLocked(now)
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{Session: Session{Form: map[string]string{}}}
		s.sessions[sessionID] = e
	}
	e.UpdatedAt = now
	return e
}

func (s *Store) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, e := range s.sessions {
		if !e.Loading && now.Sub(e.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (e *entry) snapshot() Session {
	out := e.Session
	out.Form = make(map[string]string, len(e.Form))
	for k, v := range e.Form {
		out.Form[k] = v
	}
	return out
}
