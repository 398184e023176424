package memory

import (
	"fmt"
	"sync"
	"time"

	"marketlens/internal/model"
)

const maxTurns = 100

// Store holds per-session conversation state: chat history, a long-term
// memory summary, and the session's current business-profile snapshot.
// Sessions are created lazily on first access and live for the life of the
// process; eviction is owned by the surrounding application.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu            sync.Mutex
	turns         []model.Turn
	longTermMem   string
	snapshot      map[string]any
	lastExtracted map[string]any
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

func (s *Store) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

func (s *Store) ChatHistory(sessionID string) []model.Turn {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]model.Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

func (s *Store) LongTermMemory(sessionID string) string {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.longTermMem
}

// UpdateLongTermMemoryWithPrompt records the latest exchange as the session's
// long-term memory summary.
func (s *Store) UpdateLongTermMemoryWithPrompt(sessionID, prompt, response string) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.longTermMem = fmt.Sprintf(
		"Last prompt: %s\nLast response: %s\nUpdated: %s",
		prompt, response, time.Now().Format(time.RFC3339),
	)
}

func (s *Store) AppendUserTurn(sessionID, text string) {
	s.appendTurn(sessionID, model.Turn{Role: model.RoleUser, Content: text, At: time.Now()})
}

func (s *Store) AppendAITurn(sessionID, text string) {
	s.appendTurn(sessionID, model.Turn{Role: model.RoleAssistant, Content: text, At: time.Now()})
}

func (s *Store) appendTurn(sessionID string, turn model.Turn) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.turns = append(sess.turns, turn)
	if len(sess.turns) > maxTurns {
		sess.turns = sess.turns[len(sess.turns)-maxTurns:]
	}
}

// ReconcileSnapshot runs merge against the session's stored profile snapshot
// and installs its result as the new snapshot. The session lock is held for
// the whole read-merge-write, so concurrent reconciliations for the same
// session cannot lose fields to each other.
func (s *Store) ReconcileSnapshot(sessionID string, merge func(stored map[string]any) map[string]any) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	stored := make(map[string]any, len(sess.snapshot))
	for k, v := range sess.snapshot {
		stored[k] = v
	}
	sess.snapshot = merge(stored)
}

// Snapshot returns a copy of the session's current profile snapshot.
func (s *Store) Snapshot(sessionID string) map[string]any {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make(map[string]any, len(sess.snapshot))
	for k, v := range sess.snapshot {
		out[k] = v
	}
	return out
}

// LastExtracted returns the field set produced by the session's most recent
// extraction, used by the confirmation flow to diff newly provided fields.
func (s *Store) LastExtracted(sessionID string) map[string]any {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.lastExtracted == nil {
		return nil
	}
	out := make(map[string]any, len(sess.lastExtracted))
	for k, v := range sess.lastExtracted {
		out[k] = v
	}
	return out
}

func (s *Store) SetLastExtracted(sessionID string, fields map[string]any) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	sess.lastExtracted = copied
}
