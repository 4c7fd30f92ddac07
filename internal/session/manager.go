// ABOUTME: Session manager owning per-user in-progress entry sessions.
// ABOUTME: Serializes transitions per user and commits closed sessions to storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harperreed/rowlog/internal/models"
	"github.com/harperreed/rowlog/internal/protocol"
	"github.com/harperreed/rowlog/internal/storage"
)

// ErrNoSession is returned by Close when the user has no closable session.
var ErrNoSession = errors.New("no active session")

// Reply is the outcome of a conversation transition: the text to show the
// user and the state the conversation is now in.
type Reply struct {
	Text  string
	State protocol.State
}

// Manager holds the in-memory session map. Transitions for one user are
// serialized on a per-user lock; different users proceed concurrently.
// Sessions are volatile: a restart drops anything not yet closed.
type Manager struct {
	store storage.Store

	mu    sync.Mutex
	users map[int64]*userState
}

type userState struct {
	mu      sync.Mutex
	session *models.Session // nil when no session is active
}

// NewManager creates a Manager committing closed sessions to the given store.
func NewManager(store storage.Store) *Manager {
	return &Manager{
		store: store,
		users: make(map[int64]*userState),
	}
}

// user returns the per-user state, creating it on first sight.
func (m *Manager) user(id int64) *userState {
	m.mu.Lock()
	defer m.mu.Unlock()
	us, ok := m.users[id]
	if !ok {
		us = &userState{}
		m.users[id] = us
	}
	return us
}

// Begin starts a fresh session for the user, discarding any existing one.
func (m *Manager) Begin(userID int64) Reply {
	us := m.user(userID)
	us.mu.Lock()
	defer us.mu.Unlock()

	us.session = models.NewSession(userID)
	return Reply{Text: protocol.PromptDate, State: protocol.StateAwaitingDate}
}

// Advance routes free text through the conversation state machine.
// Safe to call with no session in progress. Malformed input never mutates
// the session: prior entries survive, the state does not move.
func (m *Manager) Advance(userID int64, text string) Reply {
	us := m.user(userID)
	us.mu.Lock()
	defer us.mu.Unlock()

	s := us.session
	switch {
	case s == nil:
		return Reply{Text: protocol.MsgNoSession, State: protocol.StateNone}

	case !s.HasDate():
		date, err := protocol.ParseDate(text)
		if err != nil {
			return Reply{Text: protocol.MsgBadDate, State: protocol.StateAwaitingDate}
		}
		s.Date = date
		return Reply{Text: protocol.MsgDateRecorded, State: protocol.StateAwaitingEntries}

	default:
		entry, err := protocol.ParseEntry(text)
		if err != nil {
			return Reply{
				Text:  fmt.Sprintf("Error parsing entry: %v.\nEnsure the format is:\nDistance, Time(mm:ss), Pairs, Stroke Count, Stroke Rate, Remarks", err),
				State: protocol.StateAwaitingEntries,
			}
		}
		s.AddEntry(entry)
		return Reply{Text: protocol.MsgEntryAdded, State: protocol.StateAwaitingEntries}
	}
}

// Close commits every accumulated entry as one batch and removes the
// session. Returns ErrNoSession when there is nothing to close (no session,
// or no date recorded yet). On a storage failure the session is kept intact
// so the user can retry.
func (m *Manager) Close(ctx context.Context, userID int64) (int, error) {
	us := m.user(userID)
	us.mu.Lock()
	defer us.mu.Unlock()

	s := us.session
	if s == nil || !s.HasDate() {
		return 0, ErrNoSession
	}

	n, err := m.store.AppendRecords(ctx, s.Date, s.Entries)
	if err != nil {
		return 0, fmt.Errorf("save session: %w", err)
	}

	us.session = nil
	return n, nil
}

// State reports the user's current conversation state.
func (m *Manager) State(userID int64) protocol.State {
	us := m.user(userID)
	us.mu.Lock()
	defer us.mu.Unlock()

	switch {
	case us.session == nil:
		return protocol.StateNone
	case !us.session.HasDate():
		return protocol.StateAwaitingDate
	default:
		return protocol.StateAwaitingEntries
	}
}
