// ABOUTME: Tests for the session manager state machine.
// ABOUTME: Covers the full start/date/entry/close flow and failure recovery.
package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/harperreed/rowlog/internal/models"
	"github.com/harperreed/rowlog/internal/protocol"
	"github.com/harperreed/rowlog/internal/storage"
)

func setupManager(t *testing.T) (*Manager, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "rowlog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewManager(db), db
}

func TestBeginThenDate(t *testing.T) {
	m, _ := setupManager(t)

	r := m.Begin(1)
	if r.State != protocol.StateAwaitingDate {
		t.Errorf("Begin state = %v, want awaiting_date", r.State)
	}
	if r.Text != protocol.PromptDate {
		t.Errorf("Begin reply = %q, want the date prompt", r.Text)
	}

	r = m.Advance(1, "25/12/2024")
	if r.State != protocol.StateAwaitingEntries {
		t.Errorf("Advance state = %v, want awaiting_entries", r.State)
	}
	if r.Text != protocol.MsgDateRecorded {
		t.Errorf("Advance reply = %q, want date-recorded confirmation", r.Text)
	}

	if got := m.user(1).session.Date; got != "25/12/2024" {
		t.Errorf("session date = %q, want 25/12/2024", got)
	}
}

func TestBadDateKeepsState(t *testing.T) {
	m, _ := setupManager(t)
	m.Begin(1)

	r := m.Advance(1, "not a date")
	if r.State != protocol.StateAwaitingDate {
		t.Errorf("state = %v, want still awaiting_date", r.State)
	}
	if r.Text != protocol.MsgBadDate {
		t.Errorf("reply = %q, want bad-date message", r.Text)
	}
	if m.user(1).session.HasDate() {
		t.Error("session date should not be set after a bad date")
	}
}

func TestEntriesAccumulate(t *testing.T) {
	m, _ := setupManager(t)
	m.Begin(1)
	m.Advance(1, "25/12/2024")

	r := m.Advance(1, "1000, 4:00, 10, 260, 72, down")
	if r.Text != protocol.MsgEntryAdded {
		t.Errorf("reply = %q, want entry-added message", r.Text)
	}
	m.Advance(1, "1000, 4:00, 10, 260, 72")

	entries := m.user(1).session.Entries
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Remarks != "down" {
		t.Errorf("first remark = %q, want down", entries[0].Remarks)
	}
	if entries[1].Remarks != models.NoRemark {
		t.Errorf("second remark = %q, want NIL", entries[1].Remarks)
	}
}

func TestMalformedEntryPreservesPriorEntries(t *testing.T) {
	m, _ := setupManager(t)
	m.Begin(1)
	m.Advance(1, "25/12/2024")
	m.Advance(1, "1000, 4:00, 10, 260, 72")

	r := m.Advance(1, "garbage line")
	if r.State != protocol.StateAwaitingEntries {
		t.Errorf("state = %v, want still awaiting_entries", r.State)
	}
	if r.Text == protocol.MsgEntryAdded {
		t.Error("malformed entry reported as added")
	}

	if got := len(m.user(1).session.Entries); got != 1 {
		t.Errorf("entries = %d, want 1 (bad line discarded, prior kept)", got)
	}
}

func TestAdvanceWithoutSession(t *testing.T) {
	m, _ := setupManager(t)

	r := m.Advance(99, "25/12/2024")
	if r.State != protocol.StateNone {
		t.Errorf("state = %v, want none", r.State)
	}
	if r.Text != protocol.MsgNoSession {
		t.Errorf("reply = %q, want no-session message", r.Text)
	}
}

func TestBeginDiscardsExistingSession(t *testing.T) {
	m, _ := setupManager(t)
	m.Begin(1)
	m.Advance(1, "25/12/2024")
	m.Advance(1, "1000, 4:00, 10, 260, 72")

	r := m.Begin(1)
	if r.State != protocol.StateAwaitingDate {
		t.Errorf("state = %v, want awaiting_date after restart", r.State)
	}
	s := m.user(1).session
	if s.HasDate() || len(s.Entries) != 0 {
		t.Error("Begin should discard the previous session entirely")
	}
}

func TestCloseCommitsAndClears(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()

	m.Begin(1)
	m.Advance(1, "25/12/2024")
	m.Advance(1, "1000, 4:00, 10, 260, 72, down")
	m.Advance(1, "2000, 8:30, 10, 520, 70")

	n, err := m.Close(ctx, 1)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Close = %d, want 2", n)
	}

	records, err := db.FetchUnsynced(ctx)
	if err != nil {
		t.Fatalf("FetchUnsynced failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("store has %d unsynced records, want 2", len(records))
	}
	for _, r := range records {
		if r.Date != "25/12/2024" {
			t.Errorf("record date = %q, want the session date", r.Date)
		}
		if r.Uploaded {
			t.Error("fresh record should not be uploaded")
		}
	}

	// Second close: session is gone
	if _, err := m.Close(ctx, 1); !errors.Is(err, ErrNoSession) {
		t.Errorf("second Close err = %v, want ErrNoSession", err)
	}
	if m.State(1) != protocol.StateNone {
		t.Errorf("state after close = %v, want none", m.State(1))
	}
}

func TestCloseWithoutDateIsNoOp(t *testing.T) {
	m, _ := setupManager(t)
	m.Begin(1)

	if _, err := m.Close(context.Background(), 1); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Close err = %v, want ErrNoSession", err)
	}

	// The session is untouched: the date can still be recorded
	r := m.Advance(1, "25/12/2024")
	if r.State != protocol.StateAwaitingEntries {
		t.Errorf("state = %v, want awaiting_entries after recording date", r.State)
	}
}

// failingStore rejects appends to exercise the close-retry contract.
type failingStore struct {
	storage.Store
	fail bool
}

func (f *failingStore) AppendRecords(ctx context.Context, date string, entries []models.Entry) (int, error) {
	if f.fail {
		return 0, errors.New("disk full")
	}
	return f.Store.AppendRecords(ctx, date, entries)
}

func TestCloseStorageFailureKeepsSession(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "rowlog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	fs := &failingStore{Store: db, fail: true}
	m := NewManager(fs)
	ctx := context.Background()

	m.Begin(1)
	m.Advance(1, "25/12/2024")
	m.Advance(1, "1000, 4:00, 10, 260, 72")

	if _, err := m.Close(ctx, 1); err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("Close err = %v, want a storage error", err)
	}
	if m.State(1) != protocol.StateAwaitingEntries {
		t.Error("session should survive a failed close for retry")
	}

	// Retry succeeds once storage recovers
	fs.fail = false
	n, err := m.Close(ctx, 1)
	if err != nil {
		t.Fatalf("retried Close failed: %v", err)
	}
	if n != 1 {
		t.Errorf("retried Close = %d, want 1", n)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	m, _ := setupManager(t)

	var wg sync.WaitGroup
	for user := int64(1); user <= 8; user++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()
			m.Begin(u)
			m.Advance(u, "25/12/2024")
			m.Advance(u, "1000, 4:00, 10, 260, 72")
		}(user)
	}
	wg.Wait()

	for user := int64(1); user <= 8; user++ {
		if got := len(m.user(user).session.Entries); got != 1 {
			t.Errorf("user %d entries = %d, want 1", user, got)
		}
	}
}
