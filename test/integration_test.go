// ABOUTME: Integration tests for the full record-and-upload workflow.
// ABOUTME: Drives session manager, storage, and sync engine together in-process.
package test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rowlog/internal/session"
	"github.com/harperreed/rowlog/internal/storage"
	"github.com/harperreed/rowlog/internal/syncer"
)

type memorySink struct {
	partitions map[string][][]string
	failNext   bool
}

func newMemorySink() *memorySink {
	return &memorySink{partitions: make(map[string][][]string)}
}

func (m *memorySink) ListPartitions(ctx context.Context, workbookID string) (map[string]bool, error) {
	out := make(map[string]bool, len(m.partitions))
	for name := range m.partitions {
		out[name] = true
	}
	return out, nil
}

func (m *memorySink) CreatePartition(ctx context.Context, workbookID, name string) error {
	if _, ok := m.partitions[name]; !ok {
		m.partitions[name] = nil
	}
	return nil
}

func (m *memorySink) AppendRows(ctx context.Context, workbookID, partition string, rows [][]string) error {
	if m.failNext {
		m.failNext = false
		return errors.New("sink unavailable")
	}
	m.partitions[partition] = append(m.partitions[partition], rows...)
	return nil
}

func TestRecordAndUploadWorkflow(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "rowlog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	manager := session.NewManager(db)
	sink := newMemorySink()
	engine := syncer.NewEngine(db, sink, "workbook-1", log.New(io.Discard))

	// December session: two intervals, one malformed line in between
	manager.Begin(7)
	manager.Advance(7, "28/12/2024")
	manager.Advance(7, "1000, 4:00, 10, 260, 72, down")
	manager.Advance(7, "oops")
	manager.Advance(7, "2000, 8:30, 10, 520, 70")
	n, err := manager.Close(ctx, 7)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Close = %d, want 2 (malformed line discarded)", n)
	}

	// January session from another user
	manager.Begin(8)
	manager.Advance(8, "05/01/2025")
	manager.Advance(8, "1500, 6:00, 8, 380, 66")
	if _, err := manager.Close(ctx, 8); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// First upload attempt fails; nothing may be marked synced
	sink.failNext = true
	if _, err := engine.Sync(ctx); err == nil {
		t.Fatal("Sync succeeded despite sink failure")
	}
	unsynced, err := db.FetchUnsynced(ctx)
	if err != nil {
		t.Fatalf("FetchUnsynced failed: %v", err)
	}
	if len(unsynced) != 3 {
		t.Fatalf("unsynced after failed pass = %d, want all 3", len(unsynced))
	}

	// Retry succeeds and lands one tab per month
	report, err := engine.Sync(ctx)
	if err != nil {
		t.Fatalf("retried Sync failed: %v", err)
	}
	if report.Records != 3 || len(report.Partitions) != 2 {
		t.Fatalf("report = %+v, want 3 records across 2 partitions", report)
	}

	dec := sink.partitions["12/2024"]
	if len(dec) != 4 { // spacer + header + 2 data rows
		t.Errorf("12/2024 has %d rows, want 4", len(dec))
	}
	jan := sink.partitions["01/2025"]
	if len(jan) != 3 {
		t.Errorf("01/2025 has %d rows, want 3", len(jan))
	}
	if len(dec) == 4 && dec[2][6] != "down" {
		t.Errorf("first december data row = %v, want the remark in column 7", dec[2])
	}

	// Second pass is a no-op
	if _, err := engine.Sync(ctx); !errors.Is(err, syncer.ErrNothingToSync) {
		t.Errorf("follow-up Sync err = %v, want ErrNothingToSync", err)
	}

	// Reset makes everything eligible again
	reset, err := db.ResetSynced(ctx)
	if err != nil {
		t.Fatalf("ResetSynced failed: %v", err)
	}
	if reset != 3 {
		t.Errorf("ResetSynced = %d, want 3", reset)
	}
	if _, err := engine.Sync(ctx); err != nil {
		t.Errorf("post-reset Sync failed: %v", err)
	}
}
