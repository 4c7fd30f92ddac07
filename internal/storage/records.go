// ABOUTME: TrainingRecord operations for SQLite storage.
// ABOUTME: Implements Store: transactional append, unsynced fetch, flag flips.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/rowlog/internal/models"
)

// chronoOrder rearranges a DD/MM/YYYY text date into YYYYMMDD so that
// ORDER BY is chronological rather than lexicographic. Ties break on id,
// preserving insertion order within a day.
const chronoOrder = "substr(date, 7, 4) || substr(date, 4, 2) || substr(date, 1, 2) ASC, id ASC"

const recordColumns = "id, date, distance, time, pairs, stroke_count, stroke_rate, remarks, uploaded"

// AppendRecords inserts one row per entry with uploaded=0, all in a single
// transaction: either every entry of the closing session is recorded or none.
func (d *DB) AppendRecords(ctx context.Context, date string, entries []models.Entry) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO training_data (date, distance, time, pairs, stroke_count, stroke_rate, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			date, e.Distance, e.Time, e.Pairs, e.StrokeCount, e.StrokeRate, e.Remarks,
		); err != nil {
			return 0, fmt.Errorf("append record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return len(entries), nil
}

// FetchUnsynced retrieves all records with uploaded=0 in chronological order.
func (d *DB) FetchUnsynced(ctx context.Context) ([]models.TrainingRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM training_data
		WHERE uploaded = 0
		ORDER BY %s
	`, recordColumns, chronoOrder)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch unsynced: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// MarkSynced flips the uploaded flag for exactly the given ids. Rows that
// became unsynced after the caller's fetch are untouched.
func (d *DB) MarkSynced(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf("UPDATE training_data SET uploaded = 1 WHERE id IN (%s)", placeholders)
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// ResetSynced flips every uploaded row back to unsynced.
func (d *DB) ResetSynced(ctx context.Context) (int64, error) {
	result, err := d.db.ExecContext(ctx, "UPDATE training_data SET uploaded = 0 WHERE uploaded = 1")
	if err != nil {
		return 0, fmt.Errorf("reset synced: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset synced: %w", err)
	}
	return affected, nil
}

// ListRecords retrieves every record in chronological order.
func (d *DB) ListRecords(ctx context.Context) ([]models.TrainingRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM training_data ORDER BY %s", recordColumns, chronoOrder)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanRecords scans query rows into TrainingRecord structs.
func scanRecords(rows *sql.Rows) ([]models.TrainingRecord, error) {
	var records []models.TrainingRecord

	for rows.Next() {
		var r models.TrainingRecord
		err := rows.Scan(
			&r.ID, &r.Date, &r.Distance, &r.Time,
			&r.Pairs, &r.StrokeCount, &r.StrokeRate, &r.Remarks, &r.Uploaded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
