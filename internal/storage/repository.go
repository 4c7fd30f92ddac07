// ABOUTME: Store interface for training record persistence.
// ABOUTME: Defines the contract consumed by the session manager and sync engine.
package storage

import (
	"context"

	"github.com/harperreed/rowlog/internal/models"
)

// Store defines the record store contract.
// This interface allows swapping implementations (e.g., for testing).
type Store interface {
	// AppendRecords inserts one unsynced row per entry, all sharing the
	// given date, as a single transaction. Returns the number inserted.
	AppendRecords(ctx context.Context, date string, entries []models.Entry) (int, error)

	// FetchUnsynced returns all records not yet uploaded, in chronological
	// date order. Pure read.
	FetchUnsynced(ctx context.Context) ([]models.TrainingRecord, error)

	// MarkSynced flips the uploaded flag for exactly the given ids.
	MarkSynced(ctx context.Context, ids []int64) error

	// ResetSynced flips all uploaded rows back to unsynced and returns
	// how many were affected. Administrative escape hatch.
	ResetSynced(ctx context.Context) (int64, error)

	// ListRecords returns every record in chronological date order.
	ListRecords(ctx context.Context) ([]models.TrainingRecord, error)

	// Lifecycle
	Close() error
}
