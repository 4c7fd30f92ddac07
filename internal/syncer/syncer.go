// ABOUTME: Idempotent batch-sync engine pushing unsynced records to the sink.
// ABOUTME: Groups records by month, ensures partitions, appends, then marks synced.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harperreed/rowlog/internal/models"
	"github.com/harperreed/rowlog/internal/protocol"
	"github.com/harperreed/rowlog/internal/sheets"
	"github.com/harperreed/rowlog/internal/storage"
)

// ErrNothingToSync is returned when no unsynced records exist. The pass
// performs no side effects in that case.
var ErrNothingToSync = errors.New("nothing to sync")

// PeriodLayout names destination partitions by calendar month (MM/YYYY).
const PeriodLayout = "01/2006"

// headerRow is the fixed 7-column header written above each data block.
var headerRow = []string{"Date", "Distance", "Time", "Pairs", "Stroke Count", "Stroke Rate", "Remarks"}

// Engine runs the fetch → append → mark sequence. Passes are serialized on
// an internal lock: the external append side effect is not idempotent, so
// two interleaved passes must not both write the same rows.
type Engine struct {
	mu         sync.Mutex
	store      storage.Store
	sink       sheets.Sink
	workbookID string
	logger     *log.Logger
}

// NewEngine creates a sync engine targeting the given workbook.
func NewEngine(store storage.Store, sink sheets.Sink, workbookID string, logger *log.Logger) *Engine {
	return &Engine{
		store:      store,
		sink:       sink,
		workbookID: workbookID,
		logger:     logger,
	}
}

// Report summarizes one successful sync pass.
type Report struct {
	PassID     uuid.UUID
	Records    int
	Partitions []string // periods appended to, in chronological order
	Created    []string // partitions created during this pass
}

// Sync pushes all unsynced records to the sink and marks exactly those
// records synced, but only after every partition's append has succeeded.
// On any failure nothing is marked: the next pass re-appends everything,
// so already-appended partitions may receive duplicates (at-least-once),
// but no record is ever marked synced without a corresponding append.
func (e *Engine) Sync(ctx context.Context) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.store.FetchUnsynced(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch unsynced: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNothingToSync
	}

	report := &Report{PassID: uuid.New(), Records: len(records)}
	e.logger.Info("sync pass started", "pass", report.PassID, "records", len(records))

	groups, order, err := groupByPeriod(records)
	if err != nil {
		return nil, err
	}

	existing, err := e.sink.ListPartitions(ctx, e.workbookID)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	for _, period := range order {
		if !existing[period] {
			if err := e.sink.CreatePartition(ctx, e.workbookID, period); err != nil {
				return nil, fmt.Errorf("create partition %s: %w", period, err)
			}
			report.Created = append(report.Created, period)
		}

		if err := e.sink.AppendRows(ctx, e.workbookID, period, buildRows(groups[period])); err != nil {
			return nil, fmt.Errorf("append partition %s: %w", period, err)
		}
		report.Partitions = append(report.Partitions, period)
		e.logger.Info("partition appended", "pass", report.PassID, "partition", period, "rows", len(groups[period]))
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	if err := e.store.MarkSynced(ctx, ids); err != nil {
		return nil, fmt.Errorf("mark synced: %w", err)
	}

	e.logger.Info("sync pass complete", "pass", report.PassID,
		"records", report.Records, "partitions", len(report.Partitions))
	return report, nil
}

// PeriodOf derives the month partition name from a DD/MM/YYYY record date.
func PeriodOf(date string) (string, error) {
	t, err := time.Parse(protocol.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("derive period from date %q: %w", date, err)
	}
	return t.Format(PeriodLayout), nil
}

// groupByPeriod partitions records by month, preserving fetch order inside
// each group and first-seen order across groups. Fetch order is
// chronological, so both orders are too.
func groupByPeriod(records []models.TrainingRecord) (map[string][]models.TrainingRecord, []string, error) {
	groups := make(map[string][]models.TrainingRecord)
	var order []string

	for _, r := range records {
		period, err := PeriodOf(r.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", r.ID, err)
		}
		if _, ok := groups[period]; !ok {
			order = append(order, period)
		}
		groups[period] = append(groups[period], r)
	}

	return groups, order, nil
}

// buildRows assembles one append block: a blank spacer row, the header,
// then one data row per record in fetch order.
func buildRows(records []models.TrainingRecord) [][]string {
	rows := make([][]string, 0, len(records)+2)
	rows = append(rows, make([]string, len(headerRow)))
	rows = append(rows, headerRow)
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return rows
}
