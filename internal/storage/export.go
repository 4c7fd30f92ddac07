// ABOUTME: Export functionality for training data.
// ABOUTME: Supports JSON and CSV export formats.
package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/rowlog/internal/models"
)

// ExportData represents the full export format for training data.
type ExportData struct {
	Version    string                  `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Tool       string                  `json:"tool"`
	Records    []models.TrainingRecord `json:"records"`
}

// GetAllData retrieves all records for export, in chronological order.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	records, err := d.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "rowlog",
		Records:    records,
	}, nil
}

// ExportJSON exports all training data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportCSV exports all training data as CSV with a header row.
func (d *DB) ExportCSV(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Distance", "Time", "Pairs", "Stroke Count", "Stroke Rate", "Remarks", "Uploaded"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range data.Records {
		row := append([]string{strconv.FormatInt(r.ID, 10)}, r.Row()...)
		row = append(row, strconv.FormatBool(r.Uploaded))
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
