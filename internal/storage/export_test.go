// ABOUTME: Tests for export functionality.
// ABOUTME: Verifies JSON and CSV output shape for training records.
package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/rowlog/internal/models"
)

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.AppendRecords(ctx, "25/12/2024", []models.Entry{testEntry("down")}); err != nil {
		t.Fatalf("AppendRecords failed: %v", err)
	}

	raw, err := db.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.Tool != "rowlog" || data.Version != "1.0" {
		t.Errorf("export metadata wrong: %+v", data)
	}
	if len(data.Records) != 1 || data.Records[0].Remarks != "down" {
		t.Errorf("export records wrong: %+v", data.Records)
	}
}

func TestExportCSV(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.AppendRecords(ctx, "25/12/2024", []models.Entry{testEntry("down"), testEntry("")}); err != nil {
		t.Fatalf("AppendRecords failed: %v", err)
	}

	raw, err := db.ExportCSV(ctx)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Date" {
		t.Errorf("header = %v, want Date in the second column", rows[0])
	}
	if rows[1][8] != "false" {
		t.Errorf("uploaded column = %q, want false", rows[1][8])
	}
}
