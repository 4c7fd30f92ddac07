// ABOUTME: Destination sink abstraction and its Google Sheets implementation.
// ABOUTME: Partitions are spreadsheet tabs; rows are appended, never overwritten.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Sink is the append-only destination the sync engine writes to.
type Sink interface {
	// ListPartitions returns the set of partition names present in the workbook.
	ListPartitions(ctx context.Context, workbookID string) (map[string]bool, error)

	// CreatePartition adds a partition. A partition that already exists is
	// success, not failure: two interleaved sync passes may race here.
	CreatePartition(ctx context.Context, workbookID, name string) error

	// AppendRows appends rows after the partition's existing content.
	// Existing cells are never overwritten.
	AppendRows(ctx context.Context, workbookID, partition string, rows [][]string) error
}

// Client implements Sink against the Google Sheets API. Partitions map to
// sheet tabs within a spreadsheet.
type Client struct {
	svc *gsheets.Service
}

// NewClient builds a Sheets client from a service account credentials file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListPartitions returns the titles of all tabs in the spreadsheet.
func (c *Client) ListPartitions(ctx context.Context, workbookID string) (map[string]bool, error) {
	meta, err := c.svc.Spreadsheets.Get(workbookID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	titles := make(map[string]bool, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			titles[s.Properties.Title] = true
		}
	}
	return titles, nil
}

// CreatePartition adds a tab with the given title.
func (c *Client) CreatePartition(ctx context.Context, workbookID, name string) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: name},
			},
		}},
	}

	_, err := c.svc.Spreadsheets.BatchUpdate(workbookID, req).Context(ctx).Do()
	if err != nil {
		if alreadyExists(err) {
			return nil
		}
		return fmt.Errorf("add sheet %q: %w", name, err)
	}
	return nil
}

// AppendRows appends rows after the tab's existing content using RAW input.
func (c *Client) AppendRows(ctx context.Context, workbookID, partition string, rows [][]string) error {
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(workbookID, partition, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet %q: %w", partition, err)
	}
	return nil
}

// alreadyExists matches the API error for a duplicate sheet title.
func alreadyExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}
