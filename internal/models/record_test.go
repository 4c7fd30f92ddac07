// ABOUTME: Tests for the training data models.
// ABOUTME: Verifies remark defaulting and spreadsheet row layout.
package models

import (
	"reflect"
	"testing"
)

func TestNewEntryDefaultsRemark(t *testing.T) {
	e := NewEntry(1000, "4:00", 10, 260, 72, "")
	if e.Remarks != NoRemark {
		t.Errorf("Remarks = %q, want %q", e.Remarks, NoRemark)
	}

	e = NewEntry(1000, "4:00", 10, 260, 72, "down")
	if e.Remarks != "down" {
		t.Errorf("Remarks = %q, want %q", e.Remarks, "down")
	}
}

func TestSessionAddEntryPreservesOrder(t *testing.T) {
	s := NewSession(42)
	if s.HasDate() {
		t.Error("new session should have no date")
	}

	s.AddEntry(NewEntry(1000, "4:00", 10, 260, 72, "first"))
	s.AddEntry(NewEntry(2000, "8:00", 10, 520, 70, "second"))

	if len(s.Entries) != 2 {
		t.Fatalf("Entries length = %d, want 2", len(s.Entries))
	}
	if s.Entries[0].Remarks != "first" || s.Entries[1].Remarks != "second" {
		t.Error("entries not in insertion order")
	}
}

func TestTrainingRecordRow(t *testing.T) {
	r := TrainingRecord{
		ID:          7,
		Date:        "25/12/2024",
		Distance:    1000,
		Time:        "4:00",
		Pairs:       10,
		StrokeCount: 260,
		StrokeRate:  72,
		Remarks:     "down",
	}

	want := []string{"25/12/2024", "1000", "4:00", "10", "260", "72", "down"}
	if got := r.Row(); !reflect.DeepEqual(got, want) {
		t.Errorf("Row() = %v, want %v", got, want)
	}
	if len(r.Row()) != 7 {
		t.Errorf("Row() has %d columns, want 7", len(r.Row()))
	}
}
