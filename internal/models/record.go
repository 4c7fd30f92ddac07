// ABOUTME: Entry, Session, and TrainingRecord models for rowing training data.
// ABOUTME: Entries live in a session until close, then become durable records.
package models

import "strconv"

// NoRemark is the sentinel stored when an entry has no remark.
const NoRemark = "NIL"

// Entry is one rowing interval captured during a session.
// Immutable once appended to a session.
type Entry struct {
	Distance    int    // meters
	Time        string // mm:ss
	Pairs       int
	StrokeCount int
	StrokeRate  int
	Remarks     string
}

// NewEntry creates an Entry, substituting the NIL sentinel for an empty remark.
func NewEntry(distance int, duration string, pairs, strokeCount, strokeRate int, remarks string) Entry {
	if remarks == "" {
		remarks = NoRemark
	}
	return Entry{
		Distance:    distance,
		Time:        duration,
		Pairs:       pairs,
		StrokeCount: strokeCount,
		StrokeRate:  strokeRate,
		Remarks:     remarks,
	}
}

// Session is a user's in-progress, not-yet-closed training interaction.
// Held in memory only; a process restart drops it.
type Session struct {
	UserID  int64
	Date    string // DD/MM/YYYY, empty until recorded
	Entries []Entry
}

// NewSession creates an empty session for the given user.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID}
}

// HasDate reports whether the training date has been recorded.
func (s *Session) HasDate() bool {
	return s.Date != ""
}

// AddEntry appends an interval to the session, preserving insertion order.
func (s *Session) AddEntry(e Entry) {
	s.Entries = append(s.Entries, e)
}

// TrainingRecord is a durable row in the training_data table.
type TrainingRecord struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"` // DD/MM/YYYY
	Distance    int    `json:"distance"`
	Time        string `json:"time"`
	Pairs       int    `json:"pairs"`
	StrokeCount int    `json:"stroke_count"`
	StrokeRate  int    `json:"stroke_rate"`
	Remarks     string `json:"remarks"`
	Uploaded    bool   `json:"uploaded"`
}

// Row returns the record as a 7-column spreadsheet row:
// Date, Distance, Time, Pairs, Stroke Count, Stroke Rate, Remarks.
func (r TrainingRecord) Row() []string {
	return []string{
		r.Date,
		strconv.Itoa(r.Distance),
		r.Time,
		strconv.Itoa(r.Pairs),
		strconv.Itoa(r.StrokeCount),
		strconv.Itoa(r.StrokeRate),
		r.Remarks,
	}
}
