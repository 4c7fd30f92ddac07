// ABOUTME: Conversation protocol for the training-entry dialogue.
// ABOUTME: States, date/entry parsing, and the reply texts shown to users.
package protocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/rowlog/internal/models"
)

// State identifies where a user's conversation currently is.
type State int

const (
	// StateNone means no active session exists for the user.
	StateNone State = iota
	// StateAwaitingDate means a session exists but has no training date yet.
	StateAwaitingDate
	// StateAwaitingEntries means the date is recorded and entries are accepted.
	StateAwaitingEntries
	// StateClosed is terminal; equivalent to StateNone for routing purposes.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateAwaitingDate:
		return "awaiting_date"
	case StateAwaitingEntries:
		return "awaiting_entries"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DateLayout is the accepted training date format (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// EntryDelimiter separates the fields of an entry message.
const EntryDelimiter = ", "

// Replies sent back to the user. The transport delivers them verbatim.
const (
	PromptDate = "Key in date of Training (DD/MM/YYYY):\nEg. 25/12/2024"

	MsgDateRecorded = "Date recorded. Training Stats in the format:\n" +
		"Distance, Time(mm:ss), Pairs, Stroke Count, Stroke Rate, Remarks\n" +
		"Eg. 1000, 4:00, 10, 260, 72, down"

	MsgEntryAdded = "Entry added. Add another or /close to finish."

	MsgBadDate = "Invalid date format. Please use DD/MM/YYYY\nEg. 25/12/2024"

	MsgNoSession = "No active session. Use /start to begin."

	MsgNoSessionToClose = "No active session to close."
)

// durationPattern accepts mm:ss tokens, allowing long pieces like 120:00.
var durationPattern = regexp.MustCompile(`^\d{1,3}:[0-5]\d$`)

// ParseDate validates text against DateLayout and returns the normalized date.
func ParseDate(text string) (string, error) {
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected DD/MM/YYYY", text)
	}
	return t.Format(DateLayout), nil
}

// ParseEntry parses one entry message of the form
// "distance, time, pairs, stroke_count, stroke_rate[, remarks]".
// The remark may itself contain the delimiter; everything after the fifth
// field is kept as the remark text.
func ParseEntry(text string) (models.Entry, error) {
	parts := strings.Split(text, EntryDelimiter)
	if len(parts) < 5 {
		return models.Entry{}, fmt.Errorf("expected at least 5 comma-separated values, got %d", len(parts))
	}

	distance, err := parseCount("distance", parts[0])
	if err != nil {
		return models.Entry{}, err
	}

	duration := parts[1]
	if !durationPattern.MatchString(duration) {
		return models.Entry{}, fmt.Errorf("time %q must be in mm:ss format", duration)
	}

	pairs, err := parseCount("pairs", parts[2])
	if err != nil {
		return models.Entry{}, err
	}
	strokeCount, err := parseCount("stroke count", parts[3])
	if err != nil {
		return models.Entry{}, err
	}
	strokeRate, err := parseCount("stroke rate", parts[4])
	if err != nil {
		return models.Entry{}, err
	}

	remarks := ""
	if len(parts) > 5 {
		remarks = strings.Join(parts[5:], EntryDelimiter)
	}

	return models.NewEntry(distance, duration, pairs, strokeCount, strokeRate, remarks), nil
}

// parseCount parses a mandatory non-negative integer field.
func parseCount(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s %q must be a number", field, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", field)
	}
	return n, nil
}
