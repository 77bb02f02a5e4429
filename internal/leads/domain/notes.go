package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Note is one free-text note on a lead.
type Note struct {
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Author    string     `json:"author,omitempty"`
}

type rawNote struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
}

// NormalizeNotes reads the notes column, which holds either an array whose
// items are {text, timestamp, author} objects or plain strings, or a single
// newline-delimited string. Null and empty input yield no notes.
func NormalizeNotes(raw json.RawMessage) ([]Note, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode notes array: %w", err)
		}
		notes := make([]Note, 0, len(items))
		for i, raw := range items {
			item, err := decodeNoteItem(raw)
			if err != nil {
				return nil, fmt.Errorf("decode note %d: %w", i, err)
			}
			text := strings.TrimSpace(item.Text)
			if text == "" {
				continue
			}
			notes = append(notes, Note{Text: text, Timestamp: parseNoteTime(item.Timestamp), Author: item.Author})
		}
		return notes, nil
	case '"':
		var joined string
		if err := json.Unmarshal(trimmed, &joined); err != nil {
			return nil, fmt.Errorf("decode notes string: %w", err)
		}
		return SplitNotes(joined), nil
	default:
		return nil, fmt.Errorf("unsupported notes encoding: %.20s", trimmed)
	}
}

func decodeNoteItem(raw json.RawMessage) (rawNote, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		err := json.Unmarshal(raw, &text)
		return rawNote{Text: text}, err
	}
	var item rawNote
	err := json.Unmarshal(raw, &item)
	return item, err
}

// SplitNotes turns newline-delimited text into notes.
func SplitNotes(joined string) []Note {
	var notes []Note
	for _, line := range strings.Split(joined, "\n") {
		if text := strings.TrimSpace(line); text != "" {
			notes = append(notes, Note{Text: text})
		}
	}
	return notes
}

// NotesText concatenates note texts, one per line.
func NotesText(notes []Note) string {
	texts := make([]string, 0, len(notes))
	for _, n := range notes {
		texts = append(texts, n.Text)
	}
	return strings.Join(texts, "\n")
}

// Note timestamps are informational only, so unreadable ones are dropped.
func parseNoteTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
