package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tidwall/gjson"
)

type fieldClass string

const (
	classText      fieldClass = "text"
	classBoolean   fieldClass = "boolean"
	classInteger   fieldClass = "integer"
	classTimestamp fieldClass = "timestamp"
)

// column writes one snapshot value into a record field.
type column[T any] struct {
	Class fieldClass `validate:"required,oneof=text boolean integer timestamp"`
	apply func(rec *T, v gjson.Result) error
}

func text[T any](target func(rec *T) *pgtype.Text) column[T] {
	return column[T]{
		Class: classText,
		apply: func(rec *T, v gjson.Result) error {
			switch v.Type {
			case gjson.Null:
				*target(rec) = pgtype.Text{}
			case gjson.String, gjson.Number, gjson.True, gjson.False:
				*target(rec) = pgtype.Text{String: v.String(), Valid: true}
			default:
				return fmt.Errorf("expected text, got %s", v.Type)
			}
			return nil
		},
	}
}

func boolean[T any](target func(rec *T) *pgtype.Bool) column[T] {
	return column[T]{
		Class: classBoolean,
		apply: func(rec *T, v gjson.Result) error {
			switch v.Type {
			case gjson.Null:
				*target(rec) = pgtype.Bool{}
			case gjson.True, gjson.False:
				*target(rec) = pgtype.Bool{Bool: v.Bool(), Valid: true}
			default:
				return fmt.Errorf("expected boolean, got %s", v.Type)
			}
			return nil
		},
	}
}

func integer[T any](target func(rec *T) *pgtype.Int8) column[T] {
	return column[T]{
		Class: classInteger,
		apply: func(rec *T, v gjson.Result) error {
			switch v.Type {
			case gjson.Null:
				*target(rec) = pgtype.Int8{}
			case gjson.Number:
				*target(rec) = pgtype.Int8{Int64: v.Int(), Valid: true}
			default:
				return fmt.Errorf("expected integer, got %s", v.Type)
			}
			return nil
		},
	}
}

func timestamp[T any](target func(rec *T) *pgtype.Timestamp) column[T] {
	return column[T]{
		Class: classTimestamp,
		apply: func(rec *T, v gjson.Result) error {
			t, err := parseTimestamp(v)
			if err != nil {
				return err
			}
			*target(rec) = naive(t)
			return nil
		},
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts ISO-8601 strings and unix epoch seconds, which some webhook
// payloads use for repository timestamps. Values without a zone are read as UTC.
func parseTimestamp(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0), nil
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(secs, 0), nil
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
	default:
		return time.Time{}, fmt.Errorf("expected timestamp, got %s", v.Type)
	}
}

// naive drops the zone after moving the instant to UTC, matching the TIMESTAMP columns.
// Postgres keeps microseconds, so the instant is truncated to compare equal once stored.
func naive(t time.Time) pgtype.Timestamp {
	u := t.UTC().Truncate(time.Microsecond)
	return pgtype.Timestamp{
		Time:  time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC),
		Valid: true,
	}
}

// truthy reports whether a timestamp value should be parsed at all. Empty, null,
// zero and false values leave the stored timestamp untouched.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	}
	return v.Exists()
}

// lookup resolves a dotted field path in a snapshot. A path whose parent object is
// present but null resolves to null so nested references can be cleared.
func lookup(snapshot []byte, path string) (gjson.Result, bool) {
	v := gjson.GetBytes(snapshot, path)
	if v.Exists() {
		return v, true
	}
	for i := strings.LastIndexByte(path, '.'); i > 0; i = strings.LastIndexByte(path[:i], '.') {
		parent := gjson.GetBytes(snapshot, path[:i])
		if !parent.Exists() {
			continue
		}
		if parent.Type == gjson.Null {
			return gjson.Result{Type: gjson.Null, Raw: "null"}, true
		}
		return gjson.Result{}, false
	}
	return gjson.Result{}, false
}
