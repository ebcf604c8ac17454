package listview

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/docflow-ai/docflow-go/internal/database"
)

// Direction is the sort direction of a column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection parses "asc" or "desc", case-insensitive. Empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction: %q", s)
	}
}

// SortState is the active sort column and direction.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after the user picks column: the same column flips
// direction, a new column starts ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		if s.Direction == Descending {
			return SortState{Column: column, Direction: Ascending}
		}
		return SortState{Column: column, Direction: Descending}
	}
	return SortState{Column: column, Direction: Ascending}
}

// ColumnKind selects how a column's values are compared.
type ColumnKind int

const (
	// KindText compares with English collation rules.
	KindText ColumnKind = iota
	// KindNumber compares numerically.
	KindNumber
	// KindDate compares chronologically; values that do not parse sort
	// after those that do and compare as plain strings among themselves.
	KindDate
)

// Column is a sortable projection of a record.
type Column[T any] struct {
	Kind   ColumnKind
	Text   func(T) string
	Number func(T) float64
}

// TextColumn builds a collated text column.
func TextColumn[T any](fn func(T) string) Column[T] {
	return Column[T]{Kind: KindText, Text: fn}
}

// NumberColumn builds a numeric column.
func NumberColumn[T any](fn func(T) int) Column[T] {
	return Column[T]{Kind: KindNumber, Number: func(rec T) float64 { return float64(fn(rec)) }}
}

// DateColumn builds a chronological column over display dates.
func DateColumn[T any](fn func(T) string) Column[T] {
	return Column[T]{Kind: KindDate, Text: fn}
}

type sortKey struct {
	text   string
	number float64
	date   time.Time
	dated  bool
}

// ApplySort returns a sorted copy of records. The sort is stable and an
// unknown column leaves the order unchanged.
func ApplySort[T any](records []T, schema Schema[T], state SortState) []T {
	out := slices.Clone(records)
	col, ok := schema.Columns[state.Column]
	if !ok {
		return out
	}

	type keyed struct {
		rec T
		key sortKey
	}
	items := make([]keyed, len(out))
	for i, rec := range out {
		items[i] = keyed{rec: rec, key: col.key(rec)}
	}

	compare := col.comparator()
	sign := 1
	if state.Direction == Descending {
		sign = -1
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		return sign * compare(a.key, b.key)
	})

	for i := range items {
		out[i] = items[i].rec
	}
	return out
}

func (c Column[T]) key(rec T) sortKey {
	switch c.Kind {
	case KindNumber:
		if c.Number == nil {
			return sortKey{}
		}
		return sortKey{number: c.Number(rec)}
	case KindDate:
		k := sortKey{}
		if c.Text != nil {
			k.text = c.Text(rec)
		}
		if t, err := database.ParseDate(k.text); err == nil {
			k.date, k.dated = t, true
		}
		return k
	default:
		if c.Text == nil {
			return sortKey{}
		}
		return sortKey{text: c.Text(rec)}
	}
}

func (c Column[T]) comparator() func(a, b sortKey) int {
	switch c.Kind {
	case KindNumber:
		return func(a, b sortKey) int { return cmp.Compare(a.number, b.number) }
	case KindDate:
		return func(a, b sortKey) int {
			switch {
			case a.dated && b.dated:
				return a.date.Compare(b.date)
			case a.dated:
				return -1
			case b.dated:
				return 1
			default:
				return strings.Compare(a.text, b.text)
			}
		}
	default:
		// Collators keep internal buffers; one per sort call.
		coll := collate.New(language.English)
		return func(a, b sortKey) int { return coll.CompareString(a.text, b.text) }
	}
}
