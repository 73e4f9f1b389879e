package stopmerge

import (
	"fmt"
	"log/slog"

	"github.com/cutr-usf/stopmerge/constants"
	"github.com/cutr-usf/stopmerge/warnings"
)

type DuplicatePolicy int32

const (
	// LastWins keeps the last record seen for a duplicated key.
	LastWins  DuplicatePolicy = 0
	FirstWins DuplicatePolicy = 1
)

func NewDuplicatePolicy(s string) (DuplicatePolicy, bool) {
	switch s {
	case "", "last":
		return LastWins, true
	case "first":
		return FirstWins, true
	}
	return LastWins, false
}

func (p DuplicatePolicy) String() string {
	switch p {
	case FirstWins:
		return "FIRST_WINS"
	default:
		return "LAST_WINS"
	}
}

// LookupMap indexes the records of a table by the value of its key column.
//
// It is read-only once built.
type LookupMap struct {
	Key     string
	File    constants.StaticFile
	header  *Header
	records map[string]Record
}

func (m *LookupMap) Get(key string) (Record, bool) {
	r, ok := m.records[key]
	return r, ok
}

func (m *LookupMap) Len() int {
	return len(m.records)
}

// HasColumn reports whether the indexed records carry the column.
func (m *LookupMap) HasColumn(column string) bool {
	_, ok := m.header.Index(column)
	return ok
}

// BuildLookup indexes the table by the key column.
//
// Every duplicated key produces a warning; the policy decides which record is kept.
func BuildLookup(table *Table, key string, policy DuplicatePolicy) (*LookupMap, []warnings.Warning, error) {
	keyIndex, err := requireColumn(table, key)
	if err != nil {
		return nil, nil, err
	}
	m := &LookupMap{
		Key:     key,
		File:    table.File,
		header:  table.Header,
		records: make(map[string]Record, len(table.Records)),
	}
	keyToRow := map[string]int{}
	var ws []warnings.Warning
	for i, record := range table.Records {
		row := i + 1
		k := record.cells[keyIndex]
		if previous, seen := keyToRow[k]; seen {
			kept := row
			if policy == FirstWins {
				kept = previous
			}
			ws = append(ws, warnings.DuplicateKey{
				SourceFile: table.File,
				StopID:     k,
				Row:        row,
				Kept:       kept,
			})
			if policy == FirstWins {
				continue
			}
		}
		keyToRow[k] = row
		m.records[k] = record
	}
	return m, ws, nil
}

type JoinOptions struct {
	// Key is the column used to correlate the two tables. Defaults to stop_id.
	Key string
	// Field is the column overwritten from the lookup table. Defaults to stop_name.
	Field  string
	Logger *slog.Logger
}

func (opts JoinOptions) withDefaults() JoinOptions {
	if opts.Key == "" {
		opts.Key = string(constants.StopID)
	}
	if opts.Field == "" {
		opts.Field = string(constants.StopName)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

type Stats struct {
	Rows       int
	Matched    int
	Renamed    int
	NotFound   int
	Duplicates int
}

// Result is the merged table together with the diagnostics raised while building it.
type Result struct {
	Table    *Table
	Warnings []warnings.Warning
	Stats    Stats
}

// Join emits one record per primary record, in order, with the target field taken from the
// matching lookup record. Unmatched records are emitted unchanged and produce a warning.
//
// The primary table is not modified.
func Join(primary *Table, lookup *LookupMap, opts JoinOptions) (*Result, error) {
	opts = opts.withDefaults()
	keyIndex, err := requireColumn(primary, opts.Key)
	if err != nil {
		return nil, err
	}
	fieldIndex, err := requireColumn(primary, opts.Field)
	if err != nil {
		return nil, err
	}
	if !lookup.HasColumn(opts.Field) {
		return nil, fmt.Errorf("%s: %w %q", lookup.File, ErrMissingColumn, opts.Field)
	}
	result := &Result{
		Table: &Table{
			File:    primary.File,
			Header:  primary.Header,
			Records: make([]Record, 0, len(primary.Records)),
		},
	}
	for i, record := range primary.Records {
		key := record.cells[keyIndex]
		match, ok := lookup.Get(key)
		if !ok {
			w := warnings.StopNotFound{
				SourceFile: primary.File,
				StopID:     key,
				StopName:   record.cells[fieldIndex],
				Row:        i + 1,
			}
			opts.Logger.Warn("stop not found",
				slog.String("file", string(primary.File)),
				slog.String(opts.Key, key),
				slog.Int("row", w.Row),
			)
			result.Warnings = append(result.Warnings, w)
			result.Stats.NotFound++
			result.Table.Records = append(result.Table.Records, record)
			continue
		}
		result.Stats.Matched++
		oldValue := record.cells[fieldIndex]
		newValue := match.Get(opts.Field)
		if oldValue != newValue {
			result.Stats.Renamed++
			opts.Logger.Debug("stop renamed",
				slog.String(opts.Key, key),
				slog.String("old", oldValue),
				slog.String("new", newValue),
			)
		}
		result.Table.Records = append(result.Table.Records, record.with(fieldIndex, newValue))
	}
	result.Stats.Rows = len(result.Table.Records)
	return result, nil
}

// JoinTables builds the lookup from the secondary table and joins the primary table against it.
func JoinTables(primary, secondary *Table, policy DuplicatePolicy, opts JoinOptions) (*Result, error) {
	opts = opts.withDefaults()
	lookup, ws, err := BuildLookup(secondary, opts.Key, policy)
	if err != nil {
		return nil, err
	}
	for _, w := range ws {
		opts.Logger.Warn("duplicate key in lookup table", slog.String("file", string(w.File())), slog.String("warning", w.Error()))
	}
	result, err := Join(primary, lookup, opts)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(ws, result.Warnings...)
	result.Stats.Duplicates = len(ws)
	return result, nil
}
