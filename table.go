// Package stopmerge merges two GTFS stop tables by stop ID.
//
// The primary table is emitted row for row with its stop names replaced by the names
// found in a secondary lookup table.
package stopmerge

import (
	"errors"
	"fmt"
	"io"

	"github.com/cutr-usf/stopmerge/constants"
	"github.com/cutr-usf/stopmerge/csv"
)

var (
	// ErrNoRows and ErrFieldCount are returned by ReadTable for an empty file and a malformed row.
	ErrNoRows     = csv.ErrNoRows
	ErrFieldCount = csv.ErrFieldCount

	ErrMissingColumn  = errors.New("missing required column")
	ErrUnmatchedStops = errors.New("stops not found in lookup table")
)

// Header is the ordered column schema of a table.
type Header struct {
	columns []string
	index   map[string]int
}

func NewHeader(columns []string) *Header {
	h := &Header{
		columns: append([]string(nil), columns...),
		index:   map[string]int{},
	}
	for i, column := range h.columns {
		h.index[column] = i
	}
	return h
}

// Columns returns a copy of the column names in file order.
func (h *Header) Columns() []string {
	return append([]string(nil), h.columns...)
}

func (h *Header) Index(column string) (int, bool) {
	i, ok := h.index[column]
	return i, ok
}

func (h *Header) Len() int {
	return len(h.columns)
}

// Record corresponds to a single data row of a table.
type Record struct {
	header *Header
	cells  []string
}

func (r Record) Get(column string) string {
	v, _ := r.Lookup(column)
	return v
}

func (r Record) Lookup(column string) (string, bool) {
	i, ok := r.header.Index(column)
	if !ok {
		return "", false
	}
	return r.cells[i], true
}

// Values returns a copy of the cells in header order.
func (r Record) Values() []string {
	return append([]string(nil), r.cells...)
}

// with returns a copy of the record with cell i replaced.
func (r Record) with(i int, value string) Record {
	cells := r.Values()
	cells[i] = value
	return Record{header: r.header, cells: cells}
}

// Table is an ordered sequence of records sharing one header.
type Table struct {
	File    constants.StaticFile
	Header  *Header
	Records []Record
}

// ReadTable parses the full content of a delimited file.
//
// A row whose cell count differs from the header is an error that names the row.
func ReadTable(name constants.StaticFile, reader io.Reader, delimiter rune) (*Table, error) {
	file, err := csv.New(name, io.NopCloser(reader), delimiter)
	if err != nil {
		return nil, err
	}
	header := NewHeader(file.HeaderContent())
	table := &Table{File: name, Header: header}
	for file.NextRow() {
		table.Records = append(table.Records, Record{header: header, cells: file.RowContent()})
	}
	if err := file.Close(); err != nil {
		return nil, err
	}
	return table, nil
}

// WriteTable writes the header followed by every record in order.
func WriteTable(w io.Writer, table *Table, delimiter rune, useCRLF bool) error {
	writer := csv.NewWriter(w, delimiter, useCRLF)
	writer.Write(table.Header.columns)
	for _, record := range table.Records {
		writer.Write(record.cells)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", table.File, err)
	}
	return nil
}

func requireColumn(table *Table, column string) (int, error) {
	i, ok := table.Header.Index(column)
	if !ok {
		return -1, fmt.Errorf("%s: %w %q", table.File, ErrMissingColumn, column)
	}
	return i, nil
}
