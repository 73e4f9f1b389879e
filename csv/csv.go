// Package csv is a wrapper around the stdlib csv library that provides a nice API for the stops merger.
//
// It adds BOM detection, a header index, a configurable delimiter and row bookkeeping for diagnostics.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/cutr-usf/stopmerge/constants"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrFieldCount is returned when a row does not have the same number of cells as the header.
	ErrFieldCount = csv.ErrFieldCount
	// ErrNoRows is returned when a file does not even contain a header row.
	ErrNoRows = errors.New("CSV file contains no rows")
)

type File struct {
	name          constants.StaticFile
	csvReader     *csv.Reader
	headerContent []string
	rowNumber     int
	currentRow    []string
	ioErr         error
	closer        func() error
}

// New reads the header of the file and returns a File positioned before the first data row.
//
// The reader is closed if the header cannot be read. Otherwise the caller must call Close.
func New(name constants.StaticFile, reader io.ReadCloser, delimiter rune) (*File, error) {
	csvReader := BOMAwareCSVReader(reader)
	csvReader.Comma = delimiter
	// Zero means every row must have as many cells as the header.
	csvReader.FieldsPerRecord = 0
	// Stop names in the wild contain bare quotes, e.g. 5th St "A".
	csvReader.LazyQuotes = true
	firstRow, err := csvReader.Read()
	if err == io.EOF {
		reader.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoRows)
	} else if err != nil {
		reader.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &File{
		name:          name,
		headerContent: firstRow,
		csvReader:     csvReader,
		closer:        reader.Close,
	}, nil
}

func (f *File) HeaderContent() []string {
	return f.headerContent
}

func (f *File) NextRow() bool {
	if f.ioErr != nil {
		return false
	}
	cells, err := f.csvReader.Read()
	if err == io.EOF {
		f.currentRow = nil
		return false
	}
	if err != nil {
		f.currentRow = nil
		if errors.Is(err, csv.ErrFieldCount) {
			f.ioErr = fmt.Errorf("%s: row %d has %d cells but the header has %d: %w",
				f.name, f.RowNumber()+1, len(cells), len(f.headerContent), ErrFieldCount)
		} else {
			f.ioErr = fmt.Errorf("%s: %w", f.name, err)
		}
		return false
	}
	f.rowNumber += 1
	f.currentRow = cells
	return true
}

// RowContent returns the cells of the current data row, or nil once iteration has stopped.
func (f *File) RowContent() []string {
	return f.currentRow
}

// RowNumber is the 1-based index of the current data row; the header is row 0.
func (f *File) RowNumber() int {
	return f.rowNumber
}

// Err returns the error that stopped iteration, if any.
func (f *File) Err() error {
	return f.ioErr
}

func (f *File) Close() error {
	closeErr := f.closer()
	if f.ioErr != nil {
		return f.ioErr
	}
	return closeErr
}

// From: https://stackoverflow.com/a/76023436
//
// BOMAwareCSVReader will detect a UTF BOM (Byte Order Mark) at the
// start of the data and transform to UTF8 accordingly.
// If there is no BOM, it will read the data without any transformation.
func BOMAwareCSVReader(reader io.Reader) *csv.Reader {
	var transformer = unicode.BOMOverride(encoding.Nop.NewDecoder())
	return csv.NewReader(transform.NewReader(reader, transformer))
}

// Writer writes delimited rows and remembers the first error.
type Writer struct {
	csvWriter *csv.Writer
	err       error
}

func NewWriter(w io.Writer, delimiter rune, useCRLF bool) *Writer {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	csvWriter.UseCRLF = useCRLF
	return &Writer{csvWriter: csvWriter}
}

func (w *Writer) Write(cells []string) {
	if w.err != nil {
		return
	}
	w.err = w.csvWriter.Write(cells)
}

// Flush flushes buffered rows and returns the first error seen by the writer.
func (w *Writer) Flush() error {
	w.csvWriter.Flush()
	if w.err != nil {
		return w.err
	}
	return w.csvWriter.Error()
}
