package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cutr-usf/stopmerge"
	"github.com/cutr-usf/stopmerge/constants"
)

// MustReadTable parses lines joined by newlines as a delimited table.
func MustReadTable(t *testing.T, name constants.StaticFile, delimiter rune, lines ...string) *stopmerge.Table {
	t.Helper()
	table, err := stopmerge.ReadTable(name, strings.NewReader(strings.Join(lines, "\n")), delimiter)
	if err != nil {
		t.Fatalf("failed to read table %s: %s", name, err)
	}
	return table
}

// WriteFile writes lines joined by newlines to a file in dir and returns its path.
func WriteFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("failed to write %s: %s", path, err)
	}
	return path
}

// Rows returns the cells of every record of the table.
func Rows(table *stopmerge.Table) [][]string {
	var rows [][]string
	for _, record := range table.Records {
		rows = append(rows, record.Values())
	}
	return rows
}
