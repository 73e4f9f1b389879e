// Package report exports the diagnostics of a merge run.
package report

import (
	_ "embed"
	"io"
	"strings"
	"text/template"

	"github.com/cutr-usf/stopmerge/constants"
	"github.com/cutr-usf/stopmerge/warnings"
)

//go:embed unmatched.csv.tmpl
var unmatchedCsvTmpl string

var funcMap = template.FuncMap{
	"CsvField": func(v any) string {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case constants.StaticFile:
			s = string(v)
		}
		if !strings.ContainsAny(s, ",\"\r\n") {
			return s
		}
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	},
}

var unmatchedCsv *template.Template = template.Must(template.New("unmatched.csv.tmpl").Funcs(funcMap).Parse(unmatchedCsvTmpl))

// Unmatched returns the stop-not-found warnings in the order they were raised.
func Unmatched(ws []warnings.Warning) []warnings.StopNotFound {
	var unmatched []warnings.StopNotFound
	for _, w := range ws {
		if w, ok := w.(warnings.StopNotFound); ok {
			unmatched = append(unmatched, w)
		}
	}
	return unmatched
}

// ExportUnmatchedCsv writes one CSV row per stop that had no match in the lookup table.
func ExportUnmatchedCsv(w io.Writer, ws []warnings.Warning) error {
	return unmatchedCsv.Execute(w, Unmatched(ws))
}
