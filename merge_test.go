package stopmerge_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cutr-usf/stopmerge"
	"github.com/cutr-usf/stopmerge/config"
	"github.com/cutr-usf/stopmerge/csv"
	"github.com/cutr-usf/stopmerge/internal/testutil"
)

func newMergeConfig(t *testing.T, primary, secondary []string) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Primary.Path = testutil.WriteFile(t, dir, "stops1.txt", primary...)
	cfg.Secondary.Path = testutil.WriteFile(t, dir, "stops2.txt", secondary...)
	cfg.Output.Path = filepath.Join(dir, "stops.txt")
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %s", path, err)
	}
	return string(b)
}

func TestMergeFiles(t *testing.T) {
	cfg := newMergeConfig(t,
		[]string{"stop_id,stop_name,stop_lat,stop_lon", "1,Old,28.06,-82.41", "2,Keep,28.07,-82.42", "3,Marshall Center,28.06,-82.41"},
		[]string{"stop_id\tstop_name\tstop_code", "3\tMarshall Student Center\tMSC", "1\tNew\tA"},
	)

	result, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := "stop_id,stop_name,stop_lat,stop_lon\n" +
		"1,New,28.06,-82.41\n" +
		"2,Keep,28.07,-82.42\n" +
		"3,Marshall Student Center,28.06,-82.41\n"
	if got := readFile(t, cfg.Output.Path); got != expected {
		t.Errorf("output actual:\n%s\n!= expected:\n%s", got, expected)
	}
	if result.Stats.NotFound != 1 || result.Stats.Renamed != 2 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
}

func TestMergeFilesIsDeterministic(t *testing.T) {
	cfg := newMergeConfig(t,
		[]string{"stop_id,stop_name", "1,Old", "2,Keep", "1,Again"},
		[]string{"stop_id\tstop_name", "1\tNew", "1\tNewer"},
	)
	if _, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	first := readFile(t, cfg.Output.Path)
	if _, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if second := readFile(t, cfg.Output.Path); first != second {
		t.Errorf("second run differs:\n%s\n!=\n%s", first, second)
	}
	if want := "stop_id,stop_name\n1,Newer\n2,Keep\n1,Newer\n"; first != want {
		t.Errorf("got %q, want %q", first, want)
	}
}

func TestMergeFilesStrict(t *testing.T) {
	cfg := newMergeConfig(t,
		[]string{"stop_id,stop_name", "1,Old", "2,Keep"},
		[]string{"stop_id\tstop_name", "1\tNew"},
	)
	cfg.Strict = true
	result, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger)
	if !errors.Is(err, stopmerge.ErrUnmatchedStops) {
		t.Fatalf("got error %v, want ErrUnmatchedStops", err)
	}
	if result == nil || result.Stats.NotFound != 1 {
		t.Errorf("expected the result to be returned with the error")
	}
	if got, want := readFile(t, cfg.Output.Path), "stop_id,stop_name\n1,New\n2,Keep\n"; got != want {
		t.Errorf("output was not written before failing: %q", got)
	}
}

func TestMergeFilesReport(t *testing.T) {
	cfg := newMergeConfig(t,
		[]string{"stop_id,stop_name", "1,Old", "2,Keep", "9,Gone"},
		[]string{"stop_id\tstop_name", "1\tNew"},
	)
	cfg.ReportPath = filepath.Join(filepath.Dir(cfg.Output.Path), "unmatched.csv")
	if _, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := "file,row,stop_id,stop_name\nstops1.txt,2,2,Keep\nstops1.txt,3,9,Gone\n"
	if got := readFile(t, cfg.ReportPath); got != want {
		t.Errorf("report actual:\n%s\n!= expected:\n%s", got, want)
	}
}

func TestMergeFilesFatalErrors(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		primary   []string
		secondary []string
		mutate    func(cfg *config.Config)
		is        error
	}{
		{
			desc:      "missing secondary file",
			primary:   []string{"stop_id,stop_name", "1,Old"},
			secondary: []string{"stop_id\tstop_name", "1\tNew"},
			mutate: func(cfg *config.Config) {
				cfg.Secondary.Path = filepath.Join(filepath.Dir(cfg.Secondary.Path), "missing.txt")
			},
			is: os.ErrNotExist,
		},
		{
			desc:      "malformed primary row",
			primary:   []string{"stop_id,stop_name", "1,Old,extra"},
			secondary: []string{"stop_id\tstop_name", "1\tNew"},
			is:        csv.ErrFieldCount,
		},
		{
			desc:      "malformed secondary row",
			primary:   []string{"stop_id,stop_name", "1,Old"},
			secondary: []string{"stop_id\tstop_name", "1"},
			is:        csv.ErrFieldCount,
		},
		{
			desc:      "missing key column",
			primary:   []string{"id,stop_name", "1,Old"},
			secondary: []string{"stop_id\tstop_name", "1\tNew"},
			is:        stopmerge.ErrMissingColumn,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := newMergeConfig(t, tc.primary, tc.secondary)
			if tc.mutate != nil {
				tc.mutate(&cfg)
			}
			_, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger)
			if !errors.Is(err, tc.is) {
				t.Fatalf("got error %v, want %v", err, tc.is)
			}
			if _, err := os.Stat(cfg.Output.Path); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("output file was created on a failed run")
			}
		})
	}
}

func TestMergeFilesUnwritableOutput(t *testing.T) {
	cfg := newMergeConfig(t,
		[]string{"stop_id,stop_name", "1,Old"},
		[]string{"stop_id\tstop_name", "1\tNew"},
	)
	cfg.Output.Path = filepath.Join(filepath.Dir(cfg.Output.Path), "no-such-dir", "stops.txt")
	if _, err := stopmerge.MergeFiles(context.Background(), cfg, discardLogger); err == nil {
		t.Fatalf("expected an error for an unwritable output")
	}
}

func TestMergeFilesCanceled(t *testing.T) {
	cfg := newMergeConfig(t,
		[]string{"stop_id,stop_name", "1,Old"},
		[]string{"stop_id\tstop_name", "1\tNew"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := stopmerge.MergeFiles(ctx, cfg, discardLogger); !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want context.Canceled", err)
	}
}
