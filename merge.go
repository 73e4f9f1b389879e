package stopmerge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cutr-usf/stopmerge/config"
	"github.com/cutr-usf/stopmerge/constants"
	"github.com/cutr-usf/stopmerge/report"
)

// MergeFiles reads the two stop tables named by the config, joins them and writes the merged table.
//
// The output file is only created once both inputs have been parsed. If the write fails the
// output file content is undefined. In strict mode a run with unmatched stops returns the result
// and an error wrapping ErrUnmatchedStops after the output has been written.
func MergeFiles(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	policy, ok := NewDuplicatePolicy(cfg.Duplicates)
	if !ok {
		return nil, fmt.Errorf("unknown duplicate policy %q", cfg.Duplicates)
	}
	secondary, err := readTableFile(cfg.Secondary)
	if err != nil {
		return nil, err
	}
	logger.Debug("read lookup table", slog.String("path", cfg.Secondary.Path), slog.Int("rows", len(secondary.Records)))
	primary, err := readTableFile(cfg.Primary)
	if err != nil {
		return nil, err
	}
	logger.Debug("read primary table", slog.String("path", cfg.Primary.Path), slog.Int("rows", len(primary.Records)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := JoinTables(primary, secondary, policy, JoinOptions{
		Key:    cfg.Key,
		Field:  cfg.Field,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writeTableFile(cfg.Output, result.Table); err != nil {
		return nil, err
	}
	logger.Info("wrote merged stops",
		slog.String("path", cfg.Output.Path),
		slog.Int("rows", result.Stats.Rows),
		slog.Int("matched", result.Stats.Matched),
		slog.Int("renamed", result.Stats.Renamed),
		slog.Int("not_found", result.Stats.NotFound),
	)
	if cfg.ReportPath != "" {
		if err := writeReportFile(cfg.ReportPath, result); err != nil {
			return nil, err
		}
	}
	if cfg.Strict && result.Stats.NotFound > 0 {
		return result, fmt.Errorf("%d %w", result.Stats.NotFound, ErrUnmatchedStops)
	}
	return result, nil
}

func readTableFile(input config.Input) (*Table, error) {
	f, err := os.Open(input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", input.Path, err)
	}
	defer f.Close()
	return ReadTable(constants.StaticFile(filepath.Base(input.Path)), f, input.Delimiter.Rune())
}

func writeTableFile(output config.Output, table *Table) error {
	f, err := os.Create(output.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output.Path, err)
	}
	if err := WriteTable(f, table, output.Delimiter.Rune(), output.UseCRLF()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", output.Path, err)
	}
	return nil
}

func writeReportFile(path string, result *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.ExportUnmatchedCsv(f, result.Warnings); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
