package main

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/cutr-usf/stopmerge"
	"github.com/cutr-usf/stopmerge/config"
	"github.com/cutr-usf/stopmerge/constants"
	"github.com/cutr-usf/stopmerge/internal/logging"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stopmerge",
		Usage: "merge stop names from a lookup table into a GTFS stops table",
		Commands: []*cli.Command{
			{
				Name:  "merge",
				Usage: "replace stop names in the primary stops table with names from the lookup table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML file with merge settings",
					},
					&cli.StringFlag{
						Name:  "primary",
						Usage: "comma-delimited stops table to emit",
						Value: string(constants.PrimaryStopsFile),
					},
					&cli.StringFlag{
						Name:  "secondary",
						Usage: "tab-delimited stops table to take names from",
						Value: string(constants.SecondaryStopsFile),
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "path of the merged stops table",
						Value: string(constants.MergedStopsFile),
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "column used to match rows",
						Value: string(constants.StopID),
					},
					&cli.StringFlag{
						Name:  "field",
						Usage: "column replaced from the lookup table",
						Value: string(constants.StopName),
					},
					&cli.BoolFlag{
						Name:  "first-wins",
						Usage: "keep the first lookup row for a duplicated key instead of the last",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "fail the run if a stop is not found in the lookup table",
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "write a CSV listing of the stops not found in the lookup table",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "log every renamed stop",
					},
					&cli.StringFlag{
						Name:    "seq-url",
						Usage:   "also send log events to this Seq server",
						EnvVars: []string{"STOPMERGE_SEQ_URL"},
					},
				},
				Action: func(ctx *cli.Context) error {
					cfg, err := config.Load(ctx.String("config"))
					if err != nil {
						return err
					}
					applyFlags(ctx, &cfg)
					if err := config.Validate(cfg); err != nil {
						return err
					}
					logger, done := logging.New(ctx.App.ErrWriter, logging.Options{
						Verbose: ctx.Bool("verbose"),
						SeqURL:  ctx.String("seq-url"),
					})
					defer done()

					result, err := stopmerge.MergeFiles(ctx.Context, cfg, logger)
					if result != nil {
						printSummary(ctx.App.Writer, cfg, result)
					}
					if err != nil {
						return fmt.Errorf("failed to merge stops: %w", err)
					}
					return nil
				},
			},
			{
				Name:      "hash",
				Usage:     "print the SHA-256 digest of a stops table's content",
				ArgsUsage: "path",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "delimiter",
						Usage: "delimiter of the table: comma, tab",
						Value: string(config.Comma),
					},
				},
				Action: func(ctx *cli.Context) error {
					if ctx.Args().Len() == 0 {
						return fmt.Errorf("a path to the stops table was not provided")
					}
					path := ctx.Args().First()
					delimiter := config.Delimiter(ctx.String("delimiter"))
					if delimiter != config.Comma && delimiter != config.Tab {
						return fmt.Errorf("unknown delimiter %q", delimiter)
					}
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to read file %s: %w", path, err)
					}
					defer f.Close()
					table, err := stopmerge.ReadTable(constants.StaticFile(path), f, delimiter.Rune())
					if err != nil {
						return fmt.Errorf("failed to parse %s: %w", path, err)
					}
					fmt.Fprintf(ctx.App.Writer, "%s  %s\n", digest(table), path)
					return nil
				},
			},
		},
	}
}

// applyFlags overrides the config with the flags given on the command line.
func applyFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet("primary") {
		cfg.Primary.Path = ctx.String("primary")
	}
	if ctx.IsSet("secondary") {
		cfg.Secondary.Path = ctx.String("secondary")
	}
	if ctx.IsSet("output") {
		cfg.Output.Path = ctx.String("output")
	}
	if ctx.IsSet("key") {
		cfg.Key = ctx.String("key")
	}
	if ctx.IsSet("field") {
		cfg.Field = ctx.String("field")
	}
	if ctx.Bool("first-wins") {
		cfg.Duplicates = "first"
	}
	if ctx.Bool("strict") {
		cfg.Strict = true
	}
	if ctx.IsSet("report") {
		cfg.ReportPath = ctx.String("report")
	}
}

func digest(table *stopmerge.Table) string {
	h := sha256.New()
	table.Hash(h)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func printSummary(w io.Writer, cfg config.Config, result *stopmerge.Result) {
	pc := color.New(color.FgCyan)
	mc := color.New(color.FgGreen)
	wc := color.New(color.FgYellow)
	fmt.Fprintf(w,
		"Wrote %s  Rows %s  Matched %s  Renamed %s  NotFound %s  Duplicates %s\n",
		pc.Sprint(cfg.Output.Path),
		pc.Sprint(result.Stats.Rows),
		mc.Sprint(result.Stats.Matched),
		mc.Sprint(result.Stats.Renamed),
		wc.Sprint(result.Stats.NotFound),
		wc.Sprint(result.Stats.Duplicates),
	)
	fmt.Fprintf(w, "Digest %s\n", pc.Sprint(digest(result.Table)))
}
