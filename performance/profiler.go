package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	"github.com/cutr-usf/stopmerge"
	"github.com/cutr-usf/stopmerge/constants"
)

var (
	out        = flag.String("out", "stopmerge_profile.pb.gz", "file path to output the profile to")
	primary    = flag.String("primary", string(constants.PrimaryStopsFile), "comma-delimited stops table")
	secondary  = flag.String("secondary", string(constants.SecondaryStopsFile), "tab-delimited lookup table")
	iterations = flag.Int("n", 100, "number of joins to profile")
)

func main() {
	if err := run(); err != nil {
		fmt.Println("failed:", err)
		os.Exit(1)
	}
}

func readTable(path string, delimiter rune) (*stopmerge.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return stopmerge.ReadTable(constants.StaticFile(path), bytes.NewReader(b), delimiter)
}

func run() error {
	flag.Parse()
	primaryTable, err := readTable(*primary, constants.Comma)
	if err != nil {
		return err
	}
	secondaryTable, err := readTable(*secondary, constants.Tab)
	if err != nil {
		return err
	}
	opts := stopmerge.JoinOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	fmt.Println("starting profile")
	var profile bytes.Buffer
	if err := pprof.StartCPUProfile(&profile); err != nil {
		return err
	}
	for i := 0; i < *iterations; i++ {
		result, err := stopmerge.JoinTables(primaryTable, secondaryTable, stopmerge.LastWins, opts)
		if err != nil {
			pprof.StopCPUProfile()
			return err
		}
		if err := stopmerge.WriteTable(io.Discard, result.Table, constants.Comma, false); err != nil {
			pprof.StopCPUProfile()
			return err
		}
	}
	pprof.StopCPUProfile()

	fmt.Println("writing profile to", *out)
	return os.WriteFile(*out, profile.Bytes(), 0644)
}
