package constants

type StaticFile string

const (
	// PrimaryStopsFile is the comma-delimited stops table whose rows are emitted.
	PrimaryStopsFile StaticFile = "stops1.txt"
	// SecondaryStopsFile is the tab-delimited stops table used as the lookup source.
	SecondaryStopsFile StaticFile = "stops2.txt"
	// MergedStopsFile is where the merged table is written.
	MergedStopsFile StaticFile = "stops.txt"
)

type Column string

const (
	StopID   Column = "stop_id"
	StopName Column = "stop_name"
)

const (
	Comma rune = ','
	Tab   rune = '\t'
)
