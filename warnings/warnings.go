package warnings

import (
	"fmt"

	"github.com/cutr-usf/stopmerge/constants"
)

// Warning is a non-fatal diagnostic raised while merging.
type Warning interface {
	File() constants.StaticFile
	Error() string
}

// StopNotFound is raised when a primary row's key has no match in the lookup table.
type StopNotFound struct {
	SourceFile constants.StaticFile
	StopID     string
	StopName   string
	Row        int
}

func (w StopNotFound) File() constants.StaticFile {
	return w.SourceFile
}

func (w StopNotFound) Error() string {
	return fmt.Sprintf("row %d: stop %q not found in lookup table; keeping name %q", w.Row, w.StopID, w.StopName)
}

// DuplicateKey is raised when the lookup table contains the same key more than once.
type DuplicateKey struct {
	SourceFile constants.StaticFile
	StopID     string
	Row        int
	// Kept is the 1-based row whose record remains in the lookup table.
	Kept int
}

func (w DuplicateKey) File() constants.StaticFile {
	return w.SourceFile
}

func (w DuplicateKey) Error() string {
	return fmt.Sprintf("row %d: duplicate stop %q; using row %d", w.Row, w.StopID, w.Kept)
}
