package dataset

import "fmt"

// MissingFileError reports a required input file that was not found.
// Fatal to the load call; never retried.
type MissingFileError struct {
	File string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required dataset file missing: %s", e.File)
}

// MalformedDataError reports a required column absent from an input file.
// Fatal to the load call.
type MalformedDataError struct {
	File   string
	Column string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("%s: required column %q not found in header", e.File, e.Column)
}
