package loader

import "fmt"

// IndexLoadError reports that the search index could not be loaded.
type IndexLoadError struct {
	Location string
	Reason   string
	Err      error
}

func (e *IndexLoadError) Error() string {
	msg := fmt.Sprintf("failed to load search index from %s: %s", e.Location, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IndexLoadError) Unwrap() error {
	return e.Err
}
