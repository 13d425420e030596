package installer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for files no strategy can handle. No
// process is spawned and no lock is taken for such requests.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// MissingToolError reports that the external tool a strategy depends on is
// not installed. Detected by a cheap probe before any process is spawned,
// so "tool missing" is never conflated with "tool failed".
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("required tool not installed: %s", e.Tool)
}
