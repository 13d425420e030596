// Package classify maps candidate package files to install formats.
//
// Classification is a pure function of the path string plus an
// existence/readability probe. File contents are never inspected: format
// trust is extension-based by design of the install workflow, and the
// per-format tools do their own validation of the payload.
package classify

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Format identifies the install strategy family for a file.
type Format string

const (
	Deb      Format = "deb"
	AppImage Format = "appimage"
	Tarball  Format = "tarball"
	Snap     Format = "snap"
	Flatpak  Format = "flatpak"
	RunBin   Format = "runbin"
	Unknown  Format = "unknown"
)

var (
	// ErrNotFound is returned when the candidate path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNotReadable is returned when the candidate exists but cannot be
	// opened for reading.
	ErrNotReadable = errors.New("file not readable")
)

// Detect returns the Format for path after verifying the file exists and is
// readable. Extensions are matched case-insensitively; compound tar
// extensions (.tar.gz, .tar.xz) take precedence over the final extension.
func Detect(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unknown, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if os.IsPermission(err) {
			return Unknown, fmt.Errorf("%w: %s", ErrNotReadable, path)
		}
		return Unknown, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Unknown, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("%w: %s", ErrNotReadable, path)
	}
	f.Close()

	return FromName(path), nil
}

// FromName classifies purely on the file name, without touching the
// filesystem. Useful for pre-filtering (e.g. directory watching) where the
// readability probe happens later at submission time.
func FromName(path string) Format {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".deb"):
		return Deb
	case strings.HasSuffix(lower, ".appimage"):
		return AppImage
	case strings.HasSuffix(lower, ".tar.gz"),
		strings.HasSuffix(lower, ".tgz"),
		strings.HasSuffix(lower, ".tar.xz"):
		return Tarball
	case strings.HasSuffix(lower, ".snap"):
		return Snap
	case strings.HasSuffix(lower, ".flatpak"):
		return Flatpak
	case strings.HasSuffix(lower, ".run"),
		strings.HasSuffix(lower, ".bin"):
		return RunBin
	default:
		return Unknown
	}
}

// String returns the human-readable name of the format.
func (f Format) String() string {
	return string(f)
}
