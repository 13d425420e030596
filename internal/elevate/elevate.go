// Package elevate wraps commands that need administrative privileges behind
// a single interactive authentication prompt.
//
// Elevation goes through pkexec, which shows one PolicyKit prompt per
// invocation and never leaves a persistent elevated shell behind. Secrets
// never appear in argument vectors or logs; the agent handles the
// credential exchange.
package elevate

import (
	"errors"
	"os/exec"
	"strings"
)

const helper = "pkexec"

// pkexec exit codes, from the pkexec(1) man page.
const (
	exitDenied    = 127 // not authorized, or an error occurred
	exitDismissed = 126 // user dismissed the authentication dialog
)

var (
	// ErrDenied is returned when authorization was refused.
	ErrDenied = errors.New("elevation denied")

	// ErrCancelled is returned when the user dismissed the authentication
	// prompt. Distinct from ErrDenied so a cancelled install is recorded as
	// CANCELLED, not FAILED.
	ErrCancelled = errors.New("elevation cancelled by user")

	// ErrHelperMissing is returned when no elevation helper is installed.
	ErrHelperMissing = errors.New("pkexec not found")
)

// Command prefixes argv with the elevation helper. The returned vector is
// executed directly, never through a shell.
func Command(argv []string) []string {
	return append([]string{helper}, argv...)
}

// Available reports whether the elevation helper is installed.
func Available() bool {
	_, err := exec.LookPath(helper)
	return err == nil
}

// Classify maps the exit status of an elevated command to an elevation
// error, or nil when it does not indicate an authentication outcome.
//
// 126 and 127 are ambiguous: the wrapped command can exit with them too.
// pkexec fails before the command ever runs and prints its own diagnostic,
// so the combined output disambiguates. A 126/127 without a pkexec
// diagnostic is the wrapped command's exit and stays the caller's business.
func Classify(exitCode int, output string) error {
	switch exitCode {
	case exitDismissed:
		if helperDiagnostic(output) {
			return ErrCancelled
		}
	case exitDenied:
		if helperDiagnostic(output) {
			return ErrDenied
		}
	}
	return nil
}

// helperDiagnostic reports whether output carries one of pkexec's own error
// messages. pkexec prints these with g_printerr before any command output
// can exist, untranslated.
func helperDiagnostic(output string) bool {
	for _, marker := range []string{
		"Error executing command as another user",
		"Request dismissed",
		"Not authorized",
		"polkit",
	} {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}
