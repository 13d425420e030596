// Package integrity computes content digests of candidate package files for
// the audit trail and duplicate detection.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrRead is returned when a file becomes unreadable mid-hash, e.g. removed
// or truncated concurrently. The failure is reported, never retried.
var ErrRead = errors.New("read failed while hashing")

// FileSHA256 returns the hex-encoded SHA-256 digest of the file's full
// contents. The file is streamed through the hash so memory use stays
// bounded regardless of file size.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Size returns the file's size in bytes, or 0 if it cannot be determined.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
