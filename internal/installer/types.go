package installer

import (
	"time"

	"github.com/google/uuid"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
)

// Options carries per-request switches supplied by the caller.
type Options struct {
	// Elevate runs .run/.bin installers with privileges. Off by default;
	// direct execution of arbitrary vendor binaries as root is opt-in only.
	Elevate bool

	// SystemWide installs flatpaks system-wide (elevated) instead of
	// per-user.
	SystemWide bool

	// RunScripts permits executing an install.sh found inside an extracted
	// tarball.
	RunScripts bool
}

// Request describes one file submitted for installation. Immutable once
// created; owned by the queue slot or in-flight engine invocation holding
// it.
type Request struct {
	ID          string
	SourcePath  string
	Format      classify.Format
	Options     Options
	SubmittedAt time.Time
}

// NewRequest builds a Request for an already-classified file.
func NewRequest(path string, format classify.Format, opts Options) *Request {
	return &Request{
		ID:          uuid.NewString(),
		SourcePath:  path,
		Format:      format,
		Options:     opts,
		SubmittedAt: time.Now(),
	}
}

// Status is the terminal state of an installation attempt.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
	StatusCancelled Status = "cancelled"
)

// Outcome records one completed installation attempt. Created exactly once
// per attempt and never mutated after it reaches the history ledger.
type Outcome struct {
	Request    *Request
	Status     Status
	Message    string
	SHA256     string
	SizeBytes  int64
	FinishedAt time.Time
}
