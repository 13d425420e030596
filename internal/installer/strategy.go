// Package installer holds the per-format install strategies.
//
// Each strategy knows how to install one format family and nothing else:
// which external tool it needs, how to build the argument vector, and
// whether the command runs elevated. Process execution, timeouts, and kill
// semantics all live in the runner; file-copy destinations come from the
// conflict resolver.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/runner"
)

// lookPath is swapped out in tests to simulate missing tools.
var lookPath = exec.LookPath

// Strategy installs files of one format family.
type Strategy interface {
	Format() classify.Format
	Install(ctx context.Context, req *Request) (message string, err error)
}

// Deps bundles the collaborators every strategy shares.
type Deps struct {
	Runner     *runner.Runner
	InstallDir string // destination for file-copy formats, e.g. ~/Applications
	Log        *zap.Logger
}

// Strategies returns the full variant set keyed by format. Unknown has no
// strategy; the engine rejects it before dispatch.
func Strategies(deps Deps) map[classify.Format]Strategy {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	all := []Strategy{
		&debStrategy{deps},
		&appImageStrategy{deps},
		&tarballStrategy{deps},
		&snapStrategy{deps},
		&flatpakStrategy{deps},
		&runBinStrategy{deps},
	}
	m := make(map[classify.Format]Strategy, len(all))
	for _, s := range all {
		m[s.Format()] = s
	}
	return m
}

// probeTool checks that an external tool exists before anything is spawned.
func probeTool(tool, reportAs string) error {
	if _, err := lookPath(tool); err != nil {
		return &MissingToolError{Tool: reportAs}
	}
	return nil
}

// wrapRunErr attaches the tail of the command output to a runner error so
// outcome messages carry the actual tool diagnostic.
func wrapRunErr(err error, res *runner.Result) error {
	if res == nil || strings.TrimSpace(res.Output) == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, lastLine(res.Output))
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// copyFile copies src to dst with the given mode. Copy, not move: the
// source usually lives in a downloads directory the user still owns.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}

// stripArchiveExt drops the tar extension from a file name to form the
// extraction directory name.
func stripArchiveExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".tar.gz", ".tar.xz", ".tgz"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
