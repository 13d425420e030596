package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/conflict"
)

// appImageStrategy copies the AppImage into the applications directory with
// the executable bit set. Pure file operations; no subprocess, no
// elevation.
type appImageStrategy struct {
	deps Deps
}

func (s *appImageStrategy) Format() classify.Format { return classify.AppImage }

func (s *appImageStrategy) Install(_ context.Context, req *Request) (string, error) {
	if err := os.MkdirAll(s.deps.InstallDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.deps.InstallDir, err)
	}

	dest := conflict.Resolve(filepath.Join(s.deps.InstallDir, filepath.Base(req.SourcePath)))
	if err := copyFile(req.SourcePath, dest, 0o755); err != nil {
		return "", err
	}

	// The source keeps its executable bit too, so double-clicking the
	// original still works.
	if err := os.Chmod(req.SourcePath, 0o755); err != nil {
		s.deps.Log.Warn("could not set executable bit on source")
	}

	return fmt.Sprintf("AppImage installed to %s", dest), nil
}
