package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/conflict"
)

// tarballStrategy extracts the archive into its own subdirectory of the
// applications directory, then optionally runs a bundled install.sh.
type tarballStrategy struct {
	deps Deps
}

func (s *tarballStrategy) Format() classify.Format { return classify.Tarball }

func (s *tarballStrategy) Install(ctx context.Context, req *Request) (string, error) {
	if err := probeTool("tar", "tar"); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.deps.InstallDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.deps.InstallDir, err)
	}

	name := stripArchiveExt(filepath.Base(req.SourcePath))
	target := conflict.Resolve(filepath.Join(s.deps.InstallDir, name))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}

	res, err := s.deps.Runner.Run(ctx, []string{"tar", "-xf", req.SourcePath, "-C", target}, false)
	if err != nil {
		return "", wrapRunErr(err, res)
	}

	msg := fmt.Sprintf("Extracted to %s", target)

	script := filepath.Join(target, "install.sh")
	if _, err := os.Stat(script); err != nil {
		return msg, nil
	}
	if !req.Options.RunScripts {
		return msg + " (install.sh present, not run)", nil
	}

	if err := os.Chmod(script, 0o755); err != nil {
		return msg, fmt.Errorf("chmod install.sh: %w", err)
	}

	elevated := scriptWantsRoot(script)
	s.deps.Log.Info("running bundled install script",
		zap.String("script", script),
		zap.Bool("elevated", elevated),
	)
	res, err = s.deps.Runner.Run(ctx, []string{"bash", script}, elevated)
	if err != nil {
		return msg, fmt.Errorf("install.sh: %w", wrapRunErr(err, res))
	}
	return msg + "; ran install.sh", nil
}

// scriptWantsRoot guesses whether the bundled script needs privileges.
// Vendor install scripts that touch system paths or check for root get
// elevated; anything else runs as the user. Crude, but matches what these
// scripts actually do in the wild.
func scriptWantsRoot(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	body := string(data)
	for _, marker := range []string{"/usr/", "/opt/", "/etc/", "EUID", "whoami", "must be run as root"} {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
