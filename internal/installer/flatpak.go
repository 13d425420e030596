package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
)

// flatpakStrategy installs a .flatpak bundle, per-user by default.
// System-wide installs go through the elevation helper.
type flatpakStrategy struct {
	deps Deps
}

func (s *flatpakStrategy) Format() classify.Format { return classify.Flatpak }

func (s *flatpakStrategy) Install(ctx context.Context, req *Request) (string, error) {
	if err := probeTool("flatpak", "flatpak"); err != nil {
		return "", err
	}

	argv := []string{"flatpak", "install", "-y", "--user", req.SourcePath}
	elevated := false
	if req.Options.SystemWide {
		argv = []string{"flatpak", "install", "-y", "--system", req.SourcePath}
		elevated = true
	}

	res, err := s.deps.Runner.Run(ctx, argv, elevated)
	if err != nil {
		return "", wrapRunErr(err, res)
	}
	return fmt.Sprintf("Successfully installed %s", filepath.Base(req.SourcePath)), nil
}
