package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
)

// debStrategy installs Debian packages through dpkg, then lets apt repair
// any dangling dependencies, the same two-step dance a user would do by
// hand.
type debStrategy struct {
	deps Deps
}

func (s *debStrategy) Format() classify.Format { return classify.Deb }

func (s *debStrategy) Install(ctx context.Context, req *Request) (string, error) {
	if err := probeTool("dpkg", "dpkg/apt"); err != nil {
		return "", err
	}

	res, err := s.deps.Runner.Run(ctx, []string{"dpkg", "-i", req.SourcePath}, true)
	if err != nil {
		return "", wrapRunErr(err, res)
	}

	// dpkg -i leaves the package half-configured when dependencies are
	// missing; apt-get -f pulls them in.
	if _, aptErr := lookPath("apt-get"); aptErr == nil {
		res, err = s.deps.Runner.Run(ctx, []string{"apt-get", "install", "-f", "-y"}, true)
		if err != nil {
			return "", fmt.Errorf("dependency fix-up: %w", wrapRunErr(err, res))
		}
	} else {
		s.deps.Log.Warn("apt-get not found, skipping dependency fix-up",
			zap.String("package", req.SourcePath))
	}

	return fmt.Sprintf("Successfully installed %s", filepath.Base(req.SourcePath)), nil
}
