package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
)

// snapStrategy installs a local .snap through snapd. Local files are
// unsigned from snapd's point of view, hence --dangerous.
type snapStrategy struct {
	deps Deps
}

func (s *snapStrategy) Format() classify.Format { return classify.Snap }

func (s *snapStrategy) Install(ctx context.Context, req *Request) (string, error) {
	if err := probeTool("snap", "snapd"); err != nil {
		return "", err
	}

	res, err := s.deps.Runner.Run(ctx, []string{"snap", "install", "--dangerous", req.SourcePath}, true)
	if err != nil {
		return "", wrapRunErr(err, res)
	}
	return fmt.Sprintf("Successfully installed %s", filepath.Base(req.SourcePath)), nil
}
