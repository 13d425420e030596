package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
)

// runBinStrategy marks the file executable and runs it directly. These are
// self-extracting vendor installers (.run/.bin); they get privileges only
// when the user explicitly asked for them on this request.
type runBinStrategy struct {
	deps Deps
}

func (s *runBinStrategy) Format() classify.Format { return classify.RunBin }

func (s *runBinStrategy) Install(ctx context.Context, req *Request) (string, error) {
	if err := os.Chmod(req.SourcePath, 0o755); err != nil {
		return "", fmt.Errorf("chmod %s: %w", req.SourcePath, err)
	}

	res, err := s.deps.Runner.Run(ctx, []string{req.SourcePath}, req.Options.Elevate)
	if err != nil {
		return "", wrapRunErr(err, res)
	}
	return fmt.Sprintf("Executed %s", filepath.Base(req.SourcePath)), nil
}
