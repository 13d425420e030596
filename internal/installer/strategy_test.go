package installer

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/runner"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		Runner:     runner.New(10*time.Second, nil),
		InstallDir: t.TempDir(),
	}
}

// stubLookPath makes every probed tool appear missing for the duration of
// the test.
func stubLookPath(t *testing.T) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestStrategiesCoverAllKnownFormats(t *testing.T) {
	m := Strategies(testDeps(t))

	for _, f := range []classify.Format{
		classify.Deb, classify.AppImage, classify.Tarball,
		classify.Snap, classify.Flatpak, classify.RunBin,
	} {
		s, ok := m[f]
		if !ok {
			t.Errorf("no strategy registered for %v", f)
			continue
		}
		if s.Format() != f {
			t.Errorf("strategy for %v reports format %v", f, s.Format())
		}
	}

	if _, ok := m[classify.Unknown]; ok {
		t.Error("unknown format must not have a strategy")
	}
}

func TestMissingToolProbes(t *testing.T) {
	stubLookPath(t)
	deps := testDeps(t)

	src := filepath.Join(t.TempDir(), "x")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		strategy Strategy
		wantTool string
	}{
		{&debStrategy{deps}, "dpkg/apt"},
		{&snapStrategy{deps}, "snapd"},
		{&flatpakStrategy{deps}, "flatpak"},
		{&tarballStrategy{deps}, "tar"},
	}

	for _, tt := range tests {
		t.Run(tt.wantTool, func(t *testing.T) {
			req := NewRequest(src, tt.strategy.Format(), Options{})
			_, err := tt.strategy.Install(context.Background(), req)

			var missing *MissingToolError
			if !errors.As(err, &missing) {
				t.Fatalf("Install() error = %v, want MissingToolError", err)
			}
			if missing.Tool != tt.wantTool {
				t.Errorf("missing tool = %q, want %q", missing.Tool, tt.wantTool)
			}
			if !strings.Contains(missing.Error(), tt.wantTool) {
				t.Errorf("error message %q should name the tool", missing.Error())
			}
		})
	}
}

func TestAppImageInstallCopiesWithExecBit(t *testing.T) {
	deps := testDeps(t)
	s := &appImageStrategy{deps}

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "calculator.AppImage")
	if err := os.WriteFile(src, []byte("squashfs"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg, err := s.Install(context.Background(), NewRequest(src, classify.AppImage, Options{}))
	if err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	dest := filepath.Join(deps.InstallDir, "calculator.AppImage")
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o100 == 0 {
		t.Error("destination should be executable")
	}
	if !strings.Contains(msg, dest) {
		t.Errorf("message %q should name the destination", msg)
	}

	// Source preserved (copy, not move).
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should still exist: %v", err)
	}
}

func TestAppImageInstallAvoidsOverwrite(t *testing.T) {
	deps := testDeps(t)
	s := &appImageStrategy{deps}

	src := filepath.Join(t.TempDir(), "calculator.AppImage")
	if err := os.WriteFile(src, []byte("v2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	existing := filepath.Join(deps.InstallDir, "calculator.AppImage")
	if err := os.WriteFile(existing, []byte("v1"), 0o755); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	msg, err := s.Install(context.Background(), NewRequest(src, classify.AppImage, Options{}))
	if err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	renamed := filepath.Join(deps.InstallDir, "calculator (1).AppImage")
	if _, err := os.Stat(renamed); err != nil {
		t.Fatalf("conflict-resolved destination missing: %v", err)
	}
	if !strings.Contains(msg, renamed) {
		t.Errorf("message %q should name the renamed destination", msg)
	}

	// First install untouched.
	data, err := os.ReadFile(existing)
	if err != nil || string(data) != "v1" {
		t.Errorf("existing install was overwritten: %q, %v", data, err)
	}
}

func TestRunBinExecutesFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executes a shell script")
	}

	deps := testDeps(t)
	s := &runBinStrategy{deps}

	src := filepath.Join(t.TempDir(), "setup.run")
	if err := os.WriteFile(src, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg, err := s.Install(context.Background(), NewRequest(src, classify.RunBin, Options{}))
	if err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	if !strings.Contains(msg, "setup.run") {
		t.Errorf("message %q should name the file", msg)
	}

	info, err := os.Stat(src)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Error("source should have been made executable")
	}
}

func TestTarballExtraction(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires tar")
	}
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar not installed")
	}

	deps := testDeps(t)
	s := &tarballStrategy{deps}

	// Build a small archive with tar itself.
	srcDir := t.TempDir()
	payload := filepath.Join(srcDir, "hello.txt")
	if err := os.WriteFile(payload, []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	archive := filepath.Join(srcDir, "myapp.tar.gz")
	cmd := exec.Command("tar", "-czf", archive, "-C", srcDir, "hello.txt")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("tar -czf: %v (%s)", err, out)
	}

	msg, err := s.Install(context.Background(), NewRequest(archive, classify.Tarball, Options{}))
	if err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	target := filepath.Join(deps.InstallDir, "myapp")
	if _, err := os.Stat(filepath.Join(target, "hello.txt")); err != nil {
		t.Errorf("extracted payload missing: %v", err)
	}
	if !strings.Contains(msg, target) {
		t.Errorf("message %q should name the extraction directory", msg)
	}
}

func TestStripArchiveExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"app.tar.gz", "app"},
		{"app.tar.xz", "app"},
		{"app.tgz", "app"},
		{"App-1.2.3.tar.gz", "App-1.2.3"},
	}
	for _, tt := range tests {
		if got := stripArchiveExt(tt.in); got != tt.want {
			t.Errorf("stripArchiveExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScriptWantsRoot(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}

	system := write("system.sh", "#!/bin/sh\ncp -r . /opt/myapp\n")
	if !scriptWantsRoot(system) {
		t.Error("script touching /opt should want root")
	}

	local := write("local.sh", "#!/bin/sh\nmkdir -p \"$HOME/.local/share/myapp\"\n")
	if scriptWantsRoot(local) {
		t.Error("script staying in $HOME should not want root")
	}
}
