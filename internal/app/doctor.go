package app

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/output"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which package tools and helpers are available",
	Long: `Runs diagnostic checks on this system's install tooling.

Checks:
  • pkexec is available for privilege escalation
  • Per-format tools (dpkg, apt-get, tar, snap, flatpak) are present
  • The history database opens and is readable
  • The watch daemon state`,
	RunE: runDoctor,
}

// toolProbe describes one external dependency to check. Format tools are
// optional: a missing one only disables that format.
type toolProbe struct {
	name     string
	purpose  string
	optional bool
}

var toolProbes = []toolProbe{
	{name: "pkexec", purpose: "privilege escalation (deb, snap, system flatpak)"},
	{name: "dpkg", purpose: ".deb packages", optional: true},
	{name: "apt-get", purpose: ".deb dependency resolution", optional: true},
	{name: "tar", purpose: ".tar.gz/.tgz/.tar.xz archives", optional: true},
	{name: "snap", purpose: ".snap packages", optional: true},
	{name: "flatpak", purpose: ".flatpak packages", optional: true},
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running lui diagnostics...")
	fmt.Println()

	// Critical issues break installs outright; warnings only narrow the set
	// of installable formats. Warnings-only exits 2, criticals exit 1.
	criticalIssues := 0
	warningIssues := 0

	// Check 1: external tools
	var tools []output.ToolStatus
	for _, probe := range toolProbes {
		_, err := exec.LookPath(probe.name)
		found := err == nil
		tools = append(tools, output.ToolStatus{
			Name:     probe.name,
			Found:    found,
			Optional: probe.optional,
			Purpose:  probe.purpose,
		})
		if !found {
			if probe.optional {
				warningIssues++
			} else {
				criticalIssues++
			}
		}
	}
	fmt.Print(output.RenderToolTable(tools))
	fmt.Println()

	// Check 2: history database opens and is readable
	db, err := openLedger()
	if err != nil {
		fmt.Println("✗ History database:", err)
		criticalIssues++
	} else {
		count, err := db.Count()
		db.Close()
		if err != nil {
			fmt.Println("✗ History database unreadable:", err)
			criticalIssues++
		} else {
			fmt.Printf("✓ History database OK (%d attempt(s) recorded)\n", count)
		}
	}

	// Check 3: watch daemon state, informational only
	pidFile, err := getDefaultPIDFile()
	if err != nil {
		fmt.Println("⚠ Failed to get PID file path:", err)
		warningIssues++
	} else if running, _ := watcher.IsDaemonRunning(pidFile); running {
		fmt.Println("✓ Watch daemon running")
	} else {
		fmt.Println("- Watch daemon not running (optional; 'lui watch --daemon' to start)")
	}

	fmt.Println()
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Println("✓ All checks passed. Every format is installable.")
		return nil
	}

	if criticalIssues > 0 {
		fmt.Printf("Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		if _, err := exec.LookPath("pkexec"); err != nil {
			fmt.Println("  Action: install polkit to get pkexec; privileged installs cannot prompt without it")
		}
		return fmt.Errorf("diagnostics failed")
	}

	// Warnings only: some formats are unavailable but the tool works. Exit 2
	// directly so main's error handler doesn't double-print.
	fmt.Printf("Found %d warning(s). Missing optional tools disable their formats only.\n", warningIssues)
	os.Exit(2)
	return nil // unreachable; satisfies compiler
}
