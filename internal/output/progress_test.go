package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgressBarCompletesOnNonTTY(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(3, "starting")
	p.SetWriter(buf)

	// Non-TTY writers stay silent until the bar completes.
	p.Advance("a.deb (1/3)")
	p.Advance("b.snap (2/3)")
	if buf.Len() != 0 {
		t.Errorf("partial progress should not write to a non-TTY, got: %q", buf.String())
	}

	p.Advance("c.flatpak (3/3)")
	output := buf.String()
	if !strings.Contains(output, "100%") {
		t.Errorf("completed bar should show 100%%, got: %q", output)
	}
	if !strings.Contains(output, "c.flatpak (3/3)") {
		t.Errorf("completed bar should carry the last description, got: %q", output)
	}
	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("bar should contain brackets, got: %q", output)
	}
}

func TestProgressBarFinishIsIdempotent(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(2, "batch")
	p.SetWriter(buf)

	p.Advance("one")
	p.Advance("two")
	first := buf.String()

	p.Finish()
	if buf.String() != first {
		t.Errorf("Finish() after completion should not re-render on a non-TTY, got: %q", buf.String())
	}
}

func TestProgressBarFinishRendersOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(4, "batch")
	p.SetWriter(buf)

	p.Advance("one")
	p.Finish()

	output := buf.String()
	if !strings.Contains(output, "100%") {
		t.Errorf("Finish() should complete the bar, got: %q", output)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("non-TTY output should be a single line, got: %q", output)
	}
}

func TestProgressBarAdvanceClampsAtTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(1, "single")
	p.SetWriter(buf)

	p.Advance("done")
	p.Advance("over")

	if strings.Contains(buf.String(), "200%") {
		t.Errorf("bar must clamp at 100%%, got: %q", buf.String())
	}
}

func TestProgressBarZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(0, "empty")
	p.SetWriter(buf)

	// Must not divide by zero.
	p.Finish()
}

func TestSpinnerNonTTYPrintsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Installing app.deb", 5*time.Minute)
	s.SetWriter(buf)

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	output := buf.String()
	if !strings.Contains(output, "Installing app.deb...") {
		t.Errorf("non-TTY spinner should print the message once, got: %q", output)
	}
	if strings.Count(output, "Installing") != 1 {
		t.Errorf("non-TTY spinner must not animate, got: %q", output)
	}
}

func TestSpinnerStartIsIdempotent(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("working", 0)
	s.SetWriter(buf)

	s.Start()
	s.Start()
	s.Stop()

	if strings.Count(buf.String(), "working") != 1 {
		t.Errorf("double Start() must not repeat the message, got: %q", buf.String())
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Installing", 0)
	s.SetWriter(buf)

	s.Start()
	s.StopWithMessage("Installed app.deb")

	if !strings.Contains(buf.String(), "Installed app.deb") {
		t.Errorf("final message missing, got: %q", buf.String())
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := NewSpinner("idle", 0)
	s.SetWriter(&bytes.Buffer{})
	s.Stop() // must not panic or close a nil channel path
}

func TestSpinnerTimedMessage(t *testing.T) {
	s := NewSpinner("Installing pkg.deb", 300*time.Second)
	s.mu.Lock()
	s.startTime = time.Now().Add(-10 * time.Second)
	msg := s.timedMessage()
	s.mu.Unlock()

	if !strings.Contains(msg, "remaining") {
		t.Errorf("timeout spinner should count down, got: %q", msg)
	}

	s2 := NewSpinner("Extracting", 0)
	s2.mu.Lock()
	s2.startTime = time.Now().Add(-3 * time.Second)
	msg2 := s2.timedMessage()
	s2.mu.Unlock()

	if !strings.Contains(msg2, "elapsed") {
		t.Errorf("untimed spinner should count up, got: %q", msg2)
	}
}

func TestSpinnerUpdateMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("classifying", 0)
	s.SetWriter(buf)

	s.Start()
	s.UpdateMessage("installing")
	s.StopWithMessage("done")

	s.mu.Lock()
	got := s.message
	s.mu.Unlock()
	if got != "installing" {
		t.Errorf("message = %q, want %q", got, "installing")
	}
}
