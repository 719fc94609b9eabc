package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager()
	var buf bytes.Buffer
	m.SetOutput(&buf)
	m.StartDisplay()
	ok := m.Register("ok.nsp")
	skipped := m.Register("skipped.nsp")
	failed := m.Register("failed.nsp")
	if m.GetStatus(ok) != StatusPending {
		t.Fatalf("Expected pending, got %s", m.GetStatus(ok))
	}
	m.SetMessage(ok, "Splitting ok.nsp")
	m.SetProgress(ok, 50, 100, "50 B / 100 B")
	m.Complete(ok, "Split ok.nsp")
	m.ReportWarning(skipped, "Skipped skipped.nsp")
	m.ReportError(failed, "Failed failed.nsp", errors.New("disk full"))
	m.StopDisplay()

	success, warnings, failures := m.Counts()
	if success != 1 || warnings != 1 || failures != 1 {
		t.Fatalf("Expected 1/1/1, got %d/%d/%d", success, warnings, failures)
	}
	text := buf.String()
	for _, expected := range []string{"Completed 1 of 3", "Skipped 1 of 3", "Failed 1 of 3", "disk full", "File: failed.nsp"} {
		if !strings.Contains(text, expected) {
			t.Fatalf("Expected %q in output:\n%s", expected, text)
		}
	}
}

func TestManager_UnknownID(t *testing.T) {
	m := NewManager()
	m.SetMessage(42, "nothing")
	m.Complete(42, "")
	if m.GetStatus(42) != "unknown" {
		t.Fatal("Unregistered IDs must report unknown")
	}
}

func TestPrintProgressBar(t *testing.T) {
	if bar := PrintProgressBar(50, 100, 10); !strings.Contains(bar, "50.0%") {
		t.Fatalf("Expected 50.0%% in %q", bar)
	}
	if bar := PrintProgressBar(500, 100, 10); !strings.Contains(bar, "100.0%") {
		t.Fatalf("Expected clamped 100.0%% in %q", bar)
	}
	if bar := PrintProgressBar(0, 0, 0); !strings.Contains(bar, "0.0%") {
		t.Fatalf("Expected 0.0%% in %q", bar)
	}
}

func TestFormatSpeed(t *testing.T) {
	if FormatSpeed(10, 0) != "0 B/s" {
		t.Fatalf("Expected 0 B/s, got %s", FormatSpeed(10, 0))
	}
	if FormatSpeed(4_000_000, 2) != "2.0 MB/s" {
		t.Fatalf("Expected 2.0 MB/s, got %s", FormatSpeed(4_000_000, 2))
	}
}
