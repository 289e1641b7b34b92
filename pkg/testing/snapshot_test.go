package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/chart/pkg/spec"
)

func sampleSpec(width int) spec.Spec {
	return spec.Spec{
		"type":  "view",
		"width": width,
		"children": []spec.Spec{
			{"type": "interval", "encode": map[string]any{"x": "genre"}},
		},
	}
}

func TestCapture_ClonesSpec(t *testing.T) {
	s := sampleSpec(640)
	snap := Capture(s, "beforerender", "afterrender")
	s.Children()[0]["type"] = "line"

	if snap.Spec.Children()[0].Type() != "interval" {
		t.Error("snapshot should not share the spec")
	}
	if len(snap.Events) != 2 {
		t.Errorf("events = %v", snap.Events)
	}
}

func TestSnapshot_Diff_Equal(t *testing.T) {
	a := Capture(sampleSpec(640))
	b := Capture(sampleSpec(640))

	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
}

func TestSnapshot_Diff_Different(t *testing.T) {
	a := Capture(sampleSpec(640))
	b := Capture(sampleSpec(800))

	if diff := a.Diff(b); diff == "" {
		t.Error("expected diff for different snapshots")
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	snap := Capture(sampleSpec(640), "afterrender")

	dir := t.TempDir()
	path := filepath.Join(dir, "testdata", "view.snapshot.json")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file should exist after UpdateFile")
	}

	// Decoded numbers and slices change Go types but encode identically.
	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	snap := Capture(sampleSpec(640))

	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	snap.MatchesFile(sub, "/nonexistent/path/snap.json")

	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	first := Capture(sampleSpec(640))

	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")
	if err := first.UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	second := Capture(sampleSpec(999))

	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	second.MatchesFile(sub, path)

	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	snap := Capture(sampleSpec(60))

	dir := t.TempDir()
	path := filepath.Join(dir, "update.snapshot.json")

	t.Setenv(UpdateEnv, "1")
	snap.MatchesFile(t, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("snapshot file should be created in update mode")
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
