package testing

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/chart/pkg/spec"
)

// UpdateEnv names the environment variable that switches MatchesFile into
// update mode.
const UpdateEnv = "CHART_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures a flattened spec and, optionally, the lifecycle events
// observed while producing it.
type Snapshot struct {
	Spec   spec.Spec `json:"spec"`
	Events []string  `json:"events,omitempty"`
}

// Capture returns a snapshot of s. The spec is cloned so later tree edits
// cannot leak into the snapshot.
func Capture(s spec.Spec, events ...string) *Snapshot {
	return &Snapshot{Spec: s.Clone(), Events: events}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When CHART_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff reports how other differs from this snapshot, as seen after a JSON
// round trip, in go-cmp's (-expected +actual) form. It returns "" when the
// two encode identically.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, errA := marshalSnapshot(s)
	b, errB := marshalSnapshot(other)
	if errA != nil || errB != nil {
		return fmt.Sprintf("cannot encode snapshots: %v", stderrors.Join(errA, errB))
	}
	if bytes.Equal(a, b) {
		return ""
	}
	var actual, expected any
	json.Unmarshal(a, &actual)
	json.Unmarshal(b, &expected)
	return cmp.Diff(expected, actual)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

// marshalSnapshot is stable: encoding/json sorts map keys.
func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
