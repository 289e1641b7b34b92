// Package testing provides test helpers for chart code: golden spec
// snapshots, a fake clock and scheduler for auto-fit timing, and recording
// doubles for the rendering runtime and surfaces.
//
// # Snapshot Testing
//
// Compare a flattened spec against a golden file:
//
//	s, _ := spec.Flatten(root)
//	charttest.Capture(s).MatchesFile(t, "testdata/bar.snapshot.json")
//
// Update snapshots with:
//
//	CHART_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Timing
//
// Drive debounced resize handling without sleeping:
//
//	sched := charttest.NewFakeScheduler()
//	c, _ := chart.New(chart.Options{AutoFit: true, Scheduler: sched, ...})
//	sched.Advance(300 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import charttest "github.com/go-drift/chart/pkg/testing"
package testing
