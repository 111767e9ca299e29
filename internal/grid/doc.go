// Package grid fans a search out over an external batch scheduler as
// an array job and merges the per-chunk results.
//
// The run is a linear pipeline; all actual parallelism belongs to the
// scheduler:
//
//	Split → Submitted → Polling → Merged → Cleaned
//
// Split can fail into a terminal error state (distinguishing the
// splitter's duplicate-identifier complaint from everything else), and
// Merged short-circuits to the terminal Empty state when the merged
// file has no hits — that is a successful run with no data.
//
// The scheduler itself is abstracted behind the Engine interface; the
// command-template implementation is configured by a profile.Profile
// and the tests substitute a fake. There is exactly one blocking wait
// for the whole array job: no per-chunk progress, no retries. Failures
// are fatal to the run.
package grid
