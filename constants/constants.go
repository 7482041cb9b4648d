// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go: soak driver tunables
//
// Purpose:
//   - Sizes the pipe and the frames the soak driver pushes through it.
//   - Locates the frame journal and paces the stats monitor.
//
// ⚠️ No runtime logic here; all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

import "time"

// ───────────────────────────── Pipe Sizing ──────────────────────────────

const (
	// PipeCapacity is the storage size of the soak pipe: 1 MiB keeps the hot
	// region L2-resident on most server parts while leaving room for bursts.
	PipeCapacity = 1 << 20

	// MinBody and MaxBody bound the random body length of a soak frame, before
	// the digest envelope is added.
	MinBody = 16
	MaxBody = 4 << 10
)

// ───────────────────────────── Soak Workload ─────────────────────────────

const (
	// SoakFrames is the number of frames the producer publishes per run.
	SoakFrames = 2_000_000

	// SoakSeed seeds the deterministic body generator.
	SoakSeed = 0x9e3779b97f4a7c15

	// ConsumerCore is the logical CPU the pinned consumer is bound to.
	ConsumerCore = 1
)

// ───────────────────────────── Journal ─────────────────────────────

const (
	// JournalPath is the SQLite file that records every verified frame.
	JournalPath = "framepipe_journal.db"

	// JournalBatch is the number of frames recorded per transaction.
	JournalBatch = 4096
)

// ───────────────────────────── Monitor ─────────────────────────────

const (
	// MonitorInterval paces the JSON stats lines written to stderr.
	MonitorInterval = time.Second
)
