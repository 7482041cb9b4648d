// ════════════════════════════════════════════════════════════════════════════════════════════════
// framepipe - Soak Driver
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: framepipe
// Component: Main Entry Point & System Orchestration
//
// Description:
//   Pushes a deterministic stream of sealed frames through one pipe and proves on the far side
//   that every frame arrived intact and in order.
//
// Architecture:
//   - Phase 1: Pipe, journal and monitor setup
//   - Phase 2: Producer on the main goroutine, pinned consumer on its own OS thread
//   - Phase 3: Drain, flush and report
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"framepipe/constants"
	"framepipe/control"
	"framepipe/debug"
	"framepipe/digest"
	"framepipe/journal"
	"framepipe/monitor"
	"framepipe/pipe"
	"framepipe/utils"
)

const (
	activityStride = 1024                  // frames published between hot-flag refreshes
	cooldownPoll   = 10 * time.Millisecond // hot-flag decay check period
)

// tally is owned by the consumer goroutine until its done channel closes.
type tally struct {
	frames   uint64
	bytes    uint64
	nextSeq  uint64
	corrupt  uint64
	reorder  uint64
	journal  uint64
	firstErr error
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	// PHASE 1: Setup
	p, err := pipe.New(constants.PipeCapacity)
	if err != nil {
		debug.DropError("PIPE", err)
		os.Exit(1)
	}
	defer p.Close()

	j, err := journal.Open(constants.JournalPath, constants.JournalBatch)
	if err != nil {
		debug.DropError("JOURNAL", err)
		os.Exit(1)
	}
	startSeq := uint64(0)
	if last, ok, err := j.Last(); err != nil {
		debug.DropError("JOURNAL", err)
	} else if ok {
		startSeq = last + 1
		debug.DropMessage("JOURNAL", "resuming after seq "+utils.Utoa(last))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		debug.DropMessage("SIGNAL", "shutdown requested")
		control.Shutdown()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	control.ShutdownWG.Add(1)
	go func() {
		defer control.ShutdownWG.Done()
		if err := monitor.Run(ctx, p, os.Stderr, constants.MonitorInterval); err != nil {
			debug.DropError("MONITOR", err)
		}
	}()

	// The hot flag decays once the producer stalls, letting the consumer back off.
	control.ShutdownWG.Add(1)
	go func() {
		defer control.ShutdownWG.Done()
		tick := time.NewTicker(cooldownPoll)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				control.PollCooldown()
			}
		}
	}()

	// PHASE 2: Stream
	t := &tally{nextSeq: startSeq}
	stop, hot := control.Flags()
	done := make(chan struct{})
	pipe.PinnedConsumer(constants.ConsumerCore, p.Reader(), stop, hot, func(frame []byte) {
		t.observe(j, frame)
	}, done)

	debug.DropMessage("SOAK", "publishing "+utils.Itoa(constants.SoakFrames)+" frames")
	started := time.Now()
	sent := produce(p.Writer(), startSeq, constants.SoakFrames)
	elapsed := time.Since(started)

	// PHASE 3: Drain and report
	control.Shutdown()
	<-done
	cancel()
	control.ShutdownWG.Wait()

	if err := j.Close(); err != nil {
		debug.DropError("JOURNAL", err)
	}

	debug.DropMessage("SOAK", "sent "+utils.Utoa(sent)+" received "+utils.Utoa(t.frames)+
		" bytes "+utils.Utoa(t.bytes)+" in "+elapsed.String())
	if t.corrupt != 0 || t.reorder != 0 || t.journal != 0 || t.frames != sent {
		debug.DropMessage("SOAK", "FAILED corrupt="+utils.Utoa(t.corrupt)+
			" reorder="+utils.Utoa(t.reorder)+" journal="+utils.Utoa(t.journal))
		debug.DropError("SOAK", t.firstErr)
		os.Exit(1)
	}
	debug.DropMessage("SOAK", "ok")
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PRODUCER
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// produce seals count frames with sequence numbers starting at seq and returns how many were
// published before the run ended or a shutdown was requested. Bodies are generated straight into
// the reserved region and sealed in place.
func produce(w *pipe.Writer, seq uint64, count int) uint64 {
	var sent uint64
	for i := 0; i < count; i++ {
		h := utils.Mix64(constants.SoakSeed ^ seq)
		body := constants.MinBody + int(h%uint64(constants.MaxBody-constants.MinBody+1))
		need := body + digest.Overhead

		var region []byte
		for {
			var ok bool
			if region, ok = w.Reserve(need); ok {
				break
			}
			if control.IsStopping() {
				return sent
			}
			runtime.Gosched()
		}

		payload := region[8 : 8+body]
		utils.FillPattern(payload, h)
		w.Commit(digest.Seal(region, seq, payload))

		seq++
		sent++
		if sent%activityStride == 0 {
			control.SignalActivity()
			if control.IsStopping() {
				return sent
			}
		}
	}
	return sent
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSUMER
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// observe verifies one frame and records it. It runs on the pinned consumer thread.
func (t *tally) observe(j *journal.Journal, frame []byte) {
	t.frames++
	t.bytes += uint64(len(frame))

	seq, _, err := digest.Open(frame)
	if err != nil {
		t.corrupt++
		t.fail(err)
		return
	}
	if seq != t.nextSeq {
		t.reorder++
		t.fail(errors.New("seq " + utils.Utoa(seq) + " expected " + utils.Utoa(t.nextSeq)))
	}
	t.nextSeq = seq + 1

	if err := j.Record(seq, len(frame), digest.Fingerprint(frame)); err != nil {
		t.journal++
		t.fail(err)
	}
}

func (t *tally) fail(err error) {
	if t.firstErr == nil {
		t.firstErr = err
	}
}
