package revlib

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/revq/revq/pkg/logger"
)

// PretagState is the lifecycle state of a pretagging pass.
type PretagState int32

const (
	// PretagIdle means no pass has run yet.
	PretagIdle PretagState = iota
	// PretagRunning means a pass is walking the corpus.
	PretagRunning
	// PretagCompleted means the last pass covered the whole corpus.
	PretagCompleted
	// PretagCancelled means the last pass stopped at a chunk boundary.
	PretagCancelled
	// PretagFailed means the last pass aborted on a fatal error.
	PretagFailed
)

// String returns the lowercase state name.
func (s PretagState) String() string {
	switch s {
	case PretagIdle:
		return "idle"
	case PretagRunning:
		return "running"
	case PretagCompleted:
		return "completed"
	case PretagCancelled:
		return "cancelled"
	case PretagFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PretagProgress is a point-in-time report of a pretagging pass.
type PretagProgress struct {
	// State is the pass lifecycle state.
	State PretagState `json:"-"`
	// StateName is State rendered for transport.
	StateName string `json:"state"`
	// Processed counts nodes settled by the current or last pass,
	// including nodes skipped by an earlier checkpoint.
	Processed int `json:"processed"`
	// Total is the corpus size the pass started against.
	Total int `json:"total"`
	// LastID is the checkpoint: the highest id settled so far.
	LastID NodeID `json:"last_id,omitempty"`
	// Skipped lists ids whose per-node processing failed and was skipped.
	Skipped []NodeID `json:"skipped,omitempty"`
}

// pretagCheckpoint is the persisted resume point of an interrupted pass.
type pretagCheckpoint struct {
	LastID NodeID `json:"last_id"`
}

// Pretagger is the background worker that materializes effective priority
// and due state for the whole corpus in full performance mode, so later
// queries are O(1) lookups instead of live tree walks.
//
// A pass walks the corpus in stable id order in fixed-size chunks,
// yielding between chunks. Progress is checkpointed after every chunk, so
// an interrupted pass resumes past already-settled nodes. Cancellation is
// cooperative and lands on a chunk boundary; no per-node state is left
// half-written. A priority edit racing the walk always wins: the store's
// version check discards the walker's stale computation.
type Pretagger struct {
	store *Store
	cfg   Config
	log   logger.Logger

	fs             afero.Fs
	checkpointPath string

	mu        sync.Mutex
	state     PretagState
	processed int
	total     int
	lastID    NodeID
	skipped   []NodeID
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPretagger creates a worker over the store. The checkpoint file is
// read and written through fs; pass afero.NewMemMapFs() to keep
// checkpoints in memory, or an OsFs with a real path to survive restarts.
// An empty checkpointPath disables resume.
func NewPretagger(store *Store, log logger.Logger, fs afero.Fs, checkpointPath string) *Pretagger {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return &Pretagger{
		store:          store,
		cfg:            store.Config(),
		log:            log,
		fs:             fs,
		checkpointPath: checkpointPath,
	}
}

// Start launches a pass in the background. It fails with
// ErrPretagLightMode outside full performance mode and ErrPretagRunning
// if a pass is already walking. Cancelling ctx stops the pass at the next
// chunk boundary.
func (p *Pretagger) Start(ctx context.Context) error {
	if p.cfg.PerformanceMode != ModeFull {
		return ErrPretagLightMode
	}
	p.mu.Lock()
	if p.state == PretagRunning {
		p.mu.Unlock()
		return ErrPretagRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.state = PretagRunning
	p.processed = 0
	p.skipped = nil
	p.lastID = ""
	done := p.done
	p.mu.Unlock()

	safeGo(p.log, nil, "pretagger", func(r interface{}) {
		p.finish(PretagFailed, fmt.Errorf("pretagger panic: %v", r))
		close(done)
		cancel()
	}, func() {
		err := p.walk(ctx)
		switch {
		case err == nil:
			p.finish(PretagCompleted, nil)
		case ctx.Err() != nil:
			p.finish(PretagCancelled, nil)
		default:
			p.finish(PretagFailed, err)
		}
		close(done)
		cancel()
	})
	return nil
}

// Cancel requests a cooperative stop. The pass halts at the next chunk
// boundary; call Wait to observe the final state.
func (p *Pretagger) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != PretagRunning || p.cancel == nil {
		return ErrPretagNotRunning
	}
	p.cancel()
	return nil
}

// Wait blocks until the current pass settles. No-op when idle.
func (p *Pretagger) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Progress reports the pass state. Safe to call from any goroutine.
func (p *Pretagger) Progress() PretagProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr := PretagProgress{
		State:     p.state,
		StateName: p.state.String(),
		Processed: p.processed,
		Total:     p.total,
		LastID:    p.lastID,
	}
	if len(p.skipped) > 0 {
		pr.Skipped = make([]NodeID, len(p.skipped))
		copy(pr.Skipped, p.skipped)
	}
	return pr
}

func (p *Pretagger) finish(state PretagState, err error) {
	p.mu.Lock()
	p.state = state
	skipped := len(p.skipped)
	p.cancel = nil
	p.mu.Unlock()
	switch state {
	case PretagCompleted:
		p.clearCheckpoint()
		p.log.Info("pretagging completed, %d skipped", skipped)
	case PretagCancelled:
		p.log.Info("pretagging cancelled at checkpoint")
	case PretagFailed:
		p.log.Error("pretagging failed: %v", err)
	}
}

// walk is the pass body: resolve every node's effective priority in stable
// id order, chunk by chunk, checkpointing between chunks.
func (p *Pretagger) walk(ctx context.Context) error {
	ids := p.store.IDs()
	resume := p.loadCheckpoint()

	start := 0
	if resume != "" {
		// Resume strictly after the checkpointed id. Nodes added behind
		// the checkpoint since the interruption are picked up by the next
		// full pass; the ranker's dirty tracking covers them meanwhile.
		start = sort.Search(len(ids), func(i int) bool { return ids[i] > resume })
	}

	p.mu.Lock()
	p.total = len(ids)
	p.processed = start
	p.lastID = resume
	p.mu.Unlock()

	for chunk := start; chunk < len(ids); chunk += p.cfg.PretagChunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := chunk + p.cfg.PretagChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		for _, id := range ids[chunk:end] {
			if err := p.settle(id); err != nil {
				p.log.Warning("pretagging: skipping %s: %v", id, err)
				p.mu.Lock()
				p.skipped = append(p.skipped, id)
				p.mu.Unlock()
			}
			p.mu.Lock()
			p.processed++
			p.lastID = id
			p.mu.Unlock()
		}
		p.saveCheckpoint(ids[end-1])
		// Yield between chunks so foreground queries are never starved.
		runtimeGosched()
	}
	return nil
}

// settle materializes one node's effective priority. Nodes removed while
// the walk is in flight are not an error, just gone.
func (p *Pretagger) settle(id NodeID) error {
	if _, err := p.store.EffectivePriority(id); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	p.store.markDirty(id)
	return nil
}

func (p *Pretagger) loadCheckpoint() NodeID {
	if p.checkpointPath == "" {
		return ""
	}
	data, err := afero.ReadFile(p.fs, p.checkpointPath)
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Warning("pretagging: reading checkpoint: %v", err)
		}
		return ""
	}
	var cp pretagCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		p.log.Warning("pretagging: corrupt checkpoint, restarting pass: %v", err)
		return ""
	}
	return cp.LastID
}

func (p *Pretagger) saveCheckpoint(last NodeID) {
	if p.checkpointPath == "" {
		return
	}
	data, err := json.Marshal(pretagCheckpoint{LastID: last})
	if err == nil {
		err = afero.WriteFile(p.fs, p.checkpointPath, data, 0o644)
	}
	if err != nil {
		p.log.Warning("pretagging: writing checkpoint: %v", err)
	}
}

func (p *Pretagger) clearCheckpoint() {
	if p.checkpointPath == "" {
		return
	}
	if err := p.fs.Remove(p.checkpointPath); err != nil && !os.IsNotExist(err) {
		p.log.Warning("pretagging: clearing checkpoint: %v", err)
	}
}
