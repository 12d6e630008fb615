package revlib

import (
	"fmt"

	"github.com/adhocore/gronx"
)

// PerformanceMode selects how effective priorities are materialized.
type PerformanceMode string

const (
	// ModeFull precomputes priority and due state for the whole corpus via
	// the pretagging worker, so queries are O(1) lookups.
	ModeFull PerformanceMode = "full"
	// ModeLight skips pretagging; resolution happens lazily, only for
	// nodes actually queried.
	ModeLight PerformanceMode = "light"
)

// Config carries all tunables of the scheduling core. It is passed
// explicitly into each component rather than read from process-wide state.
// Zero-value fields are filled with defaults by Validate.
type Config struct {
	// InitialInterval is the interval, in days, assigned by the first
	// repetition of a node. Must be positive. Default 1.
	InitialInterval float64 `json:"initial_interval"`
	// Multiplier scales the previous interval on each repetition.
	// Must be positive. Default 1.5.
	Multiplier float64 `json:"multiplier"`
	// DefaultPriorityIncremental is the priority assumed for incremental
	// nodes whose ancestor chain carries no explicit value. Default 10.
	DefaultPriorityIncremental int `json:"default_priority_incremental"`
	// DefaultPriorityFlashcard is the same fallback for flashcards. Default 50.
	DefaultPriorityFlashcard int `json:"default_priority_flashcard"`
	// PerformanceMode selects full (pretagged) or light (lazy) operation.
	// Default full.
	PerformanceMode PerformanceMode `json:"performance_mode"`
	// ShieldTopK is how many of the most urgent due items the priority
	// shield surfaces. Must be at least 1. Default 3.
	ShieldTopK int `json:"shield_top_k"`
	// PretagChunkSize is how many nodes the pretagging worker processes
	// between yields. Must be at least 1. Default 64.
	PretagChunkSize int `json:"pretag_chunk_size"`
	// RefreshCron, when set in full mode, re-runs the pretagging pass on
	// the given cron schedule. Empty disables periodic refresh.
	RefreshCron string `json:"refresh_cron,omitempty"`
	// RoundIntervals truncates computed intervals to whole days
	// (minimum 1). Off by default; sub-day precision is kept.
	RoundIntervals bool `json:"round_intervals,omitempty"`
}

// defaultPriority returns the configured fallback for the given kind.
func (c *Config) defaultPriority(k Kind) int {
	if k == KindFlashcard {
		return c.DefaultPriorityFlashcard
	}
	return c.DefaultPriorityIncremental
}

// Validate fills zero-value fields with defaults and rejects out-of-range
// values. It must be called before the config is handed to any component.
func (c *Config) Validate() error {
	if c.InitialInterval == 0 {
		c.InitialInterval = 1
	}
	if c.InitialInterval < 0 {
		return fmt.Errorf("revlib: initial interval %v must be positive", c.InitialInterval)
	}
	if c.Multiplier == 0 {
		c.Multiplier = 1.5
	}
	if c.Multiplier < 0 {
		return fmt.Errorf("revlib: multiplier %v must be positive", c.Multiplier)
	}
	if c.DefaultPriorityIncremental == 0 {
		c.DefaultPriorityIncremental = 10
	}
	if c.DefaultPriorityIncremental < 0 || c.DefaultPriorityIncremental > 100 {
		return fmt.Errorf("revlib: default incremental priority %d out of range [0, 100]", c.DefaultPriorityIncremental)
	}
	if c.DefaultPriorityFlashcard == 0 {
		c.DefaultPriorityFlashcard = 50
	}
	if c.DefaultPriorityFlashcard < 0 || c.DefaultPriorityFlashcard > 100 {
		return fmt.Errorf("revlib: default flashcard priority %d out of range [0, 100]", c.DefaultPriorityFlashcard)
	}
	if c.PerformanceMode == "" {
		c.PerformanceMode = ModeFull
	}
	if c.PerformanceMode != ModeFull && c.PerformanceMode != ModeLight {
		return fmt.Errorf("revlib: unknown performance mode %q", c.PerformanceMode)
	}
	if c.ShieldTopK == 0 {
		c.ShieldTopK = 3
	}
	if c.ShieldTopK < 1 {
		return fmt.Errorf("revlib: shield top-k %d must be at least 1", c.ShieldTopK)
	}
	if c.PretagChunkSize == 0 {
		c.PretagChunkSize = 64
	}
	if c.PretagChunkSize < 1 {
		return fmt.Errorf("revlib: pretag chunk size %d must be at least 1", c.PretagChunkSize)
	}
	if c.RefreshCron != "" && !gronx.New().IsValid(c.RefreshCron) {
		return fmt.Errorf("revlib: invalid refresh cron expression %q", c.RefreshCron)
	}
	return nil
}
