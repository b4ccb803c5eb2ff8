// Package spy drives the agent: one pipeline of fetch, detect, merge and
// execute per tick, never more than one at a time.
package spy

import (
	"sync"
	"time"
)

// Target is the repository being watched. The scheduler owns it; everyone
// else reads a Snapshot.
type Target struct {
	mu sync.Mutex

	url        string
	branch     string
	localPath  string
	command    string
	interval   time.Duration
	verbosity  int
	runOnStart bool

	cycles      int
	changes     int
	lastCycleAt time.Time
	lastHead    string
	lastErr     string
}

// TargetConfig seeds a Target.
type TargetConfig struct {
	// URL is the redacted remote location, for display only.
	URL        string
	Branch     string
	LocalPath  string
	Command    string
	Interval   time.Duration
	Verbosity  int
	RunOnStart bool
}

// NewTarget returns a Target for a cloned workspace.
func NewTarget(cfg TargetConfig) *Target {
	return &Target{
		url:        cfg.URL,
		branch:     cfg.Branch,
		localPath:  cfg.LocalPath,
		command:    cfg.Command,
		interval:   cfg.Interval,
		verbosity:  cfg.Verbosity,
		runOnStart: cfg.RunOnStart,
	}
}

// Snapshot is a read-only copy of a Target.
type Snapshot struct {
	URL         string        `json:"url"`
	Branch      string        `json:"branch"`
	LocalPath   string        `json:"local_path"`
	Command     string        `json:"command,omitempty"`
	Interval    time.Duration `json:"interval"`
	Verbosity   int           `json:"verbosity"`
	RunOnStart  bool          `json:"run_on_start"`
	Cycles      int           `json:"cycles"`
	Changes     int           `json:"changes"`
	LastCycleAt time.Time     `json:"last_cycle_at,omitempty"`
	LastHead    string        `json:"last_head,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
}

// Snapshot returns the current state.
func (t *Target) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		URL:         t.url,
		Branch:      t.branch,
		LocalPath:   t.localPath,
		Command:     t.command,
		Interval:    t.interval,
		Verbosity:   t.verbosity,
		RunOnStart:  t.runOnStart,
		Cycles:      t.cycles,
		Changes:     t.changes,
		LastCycleAt: t.lastCycleAt,
		LastHead:    t.lastHead,
		LastError:   t.lastErr,
	}
}

// Command returns the statically configured command, possibly empty.
func (t *Target) Command() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.command
}

// LocalPath returns the workspace directory.
func (t *Target) LocalPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.localPath
}

// record stores the result of a finished cycle.
func (t *Target) record(at time.Time, out *Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cycles++
	t.lastCycleAt = at
	if out.Changed {
		t.changes++
	}
	if out.Merge != nil && !out.Merge.Head.IsZero() {
		t.lastHead = out.Merge.Head.String()
	}
	t.lastErr = ""
	if out.Err != nil {
		t.lastErr = out.Err.Error()
	}
}
