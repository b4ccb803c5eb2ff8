package task

import "time"

// Result captures the outcome of one command run.
type Result struct {
	Command     string    `json:"command"`
	Program     string    `json:"program"`
	Args        []string  `json:"args"`
	Dir         string    `json:"dir"`
	ExitCode    int       `json:"exit_code"`
	Stdout      string    `json:"stdout"`
	Stderr      string    `json:"stderr"`
	DurationMs  int64     `json:"duration_ms"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Success reports whether the command ran and exited zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}
