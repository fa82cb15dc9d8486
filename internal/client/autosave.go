package client

import (
	"context"
	"time"
)

// DefaultAutosaveInterval matches the workspace's save cadence.
const DefaultAutosaveInterval = 30 * time.Second

// Autosaver periodically flushes the active session to the server.
type Autosaver struct {
	workspace *Workspace
	interval  time.Duration
}

// NewAutosaver creates an autosaver; a non-positive interval uses the
// default.
func NewAutosaver(workspace *Workspace, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{workspace: workspace, interval: interval}
}

// Run flushes on every tick until the context is done, then performs one
// final flush so teardown never loses the last edits. Flush itself is
// idempotent and gated on restore, so overlapping or early runs are safe.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.workspace.Flush(ctx)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			a.workspace.Flush(flushCtx)
			cancel()
			return
		}
	}
}
