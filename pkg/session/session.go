// Package session holds the shared status snapshot read by observers
// (web API, status stream). The coordinator loop is the only writer.
package session

import (
	"sync"

	"github.com/spotter-ai/go-spotter/pkg/modes"
)

// Snapshot is the externally visible assistant state.
type Snapshot struct {
	Mode         string `json:"mode"`
	Query        string `json:"query,omitempty"`
	Direction    string `json:"direction,omitempty"`
	TargetLocked bool   `json:"target_locked"`
}

// State guards the snapshot with a mutex. Writes come from the main loop
// only; reads may come from any goroutine. The lock is never held across
// a blocking call.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New starts in idle.
func New() *State {
	return &State{snap: Snapshot{Mode: string(modes.ModeIdle)}}
}

// Update replaces the snapshot from a coordinator tick result.
func (s *State) Update(res modes.TickResult) {
	s.mu.Lock()
	s.snap = Snapshot{
		Mode:         string(res.Mode),
		Query:        res.Query,
		Direction:    res.Direction,
		TargetLocked: res.Locked,
	}
	s.mu.Unlock()
}

// Get returns a copy of the current snapshot.
func (s *State) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
