package weekend

import (
	"log/slog"
	"sync"
)

// RaceContext holds the race currently being simulated. Its Attrs method is
// a logging.ContextProvider, so every log record carries the race identity.
type RaceContext struct {
	mu      sync.RWMutex
	runID   string
	circuit string
	round   int
}

// NewRaceContext creates a context with no race loaded.
func NewRaceContext() *RaceContext {
	return &RaceContext{}
}

// Set marks a race as current.
func (rc *RaceContext) Set(runID, circuit string, round int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.runID = runID
	rc.circuit = circuit
	rc.round = round
}

// Clear forgets the current race.
func (rc *RaceContext) Clear() {
	rc.Set("", "", 0)
}

// RunID returns the current race's run ID, empty between races.
func (rc *RaceContext) RunID() string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.runID
}

// Attrs returns the log attributes of the current race, or nil between races.
func (rc *RaceContext) Attrs() []slog.Attr {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if rc.runID == "" {
		return nil
	}
	return []slog.Attr{
		slog.String("run", rc.runID),
		slog.String("circuit", rc.circuit),
		slog.Int("round", rc.round),
	}
}
