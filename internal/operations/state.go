package operations

import (
	"sync"
	"time"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState represents the complete state of one suite run
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id" yaml:"id"`
	Suite     string     `json:"suite" yaml:"suite"`
	Status    RunStatus  `json:"status" yaml:"status"`
	StartTime time.Time  `json:"start_time" yaml:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`

	stages map[string]*StageState
	order  []string
}

// NewRunState creates a pending run state
func NewRunState(id, suite string) *RunState {
	return &RunState{
		ID:        id,
		Suite:     suite,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		stages:    make(map[string]*StageState),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	if err != nil {
		r.Error = err.Error()
	}
}

// GetStatus returns the current run status
func (r *RunState) GetStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// AddStage registers a stage state; the first call for an ID fixes its
// position
func (r *RunState) AddStage(state *StageState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stages[state.ID]; !exists {
		r.order = append(r.order, state.ID)
	}
	r.stages[state.ID] = state
}

// GetStage returns the state of a specific stage
func (r *RunState) GetStage(stageID string) *StageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stages[stageID]
}

// Stages returns all stage states in stage order
func (r *RunState) Stages() []*StageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*StageState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.stages[id])
	}
	return out
}

// Duration returns the duration of the run
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

// GetCompletedStages returns all completed stages in order
func (r *RunState) GetCompletedStages() []*StageState {
	return r.stagesWithStatus(StageStatusCompleted)
}

// GetFailedStages returns all failed stages in order
func (r *RunState) GetFailedStages() []*StageState {
	return r.stagesWithStatus(StageStatusFailed)
}

// HasFailures returns true if any stage has failed
func (r *RunState) HasFailures() bool {
	return len(r.GetFailedStages()) > 0
}

func (r *RunState) stagesWithStatus(status StageStatus) []*StageState {
	var out []*StageState
	for _, s := range r.Stages() {
		if s.GetStatus() == status {
			out = append(out, s)
		}
	}
	return out
}
