package operations

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"opsinsight/internal/analysis"
	"opsinsight/internal/dataset"
)

// BuildEnv carries what a stage needs to construct its analyzer
type BuildEnv struct {
	Loader   dataset.Loader
	DataPath string
	Deps     analysis.Deps
}

// BuildFunc loads its own working set through env and returns a ready
// analyzer
type BuildFunc func(ctx context.Context, env BuildEnv) (analysis.Analyzer, error)

// Stage is one analyzer slot of a suite
type Stage struct {
	id    string
	name  string
	build BuildFunc
}

// NewStage creates a stage. id doubles as the key of the stage result.
func NewStage(id, name string, build BuildFunc) *Stage {
	return &Stage{id: id, name: name, build: build}
}

// ID returns the stage ID
func (s *Stage) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Name returns the human-readable stage name
func (s *Stage) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Banner is the console line announcing the stage
func (s *Stage) Banner() string {
	return fmt.Sprintf("EXECUTING %s...", strings.ToUpper(s.name))
}

// Build constructs the stage analyzer
func (s *Stage) Build(ctx context.Context, env BuildEnv) (analysis.Analyzer, error) {
	if s.build == nil {
		return nil, fmt.Errorf("stage %s has no build function", s.id)
	}
	return s.build(ctx, env)
}

// StageStatus represents the current status of a stage
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageState represents the runtime state of a stage
type StageState struct {
	mu        sync.RWMutex
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Status    StageStatus `json:"status" yaml:"status"`
	StartTime *time.Time  `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewStageState creates a pending stage state
func NewStageState(id, name string) *StageState {
	return &StageState{
		ID:     id,
		Name:   name,
		Status: StageStatusPending,
	}
}

// Start marks the stage as active and sets the start time
func (s *StageState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
}

// Complete marks the stage as completed and sets the end time
func (s *StageState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
}

// Fail marks the stage as failed with the given error
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	if err != nil {
		s.Error = err.Error()
	}
}

// GetStatus returns the current status
func (s *StageState) GetStatus() StageStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns the duration of the stage execution
func (s *StageState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}
