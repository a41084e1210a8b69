package operations

import (
	"sync"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// RunState carries a run's request and intermediate tables between steps.
type RunState struct {
	mu sync.RWMutex

	ID        string
	Request   Request
	StartTime time.Time

	Loaded   *dataprocessing.LoadResult
	Joined   *domain.Table
	Window   *domain.Table
	Chart    *domain.Table
	Returns  *domain.Table
	Heatmap  *domain.Heatmap
	Summary  []domain.ReturnSummary
	Warnings []string

	steps map[string]*StepState
	order []string
}

// NewRunState creates the state of a fresh run
func NewRunState(req Request) *RunState {
	return &RunState{
		ID:        req.RunID,
		Request:   req,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// AddWarning records a non-fatal note shown alongside the result
func (s *RunState) AddWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Warnings = append(s.Warnings, msg)
}

// GetStep returns the state of a specific step
func (s *RunState) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps[id]
}

// SetStep registers the state of a step, keeping first-registration order
func (s *RunState) SetStep(id string, st *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.steps[id]; !exists {
		s.order = append(s.order, id)
	}
	s.steps[id] = st
}

// Steps returns step states in execution order
func (s *RunState) Steps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StepState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.steps[id])
	}
	return out
}
