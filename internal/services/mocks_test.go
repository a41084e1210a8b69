package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
)

// MockRunner is a testify mock of Runner.
type MockRunner struct {
	mock.Mock
}

// Run records the call and returns the configured result.
func (m *MockRunner) Run(ctx context.Context, req operations.Request) *operations.Result {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*operations.Result)
	}
	return nil
}
