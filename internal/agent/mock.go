package agent

import (
	"context"
	"time"
)

// MockAdapter provides deterministic local results when no real agent is
// configured. It simulates the agent's execution time without blocking a
// worker thread.
type MockAdapter struct {
	delay time.Duration
}

func NewMockAdapter(delay time.Duration) *MockAdapter {
	return &MockAdapter{delay: delay}
}

func (a *MockAdapter) Execute(ctx context.Context, req Request) (Result, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	return Result{
		Status:    "success",
		Message:   "Calculator opened successfully",
		SessionID: req.SessionID,
		Speech:    "I have successfully opened the calculator application for you.",
	}, nil
}
