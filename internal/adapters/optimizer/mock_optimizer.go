package optimizer

import (
	"context"
	"fmt"
	"walk-schedule-service/internal/domain"
)

// MockStopSequenceProvider serves canned sequences keyed by date.
type MockStopSequenceProvider struct {
	m map[string][]domain.Stop
}

func NewMockStopSequenceProvider() *MockStopSequenceProvider {
	return &MockStopSequenceProvider{m: make(map[string][]domain.Stop)}
}

func (p *MockStopSequenceProvider) Set(date domain.Date, stops []domain.Stop) {
	p.m[date.String()] = stops
}

func (p *MockStopSequenceProvider) GetStopSequence(ctx context.Context, date domain.Date, occurrences []domain.Occurrence) ([]domain.Stop, error) {
	stops, ok := p.m[date.String()]
	if !ok {
		return nil, fmt.Errorf("missing sequence for %s", date)
	}
	return stops, nil
}
