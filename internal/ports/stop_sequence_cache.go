package ports

import (
	"context"
	"walk-schedule-service/internal/domain"
)

// Optional cache in front of the optimizer round trip. A miss is not an
// error: Get returns ok=false and the caller falls through to the provider.
type StopSequenceCache interface {
	Get(ctx context.Context, date domain.Date) (stops []domain.Stop, ok bool, err error)
	Put(ctx context.Context, date domain.Date, stops []domain.Stop) error
}
