package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const dayKeyPrefix = "availability:day:"

// DayKey is the cache key of the availability snapshot for one date.
func DayKey(date time.Time) string {
	return dayKeyPrefix + date.Format("2006-01-02")
}

// Invalidator drops cached availability views after a write.
type Invalidator interface {
	InvalidateDates(ctx context.Context, dates ...time.Time)
	InvalidateAll(ctx context.Context)
}

// DayInvalidator invalidates the per-date snapshots stored under DayKey.
// Failures are logged and swallowed: a stale entry expires with its TTL and
// every write path re-validates against the database anyway.
type DayInvalidator struct {
	cache Cache
}

// NewDayInvalidator creates an Invalidator over c.
func NewDayInvalidator(c Cache) *DayInvalidator {
	return &DayInvalidator{cache: c}
}

func (i *DayInvalidator) InvalidateDates(ctx context.Context, dates ...time.Time) {
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, DayKey(d))
	}
	if err := i.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate availability cache")
	}
}

func (i *DayInvalidator) InvalidateAll(ctx context.Context) {
	if err := i.cache.Clear(ctx, dayKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("failed to clear availability cache")
	}
}

// NopInvalidator ignores invalidation requests.
type NopInvalidator struct{}

func (NopInvalidator) InvalidateDates(context.Context, ...time.Time) {}
func (NopInvalidator) InvalidateAll(context.Context)                 {}
