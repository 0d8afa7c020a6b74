package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

// Key layout: one set of voter names per date, plus an index set of
// dates that currently have votes.
const (
	datesIndexKey  = "availability:dates"
	votesKeyPrefix = "availability:votes:"
)

type AvailabilityRepository struct {
	store storage.Store
}

func NewAvailabilityRepository(store storage.Store) *AvailabilityRepository {
	return &AvailabilityRepository{
		store: store,
	}
}

// Dates returns every date currently present in the index.
func (r *AvailabilityRepository) Dates(ctx context.Context) ([]string, error) {
	dates, err := r.store.SMembers(ctx, datesIndexKey)
	if err != nil {
		return nil, fmt.Errorf("r.store.SMembers -> %w", err)
	}

	return dates, nil
}

func (r *AvailabilityRepository) Voters(ctx context.Context, date string) ([]string, error) {
	voters, err := r.store.SMembers(ctx, votesKeyPrefix+date)
	if err != nil {
		return nil, fmt.Errorf("r.store.SMembers -> %w", err)
	}

	return voters, nil
}

// AddVote inserts name into the date's voter set and indexes the date.
// Adding the same voter twice has no effect.
func (r *AvailabilityRepository) AddVote(ctx context.Context, date, name string) error {
	if err := r.store.SAdd(ctx, votesKeyPrefix+date, name); err != nil {
		return fmt.Errorf("r.store.SAdd -> %w", err)
	}

	if err := r.store.SAdd(ctx, datesIndexKey, date); err != nil {
		return fmt.Errorf("r.store.SAdd -> %w", err)
	}

	return nil
}

// RemoveVote deletes name from the date's voter set and reports how
// many voters remain. A date whose last voter is removed is dropped
// from the index so no zero-count entry survives.
func (r *AvailabilityRepository) RemoveVote(ctx context.Context, date, name string) (int64, error) {
	if err := r.store.SRem(ctx, votesKeyPrefix+date, name); err != nil {
		return 0, fmt.Errorf("r.store.SRem -> %w", err)
	}

	remaining, err := r.store.SCard(ctx, votesKeyPrefix+date)
	if err != nil {
		return 0, fmt.Errorf("r.store.SCard -> %w", err)
	}

	if remaining == 0 {
		if err = r.store.SRem(ctx, datesIndexKey, date); err != nil {
			return 0, fmt.Errorf("r.store.SRem -> %w", err)
		}
	}

	return remaining, nil
}
