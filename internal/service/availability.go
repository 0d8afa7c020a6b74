package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"

	rankingSize = 5
)

var ErrUnknownAction = errors.New("unknown action")

type AvailabilityRepository interface {
	Dates(ctx context.Context) ([]string, error)
	Voters(ctx context.Context, date string) ([]string, error)
	AddVote(ctx context.Context, date, name string) error
	RemoveVote(ctx context.Context, date, name string) (int64, error)
}

// AvailabilityService owns the date -> voter-set index. The mutex
// serializes the multi-key replacement sequence; individual store
// operations are atomic but the sequence as a whole is not.
type AvailabilityService struct {
	mu   sync.Mutex
	repo AvailabilityRepository
}

func NewAvailabilityService(repo AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{
		repo: repo,
	}
}

// ListVotes returns every date that has at least one voter.
// Order is unspecified.
func (s *AvailabilityService) ListVotes(ctx context.Context) ([]domain.DateVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listVotes(ctx)
}

// SetAvailability replaces name's full availability: the name is first
// removed from every known date, then added to each of the given
// dates. Calling it twice with the same arguments yields the same
// state, and an empty dates slice clears the user everywhere.
func (s *AvailabilityService) SetAvailability(ctx context.Context, name string, dates []string) ([]domain.DateVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known, err := s.repo.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Dates -> %w", err)
	}

	for _, date := range known {
		if _, err = s.repo.RemoveVote(ctx, date, name); err != nil {
			return nil, fmt.Errorf("s.repo.RemoveVote -> %w", err)
		}
	}

	for _, date := range dates {
		if err = s.repo.AddVote(ctx, date, name); err != nil {
			return nil, fmt.Errorf("s.repo.AddVote -> %w", err)
		}
	}

	return s.listVotes(ctx)
}

// Toggle is the incremental form: add or remove a single date for the
// given name. It returns the updated vote for that date; after the
// last voter is removed the returned count is zero and the date is no
// longer listed.
func (s *AvailabilityService) Toggle(ctx context.Context, name, date, action string) (domain.DateVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case ActionAdd:
		if err := s.repo.AddVote(ctx, date, name); err != nil {
			return domain.DateVote{}, fmt.Errorf("s.repo.AddVote -> %w", err)
		}
	case ActionRemove:
		if _, err := s.repo.RemoveVote(ctx, date, name); err != nil {
			return domain.DateVote{}, fmt.Errorf("s.repo.RemoveVote -> %w", err)
		}
	default:
		return domain.DateVote{}, ErrUnknownAction
	}

	voters, err := s.repo.Voters(ctx, date)
	if err != nil {
		return domain.DateVote{}, fmt.Errorf("s.repo.Voters -> %w", err)
	}

	return domain.DateVote{
		Date:   date,
		Count:  len(voters),
		Voters: voters,
	}, nil
}

// Ranking returns the current top dates, see RankVotes.
func (s *AvailabilityService) Ranking(ctx context.Context) ([]domain.DateVote, error) {
	votes, err := s.ListVotes(ctx)
	if err != nil {
		return nil, err
	}

	return RankVotes(votes), nil
}

// RankVotes sorts votes by count descending (stable, so ties keep
// their original order) and keeps the top five. Only the leading entry
// retains its voter list; the rest expose counts only.
func RankVotes(votes []domain.DateVote) []domain.DateVote {
	ranked := make([]domain.DateVote, len(votes))
	copy(ranked, votes)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > rankingSize {
		ranked = ranked[:rankingSize]
	}
	for i := 1; i < len(ranked); i++ {
		ranked[i].Voters = nil
	}

	return ranked
}

func (s *AvailabilityService) listVotes(ctx context.Context) ([]domain.DateVote, error) {
	dates, err := s.repo.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Dates -> %w", err)
	}

	votes := make([]domain.DateVote, 0, len(dates))
	for _, date := range dates {
		voters, err := s.repo.Voters(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("s.repo.Voters -> %w", err)
		}
		if len(voters) == 0 {
			continue
		}

		votes = append(votes, domain.DateVote{
			Date:   date,
			Count:  len(voters),
			Voters: voters,
		})
	}

	return votes, nil
}
