package service_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/repository"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/service"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

func newAvailabilityService() *service.AvailabilityService {
	repo := repository.NewAvailabilityRepository(storage.NewMemory())

	return service.NewAvailabilityService(repo)
}

func sortVotes(votes []domain.DateVote) {
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].Date < votes[j].Date
	})
	for i := range votes {
		sort.Strings(votes[i].Voters)
	}
}

func TestSetAvailability_FullReplacement(t *testing.T) {
	ctx := context.Background()
	svc := newAvailabilityService()

	_, err := svc.SetAvailability(ctx, "A", []string{"2024-12-24"})
	require.NoError(t, err)

	votes, err := svc.SetAvailability(ctx, "A", []string{"2024-12-25"})
	require.NoError(t, err)

	require.Len(t, votes, 1)
	assert.Equal(t, "2024-12-25", votes[0].Date)
	assert.Equal(t, []string{"A"}, votes[0].Voters)
}

func TestSetAvailability_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newAvailabilityService()

	dates := []string{"2024-12-24", "2024-12-31"}

	first, err := svc.SetAvailability(ctx, "A", dates)
	require.NoError(t, err)

	second, err := svc.SetAvailability(ctx, "A", dates)
	require.NoError(t, err)

	sortVotes(first)
	sortVotes(second)
	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
}

func TestSetAvailability_EmptyDatesClearsUser(t *testing.T) {
	ctx := context.Background()
	svc := newAvailabilityService()

	_, err := svc.SetAvailability(ctx, "A", []string{"2024-12-24", "2024-12-25"})
	require.NoError(t, err)
	_, err = svc.SetAvailability(ctx, "B", []string{"2024-12-24"})
	require.NoError(t, err)

	votes, err := svc.SetAvailability(ctx, "A", []string{})
	require.NoError(t, err)

	// Only B's date survives; A's solo date is pruned entirely.
	require.Len(t, votes, 1)
	assert.Equal(t, "2024-12-24", votes[0].Date)
	assert.Equal(t, []string{"B"}, votes[0].Voters)
}

func TestToggle_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newAvailabilityService()

	_, err := svc.Toggle(ctx, "A", "2024-12-24", "add")
	require.NoError(t, err)

	vote, err := svc.Toggle(ctx, "A", "2024-12-24", "add")
	require.NoError(t, err)

	assert.Equal(t, 1, vote.Count)
	assert.Equal(t, []string{"A"}, vote.Voters)
}

func TestToggle_RemoveLastVoterPrunesDate(t *testing.T) {
	ctx := context.Background()
	svc := newAvailabilityService()

	_, err := svc.Toggle(ctx, "A", "2024-12-24", "add")
	require.NoError(t, err)

	vote, err := svc.Toggle(ctx, "A", "2024-12-24", "remove")
	require.NoError(t, err)
	assert.Equal(t, 0, vote.Count)

	votes, err := svc.ListVotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestToggle_UnknownAction(t *testing.T) {
	ctx := context.Background()
	svc := newAvailabilityService()

	_, err := svc.Toggle(ctx, "A", "2024-12-24", "flip")
	assert.ErrorIs(t, err, service.ErrUnknownAction)
}

func TestToggle_MatchesFullReplacement(t *testing.T) {
	ctx := context.Background()

	toggled := newAvailabilityService()
	replaced := newAvailabilityService()

	_, err := toggled.Toggle(ctx, "A", "2024-12-24", "add")
	require.NoError(t, err)
	_, err = toggled.Toggle(ctx, "A", "2024-12-25", "add")
	require.NoError(t, err)
	_, err = toggled.Toggle(ctx, "A", "2024-12-24", "remove")
	require.NoError(t, err)

	_, err = replaced.SetAvailability(ctx, "A", []string{"2024-12-25"})
	require.NoError(t, err)

	got, err := toggled.ListVotes(ctx)
	require.NoError(t, err)
	want, err := replaced.ListVotes(ctx)
	require.NoError(t, err)

	sortVotes(got)
	sortVotes(want)
	assert.Equal(t, want, got)
}

func TestRankVotes_Order(t *testing.T) {
	votes := []domain.DateVote{
		{Date: "2024-12-24", Count: 3, Voters: []string{"A", "B", "C"}},
		{Date: "2024-12-25", Count: 5, Voters: []string{"A", "B", "C", "D", "E"}},
		{Date: "2024-12-26", Count: 1, Voters: []string{"A"}},
	}

	ranked := service.RankVotes(votes)

	require.Len(t, ranked, 3)
	assert.Equal(t, "2024-12-25", ranked[0].Date)
	assert.Equal(t, "2024-12-24", ranked[1].Date)
	assert.Equal(t, "2024-12-26", ranked[2].Date)

	// Only the winner exposes its voter list.
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ranked[0].Voters)
	assert.Nil(t, ranked[1].Voters)
	assert.Nil(t, ranked[2].Voters)
}

func TestRankVotes_TopFiveOnly(t *testing.T) {
	votes := make([]domain.DateVote, 0, 7)
	for _, date := range []string{"2024-12-20", "2024-12-21", "2024-12-22", "2024-12-23", "2024-12-24", "2024-12-25", "2024-12-26"} {
		votes = append(votes, domain.DateVote{Date: date, Count: 1, Voters: []string{"A"}})
	}

	ranked := service.RankVotes(votes)

	assert.Len(t, ranked, 5)
	// Stable sort keeps the original order for ties.
	assert.Equal(t, "2024-12-20", ranked[0].Date)
}
