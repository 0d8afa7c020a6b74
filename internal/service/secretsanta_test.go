package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/repository"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/service"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

func newSecretSantaService() (*service.SecretSantaService, *repository.ParticipantRepository) {
	repo := repository.NewParticipantRepository(storage.NewMemory())

	return service.NewSecretSantaService(repo), repo
}

func registerAll(t *testing.T, svc *service.SecretSantaService, names ...string) []domain.Participant {
	t.Helper()

	participants := make([]domain.Participant, 0, len(names))
	for _, name := range names {
		p, err := svc.Register(context.Background(), name, "pw-"+name)
		require.NoError(t, err)
		participants = append(participants, p)
	}

	return participants
}

func TestRegister_FirstRegistrantIsAdmin(t *testing.T) {
	svc, _ := newSecretSantaService()

	participants := registerAll(t, svc, "Alice", "Bob", "Carol")

	assert.True(t, participants[0].IsAdmin)
	assert.False(t, participants[1].IsAdmin)
	assert.False(t, participants[2].IsAdmin)
}

func TestRegister_DuplicateName(t *testing.T) {
	svc, _ := newSecretSantaService()

	registerAll(t, svc, "Alice")

	_, err := svc.Register(context.Background(), "Alice", "other")
	assert.ErrorIs(t, err, service.ErrNameTaken)

	// Names match case-sensitively, so "alice" is someone else.
	_, err = svc.Register(context.Background(), "alice", "pw")
	assert.NoError(t, err)
}

func TestRegister_NewParticipantShape(t *testing.T) {
	svc, _ := newSecretSantaService()

	p := registerAll(t, svc, "Alice")[0]

	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Wishlist)
	assert.Nil(t, p.TargetID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSecretSantaService()
	registerAll(t, svc, "Alice")

	p, err := svc.Login(ctx, "Alice", "pw-Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)

	_, err = svc.Login(ctx, "Alice", "wrong")
	assert.ErrorIs(t, err, service.ErrWrongCredentials)

	_, err = svc.Login(ctx, "Nobody", "x")
	assert.ErrorIs(t, err, service.ErrWrongCredentials)
}

func TestPublicParticipants(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSecretSantaService()
	registered := registerAll(t, svc, "Alice", "Bob")

	public, err := svc.PublicParticipants(ctx)
	require.NoError(t, err)
	require.Len(t, public, 2)

	names := map[string]bool{}
	for _, p := range public {
		names[p.Name] = true
		assert.NotEmpty(t, p.ID)
	}
	assert.True(t, names[registered[0].Name])
	assert.True(t, names[registered[1].Name])
}

func TestUpdateWishlist_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSecretSantaService()
	p := registerAll(t, svc, "Alice")[0]

	_, err := svc.UpdateWishlist(ctx, p.ID, []domain.WishlistItem{
		{Name: "Socks"},
		{Name: "Book", URL: "https://example.com/book"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateWishlist(ctx, p.ID, []domain.WishlistItem{
		{Name: "Scarf"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Wishlist, 1)
	assert.Equal(t, "Scarf", updated.Wishlist[0].Name)
	assert.NotEmpty(t, updated.Wishlist[0].ID)
}

func TestUpdateWishlist_UnknownUser(t *testing.T) {
	svc, _ := newSecretSantaService()

	_, err := svc.UpdateWishlist(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, service.ErrParticipantNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSecretSantaService()
	participants := registerAll(t, svc, "Alice", "Bob", "Carol")
	admin, bob, carol := participants[0], participants[1], participants[2]

	// Non-admin callers are rejected and nothing changes.
	err := svc.Remove(ctx, bob.ID, carol.ID)
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	err = svc.Remove(ctx, admin.ID, "missing")
	assert.ErrorIs(t, err, service.ErrParticipantNotFound)

	err = svc.Remove(ctx, admin.ID, carol.ID)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "Carol", "pw-Carol")
	assert.ErrorIs(t, err, service.ErrWrongCredentials)
}

func TestRemove_AfterRaffle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSecretSantaService()
	participants := registerAll(t, svc, "Alice", "Bob")
	admin := participants[0]

	require.NoError(t, svc.RunRaffle(ctx, admin.ID))

	err := svc.Remove(ctx, admin.ID, participants[1].ID)
	assert.ErrorIs(t, err, service.ErrRaffleDone)
}

func TestRunRaffle_SingleCycle(t *testing.T) {
	for n := 2; n <= 8; n++ {
		ctx := context.Background()
		svc, repo := newSecretSantaService()

		names := make([]string, 0, n)
		for i := 0; i < n; i++ {
			names = append(names, string(rune('A'+i)))
		}
		participants := registerAll(t, svc, names...)

		require.NoError(t, svc.RunRaffle(ctx, participants[0].ID))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, n)

		targets := map[string]string{}
		for _, p := range all {
			require.NotNil(t, p.TargetID, "every participant must have a target")
			assert.NotEqual(t, p.ID, *p.TargetID, "nobody may draw themself")
			targets[p.ID] = *p.TargetID
		}

		// Targets form a bijection: everyone receives exactly once.
		receivers := map[string]bool{}
		for _, target := range targets {
			assert.False(t, receivers[target], "duplicate receiver")
			receivers[target] = true
		}

		// Following the chain visits everyone before returning to start.
		start := all[0].ID
		seen := map[string]bool{start: true}
		current := targets[start]
		steps := 1
		for current != start {
			assert.False(t, seen[current], "chain revisited a participant")
			seen[current] = true
			current = targets[current]
			steps++
			require.LessOrEqual(t, steps, n, "chain did not close")
		}
		assert.Equal(t, n, steps, "assignment graph must be one cycle, n=%d", n)
	}
}

func TestRunRaffle_NotEnoughParticipants(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSecretSantaService()
	admin := registerAll(t, svc, "Alice")[0]

	err := svc.RunRaffle(ctx, admin.ID)
	assert.ErrorIs(t, err, service.ErrNotEnoughParticipants)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, all[0].TargetID)

	done, err := repo.IsRaffleDone(ctx)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRunRaffle_NonAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSecretSantaService()
	participants := registerAll(t, svc, "Alice", "Bob")

	err := svc.RunRaffle(ctx, participants[1].ID)
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	err = svc.RunRaffle(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	for _, p := range all {
		assert.Nil(t, p.TargetID)
	}
}

func TestRunRaffle_SecondRunRejected(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSecretSantaService()
	admin := registerAll(t, svc, "Alice", "Bob", "Carol")[0]

	require.NoError(t, svc.RunRaffle(ctx, admin.ID))

	before, err := repo.FindAll(ctx)
	require.NoError(t, err)

	err = svc.RunRaffle(ctx, admin.ID)
	assert.ErrorIs(t, err, service.ErrRaffleDone)

	after, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after, "assignments must survive a rejected re-run")
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSecretSantaService()
	participants := registerAll(t, svc, "Alice", "Bob")
	admin := participants[0]

	status, err := svc.Status(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, status.RaffleDone)
	require.NotNil(t, status.User)
	assert.Nil(t, status.Target)

	// Unknown ids return the bare flag, not an error.
	status, err = svc.Status(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, status.User)

	require.NoError(t, svc.RunRaffle(ctx, admin.ID))

	status, err = svc.Status(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, status.RaffleDone)
	require.NotNil(t, status.Target)
	assert.Equal(t, "Bob", status.Target.Name, "with two participants the admin must draw the other")
}
