package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/repository"
)

var (
	ErrNameTaken             = errors.New("user already exists")
	ErrWrongCredentials      = errors.New("invalid credentials")
	ErrNotAdmin              = errors.New("unauthorized")
	ErrParticipantNotFound   = repository.ErrParticipantNotFound
	ErrNotEnoughParticipants = errors.New("not enough participants to run raffle")
	ErrRaffleDone            = errors.New("raffle has already been run")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p domain.Participant) (domain.Participant, error)
	Save(ctx context.Context, p domain.Participant) (domain.Participant, error)
	Delete(ctx context.Context, p domain.Participant) error
	FindByID(ctx context.Context, id string) (domain.Participant, error)
	FindByName(ctx context.Context, name string) (domain.Participant, error)
	FindAll(ctx context.Context) ([]domain.Participant, error)
	Count(ctx context.Context) (int64, error)
	IsRaffleDone(ctx context.Context) (bool, error)
	MarkRaffleDone(ctx context.Context) error
}

// Status is the document served by the status endpoint. Target is set
// only after the raffle has assigned this user someone to gift.
type Status struct {
	RaffleDone bool
	User       *domain.Participant
	Target     *domain.Participant
}

// SecretSantaService owns the participant registry and the one-way
// raffle state machine. The mutex serializes registration, removal and
// the raffle itself, so the first-registrant admin check and the
// read-shuffle-write sequence cannot interleave.
type SecretSantaService struct {
	mu   sync.Mutex
	repo ParticipantRepository
}

func NewSecretSantaService(repo ParticipantRepository) *SecretSantaService {
	return &SecretSantaService{
		repo: repo,
	}
}

// Register creates a participant. Names are unique with exact,
// case-sensitive matching. The very first registrant becomes the
// admin; everyone after does not.
func (s *SecretSantaService) Register(ctx context.Context, name, password string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return domain.Participant{}, ErrNameTaken
	}
	if !errors.Is(err, repository.ErrParticipantNotFound) {
		return domain.Participant{}, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Count -> %w", err)
	}

	p := domain.Participant{
		ID:       uuid.NewString(),
		Name:     name,
		Password: password,
		Wishlist: []domain.WishlistItem{},
		IsAdmin:  count == 0,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("participant registered",
		zap.String("id", created.ID),
		zap.Bool("admin", created.IsAdmin))

	return created, nil
}

// Login checks name and password with an exact match. The passwords
// are plain text end to end; hashing is out of scope for this demo.
// Unknown names fail the same way as wrong passwords.
func (s *SecretSantaService) Login(ctx context.Context, name, password string) (domain.Participant, error) {
	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.Participant{}, ErrWrongCredentials
		}

		return domain.Participant{}, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	if p.Password != password {
		return domain.Participant{}, ErrWrongCredentials
	}

	return p, nil
}

// PublicParticipants lists id and name only. Passwords, wishlists and
// targets never leave through this path.
func (s *SecretSantaService) PublicParticipants(ctx context.Context) ([]domain.PublicParticipant, error) {
	participants, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	public := make([]domain.PublicParticipant, 0, len(participants))
	for _, p := range participants {
		public = append(public, domain.PublicParticipant{
			ID:   p.ID,
			Name: p.Name,
		})
	}

	return public, nil
}

// UpdateWishlist replaces the user's wishlist wholesale. Items without
// an id get one assigned.
func (s *SecretSantaService) UpdateWishlist(ctx context.Context, userID string, items []domain.WishlistItem) (domain.Participant, error) {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}

		return domain.Participant{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	wishlist := make([]domain.WishlistItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		wishlist = append(wishlist, item)
	}
	p.Wishlist = wishlist

	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return saved, nil
}

// Remove deletes a participant. Only the admin may do this, and only
// before the raffle has run; afterwards removal would leave someone
// giving to a ghost, so it is rejected outright.
func (s *SecretSantaService) Remove(ctx context.Context, adminID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	done, err := s.repo.IsRaffleDone(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.IsRaffleDone -> %w", err)
	}
	if done {
		return ErrRaffleDone
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.repo.Delete(ctx, target); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// RunRaffle shuffles all participants with a Fisher-Yates pass and
// chains each one to the next, wrapping at the end. The assignment
// graph is therefore a single cycle over everyone: nobody draws
// themself and everybody gives and receives exactly once. The raffle
// runs once; re-running is rejected.
func (s *SecretSantaService) RunRaffle(ctx context.Context, adminID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	done, err := s.repo.IsRaffleDone(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.IsRaffleDone -> %w", err)
	}
	if done {
		return ErrRaffleDone
	}

	participants, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.FindAll -> %w", err)
	}
	if len(participants) < 2 {
		return ErrNotEnoughParticipants
	}

	shuffled := make([]domain.Participant, len(participants))
	copy(shuffled, participants)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	for k := range shuffled {
		targetID := shuffled[(k+1)%len(shuffled)].ID
		shuffled[k].TargetID = &targetID
	}

	for _, p := range shuffled {
		if _, err = s.repo.Save(ctx, p); err != nil {
			return fmt.Errorf("s.repo.Save -> %w", err)
		}
	}

	if err = s.repo.MarkRaffleDone(ctx); err != nil {
		return fmt.Errorf("s.repo.MarkRaffleDone -> %w", err)
	}

	zap.L().Info("raffle completed", zap.Int("participants", len(shuffled)))

	return nil
}

// Status reports the raffle flag plus, when a known userID is given,
// that user and their resolved target.
func (s *SecretSantaService) Status(ctx context.Context, userID string) (Status, error) {
	done, err := s.repo.IsRaffleDone(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("s.repo.IsRaffleDone -> %w", err)
	}

	status := Status{RaffleDone: done}
	if userID == "" {
		return status, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return status, nil
		}

		return Status{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	status.User = &user

	if user.TargetID != nil {
		target, err := s.repo.FindByID(ctx, *user.TargetID)
		if err != nil {
			if errors.Is(err, repository.ErrParticipantNotFound) {
				return status, nil
			}

			return Status{}, fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		status.Target = &target
	}

	return status, nil
}

func (s *SecretSantaService) requireAdmin(ctx context.Context, id string) error {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return ErrNotAdmin
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !admin.IsAdmin {
		return ErrNotAdmin
	}

	return nil
}
