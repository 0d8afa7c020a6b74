package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

var ErrParticipantNotFound = errors.New("participant not found")

// Key layout: a hash of id -> participant JSON, a hash of
// name -> id for login lookups, and a scalar flag for the raffle state.
const (
	participantsKey = "secret-santa:participants"
	usernamesKey    = "secret-santa:usernames"
	stateKey        = "secret-santa:state"

	raffleDoneValue = "done"
)

// participantRecord is the stored form of a participant. Unlike
// domain.Participant it serializes the password, so it must never be
// returned to a caller directly.
type participantRecord struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Password string               `json:"password"`
	Wishlist []wishlistItemRecord `json:"wishlist"`
	TargetID *string              `json:"targetId"`
	IsAdmin  bool                 `json:"isAdmin"`
}

type wishlistItemRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type ParticipantRepository struct {
	store storage.Store
}

func NewParticipantRepository(store storage.Store) *ParticipantRepository {
	return &ParticipantRepository{
		store: store,
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	if err := r.write(ctx, p); err != nil {
		return domain.Participant{}, err
	}

	if err := r.store.HSet(ctx, usernamesKey, p.Name, p.ID); err != nil {
		return domain.Participant{}, fmt.Errorf("r.store.HSet -> %w", err)
	}

	return p, nil
}

// Save overwrites an existing participant record. The name -> id entry
// is left alone because names are immutable after registration.
func (r *ParticipantRepository) Save(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	if err := r.write(ctx, p); err != nil {
		return domain.Participant{}, err
	}

	return p, nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, p domain.Participant) error {
	if err := r.store.HDel(ctx, participantsKey, p.ID); err != nil {
		return fmt.Errorf("r.store.HDel -> %w", err)
	}

	if err := r.store.HDel(ctx, usernamesKey, p.Name); err != nil {
		return fmt.Errorf("r.store.HDel -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (domain.Participant, error) {
	data, err := r.store.HGet(ctx, participantsKey, id)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}

		return domain.Participant{}, fmt.Errorf("r.store.HGet -> %w", err)
	}

	return r.decode(data)
}

func (r *ParticipantRepository) FindByName(ctx context.Context, name string) (domain.Participant, error) {
	id, err := r.store.HGet(ctx, usernamesKey, name)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}

		return domain.Participant{}, fmt.Errorf("r.store.HGet -> %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *ParticipantRepository) FindAll(ctx context.Context) ([]domain.Participant, error) {
	values, err := r.store.HVals(ctx, participantsKey)
	if err != nil {
		return nil, fmt.Errorf("r.store.HVals -> %w", err)
	}

	participants := make([]domain.Participant, 0, len(values))
	for _, data := range values {
		p, err := r.decode(data)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, nil
}

func (r *ParticipantRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.store.HLen(ctx, participantsKey)
	if err != nil {
		return 0, fmt.Errorf("r.store.HLen -> %w", err)
	}

	return count, nil
}

func (r *ParticipantRepository) IsRaffleDone(ctx context.Context) (bool, error) {
	state, err := r.store.Get(ctx, stateKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("r.store.Get -> %w", err)
	}

	return state == raffleDoneValue, nil
}

func (r *ParticipantRepository) MarkRaffleDone(ctx context.Context) error {
	if err := r.store.Set(ctx, stateKey, raffleDoneValue); err != nil {
		return fmt.Errorf("r.store.Set -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) write(ctx context.Context, p domain.Participant) error {
	data, err := json.Marshal(r.domainToRecord(p))
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = r.store.HSet(ctx, participantsKey, p.ID, string(data)); err != nil {
		return fmt.Errorf("r.store.HSet -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) decode(data string) (domain.Participant, error) {
	var record participantRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return domain.Participant{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return r.recordToDomain(record), nil
}

func (r *ParticipantRepository) domainToRecord(p domain.Participant) participantRecord {
	items := make([]wishlistItemRecord, 0, len(p.Wishlist))
	for _, item := range p.Wishlist {
		items = append(items, wishlistItemRecord{
			ID:   item.ID,
			Name: item.Name,
			URL:  item.URL,
		})
	}

	return participantRecord{
		ID:       p.ID,
		Name:     p.Name,
		Password: p.Password,
		Wishlist: items,
		TargetID: p.TargetID,
		IsAdmin:  p.IsAdmin,
	}
}

func (r *ParticipantRepository) recordToDomain(record participantRecord) domain.Participant {
	items := make([]domain.WishlistItem, 0, len(record.Wishlist))
	for _, item := range record.Wishlist {
		items = append(items, domain.WishlistItem{
			ID:   item.ID,
			Name: item.Name,
			URL:  item.URL,
		})
	}

	return domain.Participant{
		ID:       record.ID,
		Name:     record.Name,
		Password: record.Password,
		Wishlist: items,
		TargetID: record.TargetID,
		IsAdmin:  record.IsAdmin,
	}
}
