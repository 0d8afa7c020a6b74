package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/config"
)

type kvEntry struct {
	StoreKey string `gorm:"primaryKey"`
	Value    string `gorm:"not null"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

type kvHashEntry struct {
	StoreKey string `gorm:"primaryKey"`
	Field    string `gorm:"primaryKey"`
	Value    string `gorm:"not null"`
}

func (kvHashEntry) TableName() string {
	return "kv_hash_entries"
}

type kvSetMember struct {
	StoreKey string `gorm:"primaryKey"`
	Member   string `gorm:"primaryKey"`
}

func (kvSetMember) TableName() string {
	return "kv_set_members"
}

// Postgres emulates the Store contract on three narrow tables, one per
// value kind. Composite primary keys give the same per-key atomicity
// the Redis backend has.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(conf *config.PostgresConfig) (*Postgres, error) {
	dsn := fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=disable",
		conf.Host, conf.Port, conf.User, conf.Password, conf.DB)

	return OpenPostgresWithURL(dsn)
}

func OpenPostgresWithURL(url string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = db.AutoMigrate(&kvEntry{}, &kvHashEntry{}, &kvSetMember{}); err != nil {
		return nil, fmt.Errorf("db.AutoMigrate -> %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var entry kvEntry

	result := p.db.WithContext(ctx).First(&entry, "store_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}

		return "", result.Error
	}

	return entry.Value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	result := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&kvEntry{StoreKey: key, Value: value})

	return result.Error
}

func (p *Postgres) HGet(ctx context.Context, key, field string) (string, error) {
	var entry kvHashEntry

	result := p.db.WithContext(ctx).First(&entry, "store_key = ? AND field = ?", key, field)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}

		return "", result.Error
	}

	return entry.Value, nil
}

func (p *Postgres) HSet(ctx context.Context, key, field, value string) error {
	result := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_key"}, {Name: "field"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&kvHashEntry{StoreKey: key, Field: field, Value: value})

	return result.Error
}

func (p *Postgres) HDel(ctx context.Context, key string, fields ...string) error {
	result := p.db.WithContext(ctx).
		Where("store_key = ? AND field IN ?", key, fields).
		Delete(&kvHashEntry{})

	return result.Error
}

func (p *Postgres) HVals(ctx context.Context, key string) ([]string, error) {
	var values []string

	result := p.db.WithContext(ctx).Model(&kvHashEntry{}).
		Where("store_key = ?", key).
		Pluck("value", &values)
	if result.Error != nil {
		return nil, result.Error
	}

	return values, nil
}

func (p *Postgres) HLen(ctx context.Context, key string) (int64, error) {
	var count int64

	result := p.db.WithContext(ctx).Model(&kvHashEntry{}).
		Where("store_key = ?", key).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (p *Postgres) SAdd(ctx context.Context, key, member string) error {
	result := p.db.WithContext(ctx).Create(&kvSetMember{StoreKey: key, Member: member})
	if result.Error != nil {
		// Adding an existing member is a no-op, like SADD.
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil
		}

		return result.Error
	}

	return nil
}

func (p *Postgres) SRem(ctx context.Context, key, member string) error {
	result := p.db.WithContext(ctx).
		Where("store_key = ? AND member = ?", key, member).
		Delete(&kvSetMember{})

	return result.Error
}

func (p *Postgres) SMembers(ctx context.Context, key string) ([]string, error) {
	var members []string

	result := p.db.WithContext(ctx).Model(&kvSetMember{}).
		Where("store_key = ?", key).
		Pluck("member", &members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (p *Postgres) SCard(ctx context.Context, key string) (int64, error) {
	var count int64

	result := p.db.WithContext(ctx).Model(&kvSetMember{}).
		Where("store_key = ?", key).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
