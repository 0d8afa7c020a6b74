package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File wraps Memory and writes a JSON snapshot to disk after every
// mutation. Reads are served from memory; the file is loaded once at
// open time. Good enough for a single-process demo deployment.
type File struct {
	mu   sync.Mutex
	mem  *Memory
	path string
}

func OpenFile(path string) (*File, error) {
	f := &File{
		mem:  NewMemory(),
		path: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}

		return nil, fmt.Errorf("os.ReadFile -> %w", err)
	}

	var snap memorySnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	f.mem.restore(snap)

	return f, nil
}

func (f *File) save() error {
	data, err := json.MarshalIndent(f.mem.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent -> %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll -> %w", err)
	}
	if err = os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile -> %w", err)
	}

	return nil
}

func (f *File) Get(ctx context.Context, key string) (string, error) {
	return f.mem.Get(ctx, key)
}

func (f *File) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mem.Set(ctx, key, value); err != nil {
		return err
	}

	return f.save()
}

func (f *File) HGet(ctx context.Context, key, field string) (string, error) {
	return f.mem.HGet(ctx, key, field)
}

func (f *File) HSet(ctx context.Context, key, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mem.HSet(ctx, key, field, value); err != nil {
		return err
	}

	return f.save()
}

func (f *File) HDel(ctx context.Context, key string, fields ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mem.HDel(ctx, key, fields...); err != nil {
		return err
	}

	return f.save()
}

func (f *File) HVals(ctx context.Context, key string) ([]string, error) {
	return f.mem.HVals(ctx, key)
}

func (f *File) HLen(ctx context.Context, key string) (int64, error) {
	return f.mem.HLen(ctx, key)
}

func (f *File) SAdd(ctx context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mem.SAdd(ctx, key, member); err != nil {
		return err
	}

	return f.save()
}

func (f *File) SRem(ctx context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mem.SRem(ctx, key, member); err != nil {
		return err
	}

	return f.save()
}

func (f *File) SMembers(ctx context.Context, key string) ([]string, error) {
	return f.mem.SMembers(ctx, key)
}

func (f *File) SCard(ctx context.Context, key string) (int64, error) {
	return f.mem.SCard(ctx, key)
}
