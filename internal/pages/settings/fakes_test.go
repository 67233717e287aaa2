// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/invitation/internal/platform/dberr"
)

// memoryRepository is an in-process [Repository] with UNIQUE(page_id) semantics.
type memoryRepository struct {
	mu   sync.Mutex
	rows map[string]*PageSettings

	// onMiss runs (outside the lock) whenever Get misses.
	onMiss func()
	// afterRead runs (outside the lock) after Get found a row; its error is returned.
	afterRead func(ctx context.Context) error
	// failUpsert makes every Upsert fail.
	failUpsert error

	inserts int
	upserts []Fields
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[string]*PageSettings{}}
}

func (repository *memoryRepository) Get(ctx context.Context, pageID string) (*PageSettings, error) {
	repository.mu.Lock()
	row, ok := repository.rows[pageID]
	if ok {
		row = row.Clone()
	}
	miss, read := repository.onMiss, repository.afterRead
	repository.mu.Unlock()

	if !ok {
		if miss != nil {
			miss()
		}
		return nil, dberr.ErrNotFound
	}
	if read != nil {
		if err := read(ctx); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func (repository *memoryRepository) Insert(_ context.Context, pageID string, fields Fields, now time.Time) (*PageSettings, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.inserts++
	if _, exists := repository.rows[pageID]; exists {
		return nil, fmt.Errorf("insert_page_settings: %w", dberr.ErrDuplicate)
	}

	row := &PageSettings{PageID: pageID, Fields: Fields{}, CreatedAt: now, UpdatedAt: now}
	for key, value := range fields {
		row.Fields[key] = value
	}
	repository.rows[pageID] = row
	return row.Clone(), nil
}

func (repository *memoryRepository) Upsert(_ context.Context, pageID string, fields Fields, now time.Time) (*PageSettings, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failUpsert != nil {
		return nil, repository.failUpsert
	}
	if _, ok := fields[FieldBgmAutoplay]; !ok {
		return nil, errors.New(`null value in column "bgm_autoplay" violates not-null constraint`)
	}

	repository.upserts = append(repository.upserts, fields.Clone())

	row, ok := repository.rows[pageID]
	if !ok {
		row = &PageSettings{PageID: pageID, Fields: Fields{}, CreatedAt: now}
		repository.rows[pageID] = row
	}
	for key, value := range fields {
		row.Fields[key] = value
	}
	row.UpdatedAt = now
	return row.Clone(), nil
}

func (repository *memoryRepository) Delete(_ context.Context, pageID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.rows, pageID)
	return nil
}

func (repository *memoryRepository) put(record *PageSettings) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.rows[record.PageID] = record.Clone()
}

func (repository *memoryRepository) count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.rows)
}

// memoryListRepository is an in-process [ListRepository]. InTx snapshots the
// lists and restores them when the callback fails.
type memoryListRepository struct {
	mu    sync.Mutex
	lists map[string][]ListItem

	failDelete error
	failInsert error
}

func newMemoryListRepository() *memoryListRepository {
	return &memoryListRepository{lists: map[string][]ListItem{}}
}

func listKey(pageID string, kind ListKind) string {
	return string(kind) + "/" + pageID
}

func (repository *memoryListRepository) Items(_ context.Context, pageID string, kind ListKind) ([]ListItem, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	items := slices.Clone(repository.lists[listKey(pageID, kind)])
	slices.SortStableFunc(items, func(a, b ListItem) int { return a.DisplayOrder - b.DisplayOrder })
	if items == nil {
		items = []ListItem{}
	}
	return items, nil
}

func (repository *memoryListRepository) DeleteItems(_ context.Context, pageID string, kind ListKind) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failDelete != nil {
		return repository.failDelete
	}
	delete(repository.lists, listKey(pageID, kind))
	return nil
}

func (repository *memoryListRepository) InsertItems(_ context.Context, pageID string, kind ListKind, items []ListItem) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failInsert != nil {
		return repository.failInsert
	}
	key := listKey(pageID, kind)
	repository.lists[key] = append(repository.lists[key], items...)
	return nil
}

func (repository *memoryListRepository) InTx(ctx context.Context, fn func(tx ListRepository) error) error {
	repository.mu.Lock()
	snapshot := make(map[string][]ListItem, len(repository.lists))
	for key, items := range repository.lists {
		snapshot[key] = slices.Clone(items)
	}
	repository.mu.Unlock()

	if err := fn(repository); err != nil {
		repository.mu.Lock()
		repository.lists = snapshot
		repository.mu.Unlock()
		return err
	}
	return nil
}

// stubSeeds is a [SeedSource] backed by a map.
type stubSeeds struct {
	seeds map[string]*AccountSeed
	err   error
}

func (stub stubSeeds) SeedForPage(_ context.Context, pageID string) (*AccountSeed, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	return stub.seeds[pageID], nil
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}
