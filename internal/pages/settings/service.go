// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/cache"
	"github.com/taibuivan/invitation/internal/platform/constants"
	"github.com/taibuivan/invitation/internal/platform/ctxutil"
	"github.com/taibuivan/invitation/internal/platform/dberr"
	"github.com/taibuivan/invitation/internal/platform/metrics"
	"github.com/taibuivan/invitation/internal/platform/sec"
)

// Options configures a [Service].
type Options struct {
	// PublicStorageURL is the prefix stored image paths are joined onto.
	PublicStorageURL string

	// CacheTTL bounds how long a read may be served from the cache. Zero disables caching.
	CacheTTL time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Service implements settings reads and writes.
type Service struct {
	repo     Repository
	lists    ListRepository
	seeds    SeedSource
	cache    cache.Cache
	cacheTTL time.Duration
	prefix   string
	now      func() time.Time

	// bootstraps collapses concurrent first reads of one page in this process.
	// Cross-process races are settled by UNIQUE(page_id).
	bootstraps singleflight.Group

	// fills guards generations; a read only fills the cache when no write to
	// its page landed while the read was in flight.
	fills       sync.Mutex
	generations map[string]uint64
}

// NewService wires a settings service. seeds and store may be nil.
func NewService(repo Repository, lists ListRepository, seeds SeedSource, store cache.Cache, options Options) *Service {
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		repo:     repo,
		lists:    lists,
		seeds:    seeds,
		cache:    store,
		cacheTTL: options.CacheTTL,
		prefix:   options.PublicStorageURL,
		now:      clock,

		generations: make(map[string]uint64),
	}
}

// # Target Page

/*
TargetPage picks the page a request acts on.

A customer token carries the page bound to the account; it always wins over
the requested id so a customer cannot address another couple's page.
Operators act on whatever page they name.

Returns:
  - string: The effective page id
  - error: VALIDATION_ERROR when no page can be determined
*/
func TargetPage(identity *sec.AuthClaims, requested string) (string, error) {
	if boundToPage(identity) {
		return identity.PageID, nil
	}
	if requested == "" {
		return "", apperr.ValidationError("pageId is required",
			apperr.FieldError{Field: "pageId", Message: "This field is required"})
	}
	return requested, nil
}

// boundToPage reports whether identity is a customer with a page of their own.
func boundToPage(identity *sec.AuthClaims) bool {
	return identity != nil && identity.Role == sec.RoleUser && identity.PageID != ""
}

// # Settings Accessor

/*
Get returns the settings of a page, creating a default row on first access.

Description: Concurrent first reads may all miss; only one insert wins the
UNIQUE(page_id) race and the losers re-read the winner's row, so every caller
observes the same record.

Returns:
  - *PageSettings: The stored row with its derived public image URL
  - error: Store failure
*/
func (service *Service) Get(context context.Context, pageID string) (*PageSettings, error) {
	if record := service.cached(context, pageID); record != nil {
		return service.present(record), nil
	}

	// The shared read outlives any single caller; each caller still honours its own deadline.
	flight := service.bootstraps.DoChan(pageID, func() (any, error) {
		shared, cancel := detach(context)
		defer cancel()

		generation := service.generation(pageID)
		record, err := service.getOrCreate(shared, pageID)
		if err != nil {
			return nil, err
		}
		service.remember(shared, record, generation)
		return record, nil
	})

	select {
	case <-context.Done():
		return nil, context.Err()
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}
		// singleflight hands the same pointer to every waiter.
		return service.present(result.Val.(*PageSettings)), nil
	}
}

func (service *Service) getOrCreate(context context.Context, pageID string) (*PageSettings, error) {
	record, err := service.repo.Get(context, pageID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)
	defaults := DefaultSettings(service.seedFor(context, pageID))

	record, err = service.repo.Insert(context, pageID, defaults, service.now())
	if errors.Is(err, dberr.ErrDuplicate) {
		metrics.BootstrapRaceTotal.Inc()
		logger.Info("page_settings_bootstrap_race_lost", slog.String("page_id", pageID))
		return service.repo.Get(context, pageID)
	}
	if err != nil {
		return nil, err
	}

	metrics.BootstrapTotal.Inc()
	logger.Info("page_settings_bootstrapped", slog.String("page_id", pageID))
	return record, nil
}

// seedFor reads the linked account. Failure is tolerated: the page is then
// bootstrapped with empty wedding fields.
func (service *Service) seedFor(context context.Context, pageID string) *AccountSeed {
	if service.seeds == nil {
		return nil
	}

	seed, err := service.seeds.SeedForPage(context, pageID)
	if err != nil {
		ctxutil.GetLogger(context).Warn("page_settings_seed_lookup_failed",
			slog.String("page_id", pageID),
			slog.Any("error", err),
		)
		return nil
	}
	return seed
}

// # Merge-Preserving Upsert

/*
Save writes sanitized fields to a page and returns the persisted row.

Description: A photo path without a URL gets a synthesized URL. When the
write does not mention bgm_autoplay the stored value is carried forward
("off" if the row does not exist yet), so a partial write never violates the
NOT NULL column nor resets the customer's choice.
*/
func (service *Service) Save(context context.Context, pageID string, fields Fields) (*PageSettings, error) {
	final := fields.Clone()
	service.deriveImageURL(final)

	if !final.Has(FieldBgmAutoplay) {
		existing, err := service.existing(context, pageID)
		if err != nil {
			return nil, err
		}
		final[FieldBgmAutoplay] = storedToggle(existing)
	}

	record, err := service.repo.Upsert(context, pageID, final, service.now())
	if err != nil {
		return nil, err
	}

	service.invalidate(context, pageID)
	ctxutil.GetLogger(context).Info("page_settings_saved",
		slog.String("page_id", pageID),
		slog.Int("field_count", len(final)),
	)

	return service.present(record), nil
}

// deriveImageURL synthesizes the photo URL from its storage path when the
// write carries a path but no URL.
func (service *Service) deriveImageURL(fields Fields) {
	path := fields.Text(FieldPhotoImagePath)
	if path == "" || !fields.IsUnset(FieldPhotoImageURL) {
		return
	}
	fields[FieldPhotoImageURL] = JoinStorageURL(service.prefix, path)
}

// # Approval-Time Seeder

/*
SeedOnApproval fills wedding details that are still unset on a page.

Description: Only wedding_date, groom_name_en and bride_name_en are
considered. A field is written only when the stored value is null or empty,
so details the customer already entered are never overwritten. When nothing
qualifies no write happens and the result is flagged Noop.
*/
func (service *Service) SeedOnApproval(context context.Context, pageID string, incoming Fields) (*SeedResult, error) {
	existing, err := service.existing(context, pageID)
	if err != nil {
		return nil, err
	}

	write := Fields{}
	written := make([]string, 0, len(seedFields))
	for _, key := range seedFields {
		if incoming.IsUnset(key) {
			continue
		}
		if existing != nil && !existing.Fields.IsUnset(key) {
			continue
		}
		write[key] = incoming[key]
		written = append(written, key)
	}

	logger := ctxutil.GetLogger(context)

	if len(write) == 0 {
		metrics.SeedTotal.WithLabelValues(metrics.SeedOutcomeNoop).Inc()
		logger.Info("page_settings_seed_noop", slog.String("page_id", pageID))
		return &SeedResult{Settings: service.present(existing), Noop: true}, nil
	}

	if existing == nil {
		// A row created here must look like a bootstrapped one.
		for key, value := range DefaultSettings(nil) {
			if !write.Has(key) {
				write[key] = value
			}
		}
	} else {
		write[FieldBgmAutoplay] = storedToggle(existing)
	}

	record, err := service.repo.Upsert(context, pageID, write, service.now())
	if err != nil {
		return nil, err
	}

	service.invalidate(context, pageID)
	metrics.SeedTotal.WithLabelValues(metrics.SeedOutcomeWritten).Inc()
	logger.Info("page_settings_seeded",
		slog.String("page_id", pageID),
		slog.Any("fields", written),
	)

	return &SeedResult{Settings: service.present(record), Written: written}, nil
}

// # Teardown

// Delete removes the settings row of a page.
func (service *Service) Delete(context context.Context, pageID string) error {
	if err := service.repo.Delete(context, pageID); err != nil {
		return err
	}
	service.invalidate(context, pageID)
	return nil
}

// # Helpers

// existing returns the stored row, or nil when the page has none.
func (service *Service) existing(context context.Context, pageID string) (*PageSettings, error) {
	record, err := service.repo.Get(context, pageID)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, nil
	}
	return record, err
}

// storedToggle returns the bgm_autoplay value to carry forward.
func storedToggle(existing *PageSettings) string {
	if existing == nil {
		return ToggleOff
	}
	if value := existing.Fields.Text(FieldBgmAutoplay); value != "" {
		return value
	}
	return ToggleOff
}

// present fills derived fields on a copy of record.
func (service *Service) present(record *PageSettings) *PageSettings {
	if record == nil {
		return nil
	}
	presented := record.Clone()
	presented.PublicImageURL = PublicImageURL(presented, service.prefix)
	return presented
}

// # Read Cache

func cacheKey(pageID string) string {
	return constants.CachePrefixPageSettings + pageID
}

// cached returns the cached row or nil. Cache failures count as misses.
func (service *Service) cached(context context.Context, pageID string) *PageSettings {
	if service.cache == nil || service.cacheTTL <= 0 {
		return nil
	}

	data, err := service.cache.Get(context, cacheKey(pageID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			ctxutil.GetLogger(context).Warn("page_settings_cache_read_failed",
				slog.String("page_id", pageID), slog.Any("error", err))
		}
		return nil
	}

	record := &PageSettings{}
	if err := json.Unmarshal(data, record); err != nil {
		ctxutil.GetLogger(context).Warn("page_settings_cache_decode_failed",
			slog.String("page_id", pageID), slog.Any("error", err))
		return nil
	}
	return record
}

// detach keeps the values of parent (logger, request id) but not its
// cancellation, bounded by its own deadline.
func detach(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), constants.SettingsLoadTimeout)
}

// generation returns the write count of a page seen by this process.
func (service *Service) generation(pageID string) uint64 {
	service.fills.Lock()
	defer service.fills.Unlock()
	return service.generations[pageID]
}

// remember caches record unless a write to its page happened after generation
// was taken. The check and the fill share one critical section with the
// counter bump in invalidate, so a stale fill always lands before the delete.
func (service *Service) remember(context context.Context, record *PageSettings, generation uint64) {
	if service.cache == nil || service.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		ctxutil.GetLogger(context).Warn("page_settings_cache_write_failed",
			slog.String("page_id", record.PageID), slog.Any("error", err))
		return
	}

	service.fills.Lock()
	defer service.fills.Unlock()

	if service.generations[record.PageID] != generation {
		ctxutil.GetLogger(context).Debug("page_settings_cache_fill_skipped",
			slog.String("page_id", record.PageID))
		return
	}
	if err := service.cache.Set(context, cacheKey(record.PageID), data, service.cacheTTL); err != nil {
		ctxutil.GetLogger(context).Warn("page_settings_cache_write_failed",
			slog.String("page_id", record.PageID), slog.Any("error", err))
	}
}

func (service *Service) invalidate(context context.Context, pageID string) {
	if service.cache == nil {
		return
	}

	service.fills.Lock()
	service.generations[pageID]++
	service.fills.Unlock()

	if err := service.cache.Delete(context, cacheKey(pageID)); err != nil {
		ctxutil.GetLogger(context).Warn("page_settings_cache_invalidate_failed",
			slog.String("page_id", pageID), slog.Any("error", err))
	}
}
