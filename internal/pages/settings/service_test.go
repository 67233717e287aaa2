// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/cache"
	"github.com/taibuivan/invitation/internal/platform/metrics"
	"github.com/taibuivan/invitation/internal/platform/sec"
)

type serviceFixture struct {
	repo  *memoryRepository
	lists *memoryListRepository
	clock *fakeClock
	svc   *Service
}

func newFixture(seeds SeedSource, store cache.Cache) *serviceFixture {
	fixture := &serviceFixture{
		repo:  newMemoryRepository(),
		lists: newMemoryListRepository(),
		clock: newFakeClock(),
	}
	fixture.svc = NewService(fixture.repo, fixture.lists, seeds, store, Options{
		PublicStorageURL: testPrefix,
		CacheTTL:         time.Minute,
		Clock:            fixture.clock.Now,
	})
	return fixture
}

// # Bootstrap

/*
TestGet_BootstrapsFromAccount verifies that a first read creates a default
row seeded from the linked account.
*/
func TestGet_BootstrapsFromAccount(t *testing.T) {
	seeds := stubSeeds{seeds: map[string]*AccountSeed{
		"page-1": {WeddingDate: "2025-05-17", GroomNameEN: "JOHN", BrideNameEN: "JANE"},
	}}
	fixture := newFixture(seeds, nil)
	before := testutil.ToFloat64(metrics.BootstrapTotal)

	record, err := fixture.svc.Get(context.Background(), "page-1")
	require.NoError(t, err)

	assert.Equal(t, "page-1", record.PageID)
	assert.Equal(t, "2025-05-17", record.Fields[FieldWeddingDate])
	assert.Equal(t, "JOHN", record.Fields[FieldGroomNameEN])
	assert.Equal(t, DefaultGalleryType, record.Fields[FieldGalleryType])
	assert.Equal(t, ToggleOff, record.Fields[FieldBgmAutoplay])
	assert.Equal(t, 1, fixture.repo.count())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BootstrapTotal))
}

/*
TestGet_SeedLookupFailureTolerated verifies that an unreachable account
store still yields a default row.
*/
func TestGet_SeedLookupFailureTolerated(t *testing.T) {
	fixture := newFixture(stubSeeds{err: errors.New("accounts unavailable")}, nil)

	record, err := fixture.svc.Get(context.Background(), "page-1")
	require.NoError(t, err)

	assert.Nil(t, record.Fields[FieldWeddingDate])
	assert.Equal(t, ToggleOff, record.Fields[FieldRSVP])
}

/*
TestGet_ConcurrentBootstrapConverges verifies that many first reads of one
page produce exactly one row that every caller sees.
*/
func TestGet_ConcurrentBootstrapConverges(t *testing.T) {
	fixture := newFixture(nil, nil)

	const callers = 20
	results := make([]*PageSettings, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := fixture.svc.Get(context.Background(), "page-1")
			assert.NoError(t, err)
			results[i] = record
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fixture.repo.count())
	for _, record := range results {
		require.NotNil(t, record)
		assert.Equal(t, "page-1", record.PageID)
		assert.Equal(t, results[0].CreatedAt, record.CreatedAt)
	}
}

/*
TestGet_CrossProcessRaceReturnsWinner simulates two API instances missing
at the same time: the loser's insert hits the unique key and it returns the
winner's row instead of an error.
*/
func TestGet_CrossProcessRaceReturnsWinner(t *testing.T) {
	repo := newMemoryRepository()

	var arrived sync.WaitGroup
	arrived.Add(2)
	repo.onMiss = func() {
		arrived.Done()
		arrived.Wait()
	}

	first := NewService(repo, newMemoryListRepository(), nil, nil, Options{})
	second := NewService(repo, newMemoryListRepository(), nil, nil, Options{})
	raceBefore := testutil.ToFloat64(metrics.BootstrapRaceTotal)

	var wg sync.WaitGroup
	records := make([]*PageSettings, 2)
	for i, svc := range []*Service{first, second} {
		i, svc := i, svc
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := svc.Get(context.Background(), "page-1")
			assert.NoError(t, err)
			records[i] = record
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.count())
	assert.Equal(t, 2, repo.inserts)
	assert.Equal(t, records[0].CreatedAt, records[1].CreatedAt)
	assert.Equal(t, raceBefore+1, testutil.ToFloat64(metrics.BootstrapRaceTotal))
}

// # Save

/*
TestSave_PreservesToggle verifies that a write omitting bgm_autoplay keeps
the stored "on".
*/
func TestSave_PreservesToggle(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldBgmAutoplay: ToggleOn}})

	record, err := fixture.svc.Save(context.Background(), "page-1", Fields{FieldVenueName: "Grand Hall"})
	require.NoError(t, err)

	assert.Equal(t, ToggleOn, record.Fields[FieldBgmAutoplay])
	assert.Equal(t, "Grand Hall", record.Fields[FieldVenueName])
}

/*
TestSave_ToggleDefaultsWhenNoRow verifies the first write of a page
supplies "off" for the NOT NULL toggle.
*/
func TestSave_ToggleDefaultsWhenNoRow(t *testing.T) {
	fixture := newFixture(nil, nil)

	record, err := fixture.svc.Save(context.Background(), "page-1", Fields{FieldGreetingTitle: "Welcome"})
	require.NoError(t, err)

	assert.Equal(t, ToggleOff, record.Fields[FieldBgmAutoplay])
}

/*
TestSave_CallerToggleWins verifies that an explicit toggle is written as sent.
*/
func TestSave_CallerToggleWins(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldBgmAutoplay: ToggleOn}})

	record, err := fixture.svc.Save(context.Background(), "page-1", Fields{FieldBgmAutoplay: ToggleOff})
	require.NoError(t, err)

	assert.Equal(t, ToggleOff, record.Fields[FieldBgmAutoplay])
}

/*
TestSave_SynthesizesImageURL verifies that a path without a URL gets a URL
and a fresh cache-busting version on every save.
*/
func TestSave_SynthesizesImageURL(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	first, err := fixture.svc.Save(ctx, "page-1", Fields{FieldPhotoImagePath: "pages/page-1/photo.jpg"})
	require.NoError(t, err)
	assert.Equal(t, testPrefix+"pages/page-1/photo.jpg", first.Fields[FieldPhotoImageURL])

	fixture.clock.Advance(time.Minute)
	second, err := fixture.svc.Save(ctx, "page-1", Fields{FieldPhotoImagePath: "pages/page-1/photo.jpg"})
	require.NoError(t, err)

	assert.NotEqual(t, first.PublicImageURL, second.PublicImageURL)
	assert.Contains(t, second.PublicImageURL, "v=")
}

/*
TestSave_StoreErrorPropagates verifies that a failed upsert surfaces.
*/
func TestSave_StoreErrorPropagates(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.failUpsert = apperr.Store(errors.New("boom"), "permission denied", "", "", "42501")

	_, err := fixture.svc.Save(context.Background(), "page-1", Fields{FieldVenueName: "Hall"})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "42501", ae.StoreCode)
}

// # Approval Seed

/*
TestSeedOnApproval_NeverOverwrites verifies that a set value is kept.
*/
func TestSeedOnApproval_NeverOverwrites(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{
		FieldGroomNameEN: "JOHN",
		FieldBgmAutoplay: ToggleOn,
	}})

	result, err := fixture.svc.SeedOnApproval(context.Background(), "page-1", Fields{
		FieldGroomNameEN: "JANE",
		FieldBrideNameEN: "MARY",
	})
	require.NoError(t, err)

	assert.False(t, result.Noop)
	assert.Equal(t, []string{FieldBrideNameEN}, result.Written)
	assert.Equal(t, "JOHN", result.Settings.Fields[FieldGroomNameEN])
	assert.Equal(t, "MARY", result.Settings.Fields[FieldBrideNameEN])
	assert.Equal(t, ToggleOn, result.Settings.Fields[FieldBgmAutoplay])
}

/*
TestSeedOnApproval_FillsGaps verifies null and empty values are filled.
*/
func TestSeedOnApproval_FillsGaps(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{
		FieldWeddingDate: nil,
		FieldBrideNameEN: "",
		FieldBgmAutoplay: ToggleOff,
	}})

	result, err := fixture.svc.SeedOnApproval(context.Background(), "page-1", Fields{
		FieldWeddingDate: "2025-01-01",
		FieldBrideNameEN: "JANE",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", result.Settings.Fields[FieldWeddingDate])
	assert.Equal(t, "JANE", result.Settings.Fields[FieldBrideNameEN])
}

/*
TestSeedOnApproval_NoopSkipsWrite verifies no vacuous upsert happens.
*/
func TestSeedOnApproval_NoopSkipsWrite(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{
		FieldWeddingDate: "2025-01-01",
		FieldGroomNameEN: "JOHN",
		FieldBrideNameEN: "JANE",
		FieldBgmAutoplay: ToggleOff,
	}})
	noopBefore := testutil.ToFloat64(metrics.SeedTotal.WithLabelValues(metrics.SeedOutcomeNoop))

	result, err := fixture.svc.SeedOnApproval(context.Background(), "page-1", Fields{
		FieldWeddingDate: "2030-12-31",
		FieldGroomNameEN: "OTHER",
	})
	require.NoError(t, err)

	assert.True(t, result.Noop)
	assert.Empty(t, fixture.repo.upserts)
	assert.Equal(t, "2025-01-01", result.Settings.Fields[FieldWeddingDate])
	assert.Equal(t, noopBefore+1, testutil.ToFloat64(metrics.SeedTotal.WithLabelValues(metrics.SeedOutcomeNoop)))
}

/*
TestSeedOnApproval_IgnoresOtherFields verifies the write set is restricted.
*/
func TestSeedOnApproval_IgnoresOtherFields(t *testing.T) {
	fixture := newFixture(nil, nil)

	result, err := fixture.svc.SeedOnApproval(context.Background(), "page-1", Fields{
		FieldGroomNameEN: "JOHN",
		FieldVenueName:   "Should not be written",
		FieldRSVP:        ToggleOn,
	})
	require.NoError(t, err)

	require.Len(t, fixture.repo.upserts, 1)
	written := fixture.repo.upserts[0]
	assert.Equal(t, "JOHN", written[FieldGroomNameEN])
	assert.False(t, written.Has(FieldVenueName))
	// A row created by the seed starts from the defaults.
	assert.Equal(t, ToggleOff, result.Settings.Fields[FieldRSVP])
	assert.Equal(t, DefaultGalleryType, result.Settings.Fields[FieldGalleryType])
}

// # Target Page

/*
TestTargetPage verifies identity substitution and the missing-id error.
*/
func TestTargetPage(t *testing.T) {
	customer := &sec.AuthClaims{UserID: "u1", PageID: "own-page", Role: sec.RoleUser}
	unbound := &sec.AuthClaims{UserID: "u2", Role: sec.RoleUser}
	operator := &sec.AuthClaims{UserID: "a1", PageID: "admin-page", Role: sec.RoleAdmin}

	tests := []struct {
		name      string
		identity  *sec.AuthClaims
		requested string
		want      string
		wantErr   bool
	}{
		{"customer_identity_wins", customer, "other-page", "own-page", false},
		{"customer_without_request", customer, "", "own-page", false},
		{"operator_targets_any_page", operator, "other-page", "other-page", false},
		{"anonymous_uses_request", nil, "other-page", "other-page", false},
		{"unbound_customer_uses_request", unbound, "p", "p", false},
		{"nothing_to_target", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetPage(tt.identity, tt.requested)
			if tt.wantErr {
				assert.True(t, apperr.HasStatus(err, 400))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// # Read Cache

/*
TestGet_ReadThroughCache verifies that reads are cached and writes invalidate.
*/
func TestGet_ReadThroughCache(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewMemory(clock.Now)
	fixture := newFixture(nil, store)
	ctx := context.Background()

	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldVenueName: "Old Hall", FieldBgmAutoplay: ToggleOff}})

	first, err := fixture.svc.Get(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, "Old Hall", first.Fields[FieldVenueName])

	// A change behind the service's back is not visible until the entry expires.
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldVenueName: "Side Door", FieldBgmAutoplay: ToggleOff}})
	cached, err := fixture.svc.Get(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, "Old Hall", cached.Fields[FieldVenueName])

	// A write through the service invalidates immediately.
	_, err = fixture.svc.Save(ctx, "page-1", Fields{FieldVenueName: "New Hall"})
	require.NoError(t, err)

	fresh, err := fixture.svc.Get(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, "New Hall", fresh.Fields[FieldVenueName])

	// Expiry.
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldVenueName: "Later Hall", FieldBgmAutoplay: ToggleOff}})
	clock.Advance(2 * time.Minute)
	expired, err := fixture.svc.Get(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, "Later Hall", expired.Fields[FieldVenueName])
}

/*
TestGet_WriteDuringReadIsNotCached verifies that a read which fetched the old
row before a concurrent save does not put that row back into the cache.
*/
func TestGet_WriteDuringReadIsNotCached(t *testing.T) {
	fixture := newFixture(nil, cache.NewMemory(time.Now))
	ctx := context.Background()

	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldVenueName: "Old", FieldBgmAutoplay: ToggleOff}})

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fixture.repo.afterRead = func(context.Context) error {
		once.Do(func() {
			close(entered)
			<-release
		})
		return nil
	}

	stale := make(chan *PageSettings, 1)
	go func() {
		record, err := fixture.svc.Get(ctx, "page-1")
		assert.NoError(t, err)
		stale <- record
	}()

	<-entered
	_, err := fixture.svc.Save(ctx, "page-1", Fields{FieldVenueName: "New", FieldBgmAutoplay: ToggleOff})
	require.NoError(t, err)
	close(release)

	assert.Equal(t, "Old", (<-stale).Fields[FieldVenueName])

	fresh, err := fixture.svc.Get(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, "New", fresh.Fields[FieldVenueName])
}

/*
TestGet_CallerCancellationIsolated verifies that a cancelled caller does not
fail other callers waiting on the same page.
*/
func TestGet_CallerCancellationIsolated(t *testing.T) {
	fixture := newFixture(nil, nil)
	fixture.repo.put(&PageSettings{PageID: "page-1", Fields: Fields{FieldVenueName: "Hall", FieldBgmAutoplay: ToggleOff}})

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fixture.repo.afterRead = func(ctx context.Context) error {
		once.Do(func() { close(entered) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := fixture.svc.Get(first, "page-1")
		firstErr <- err
	}()
	<-entered

	second, cancelSecond := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelSecond()
	type outcome struct {
		record *PageSettings
		err    error
	}
	secondResult := make(chan outcome, 1)
	go func() {
		record, err := fixture.svc.Get(second, "page-1")
		secondResult <- outcome{record, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	result := <-secondResult
	require.NoError(t, result.err)
	assert.Equal(t, "Hall", result.record.Fields[FieldVenueName])
}
