package market

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_InsertAndStats(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	store := testStore(t)
	now := fake.Now()

	require.NoError(t, store.InsertListings(context.Background(), []Listing{
		{District: "Chennai", State: "Tamil Nadu", LandType: "RESIDENTIAL", PricePerSqft: 4200, Source: "magicbricks", ScrapedAt: now.Add(-24 * time.Hour)},
		{District: "Chennai", State: "Tamil Nadu", LandType: "RESIDENTIAL", PricePerSqft: 3800, Source: "99acres", ScrapedAt: now.Add(-40 * 24 * time.Hour)},
		{District: "Chennai", State: "Tamil Nadu", LandType: "COMMERCIAL", PricePerSqft: 9000, Source: "99acres", ScrapedAt: now},
	}))

	stats, err := store.Stats(context.Background(), "Chennai", "Tamil Nadu", "RESIDENTIAL", 30*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ListingCount)
	assert.InDelta(t, 4000.0, stats.AvgPricePerSqft, 1e-9)
	assert.Equal(t, 1, stats.RecentSales)
}

func TestStore_StatsEmptyArea(t *testing.T) {
	store := testStore(t)

	stats, err := store.Stats(context.Background(), "Madurai", "Tamil Nadu", "RESIDENTIAL", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ListingCount)
	assert.Equal(t, 0.0, stats.AvgPricePerSqft)
}

func TestService_InsightsFromScrapedData(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.InsertListings(context.Background(), []Listing{
		{District: "Ernakulam", State: "Kerala", LandType: "RESIDENTIAL", PricePerSqft: 3100, Source: "magicbricks", ScrapedAt: time.Now()},
	}))

	svc := NewService(store, discardLogger())
	insights, err := svc.Insights(context.Background(), "Ernakulam", "Kerala", "RESIDENTIAL")
	require.NoError(t, err)

	assert.InDelta(t, 3100.0, insights.AvgPricePerSqft, 1e-9)
	assert.Equal(t, 1, insights.RecentSales)
	assert.Equal(t, "increasing", insights.PriceTrend)
}

func TestService_StaticFallbackWhenNoListings(t *testing.T) {
	svc := NewService(testStore(t), discardLogger())

	insights, err := svc.Insights(context.Background(), "Mumbai", "Maharashtra", "RESIDENTIAL")
	require.NoError(t, err)
	assert.Equal(t, 8000.0, insights.AvgPricePerSqft)
	assert.Equal(t, 15, insights.RecentSales)
	assert.Equal(t, "moderate", insights.MarketActivity)
}

func TestService_UnknownAreaDefaults(t *testing.T) {
	svc := NewService(nil, discardLogger())

	insights, err := svc.Insights(context.Background(), "Panaji", "Goa", "RESIDENTIAL")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, insights.AvgPricePerSqft)
}

func TestService_CancelledContext(t *testing.T) {
	svc := NewService(nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Insights(ctx, "Chennai", "Tamil Nadu", "RESIDENTIAL")
	assert.ErrorIs(t, err, context.Canceled)
}

// --- scraper ---

type stubSource struct {
	name     string
	listings []Listing
	err      error
	calls    int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _, _ string) ([]Listing, error) {
	s.calls++
	return s.listings, s.err
}

func TestScraper_CollectsAcrossSources(t *testing.T) {
	store := testStore(t)

	good := &stubSource{name: "good", listings: []Listing{
		{District: "Chennai", State: "Tamil Nadu", LandType: "RESIDENTIAL", PricePerSqft: 4100, Source: "good", ScrapedAt: time.Now()},
	}}
	failing := &stubSource{name: "failing", err: errors.New("blocked")}

	s := &Scraper{
		store:   store,
		sources: []Source{good, failing},
		logger:  discardLogger(),
		delay:   0,
	}

	added, err := s.ScrapeAll(context.Background(), "Chennai", "Tamil Nadu")
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, good.calls)
	assert.Equal(t, 1, failing.calls)

	stats, err := store.Stats(context.Background(), "Chennai", "Tamil Nadu", "RESIDENTIAL", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ListingCount)
}

func TestScraper_DefaultSourcesReturnNothingYet(t *testing.T) {
	s := NewScraper(testStore(t), discardLogger())
	s.delay = 0

	added, err := s.ScrapeAll(context.Background(), "Chennai", "Tamil Nadu")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}
