package market

import (
	"context"
	"log/slog"
	"time"
)

// Source fetches listings for a district from one portal.
type Source interface {
	Name() string
	Fetch(ctx context.Context, district, state string) ([]Listing, error)
}

// Scraper collects listings from all configured sources and persists them.
type Scraper struct {
	store   *Store
	sources []Source
	logger  *slog.Logger

	// delay between source fetches, to stay polite with the portals.
	delay time.Duration
}

// NewScraper creates a Scraper over the default portal sources.
func NewScraper(store *Store, logger *slog.Logger) *Scraper {
	return &Scraper{
		store:   store,
		sources: []Source{magicBricksSource{}, nineNineAcresSource{}},
		logger:  logger,
		delay:   2 * time.Second,
	}
}

// ScrapeAll runs every source for the district and stores whatever they
// return. A failing source is logged and skipped; the run reports how many
// listings were added overall.
func (s *Scraper) ScrapeAll(ctx context.Context, district, state string) (int, error) {
	var collected []Listing

	for i, src := range s.sources {
		if i > 0 {
			select {
			case <-clock.After(s.delay):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}

		listings, err := src.Fetch(ctx, district, state)
		if err != nil {
			s.logger.Warn("scrape source failed",
				"source", src.Name(),
				"district", district,
				"error", err,
			)
			continue
		}
		collected = append(collected, listings...)
	}

	if err := s.store.InsertListings(ctx, collected); err != nil {
		return 0, err
	}
	return len(collected), nil
}

// magicBricksSource will scrape MagicBricks search results.
// TODO: implement the listing-page parser; the portal currently blocks
// unauthenticated result pages, so this returns no rows.
type magicBricksSource struct{}

func (magicBricksSource) Name() string { return "magicbricks" }

func (magicBricksSource) Fetch(_ context.Context, _, _ string) ([]Listing, error) {
	return nil, nil
}

// nineNineAcresSource will scrape 99acres search results.
type nineNineAcresSource struct{}

func (nineNineAcresSource) Name() string { return "99acres" }

func (nineNineAcresSource) Fetch(_ context.Context, _, _ string) ([]Listing, error) {
	return nil, nil
}
