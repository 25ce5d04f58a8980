// Package market supplies non-authoritative market context for a district:
// scraped listing prices, recent-sale counts, and activity labels. Nothing in
// this package may fail a prediction request; callers substitute defaults.
package market

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Listing is one scraped price observation.
type Listing struct {
	District     string
	State        string
	LandType     string
	PricePerSqft float64
	Source       string
	ScrapedAt    time.Time
}

// AreaStats aggregates stored listings for one district.
type AreaStats struct {
	AvgPricePerSqft float64
	ListingCount    int
	RecentSales     int
}

// Store persists scraped listings in sqlite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the listing database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open market db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// WAL keeps concurrent insight reads from blocking scraper writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			district       TEXT NOT NULL,
			state          TEXT NOT NULL,
			land_type      TEXT NOT NULL,
			price_per_sqft REAL NOT NULL,
			source         TEXT NOT NULL,
			scraped_at     TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_listings_area ON listings (state, district, land_type);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate market db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertListings stores a batch of scraped listings in one transaction.
func (s *Store) InsertListings(ctx context.Context, listings []Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (district, state, land_type, price_per_sqft, source, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.ExecContext(ctx,
			l.District, l.State, l.LandType, l.PricePerSqft, l.Source, l.ScrapedAt,
		); err != nil {
			return fmt.Errorf("insert listing: %w", err)
		}
	}

	return tx.Commit()
}

// Stats aggregates listings for a district, counting listings scraped within
// recentWindow as recent sales.
func (s *Store) Stats(ctx context.Context, district, state, landType string, recentWindow time.Duration) (AreaStats, error) {
	cutoff := clock.Now().Add(-recentWindow)

	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(price_per_sqft), 0),
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN scraped_at >= ? THEN 1 ELSE 0 END), 0)
		FROM listings
		WHERE state = ? AND district = ? AND land_type = ?
	`, cutoff, state, district, landType)

	var stats AreaStats
	if err := row.Scan(&stats.AvgPricePerSqft, &stats.ListingCount, &stats.RecentSales); err != nil {
		return AreaStats{}, fmt.Errorf("query area stats: %w", err)
	}
	return stats, nil
}
