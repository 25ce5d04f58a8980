package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhijithns29/propchain/internal/domain"
)

// staticAreaPrices backs insights while the listing store is still empty,
// keyed state → district.
var staticAreaPrices = map[string]map[string]float64{
	"Kerala": {
		"Ernakulam":          2800,
		"Thiruvananthapuram": 2500,
		"Kozhikode":          2200,
		"Thrissur":           2100,
		"Kannur":             1900,
	},
	"Karnataka": {
		"Bangalore": 4500,
		"Mysore":    2000,
		"Mangalore": 2300,
	},
	"Tamil Nadu": {
		"Chennai":    4000,
		"Coimbatore": 2200,
		"Madurai":    1800,
	},
	"Maharashtra": {
		"Mumbai": 8000,
		"Pune":   3500,
	},
}

const (
	defaultStaticPrice = 2000.0
	recentSalesWindow  = 30 * 24 * time.Hour
)

// Service produces market insights for a district, preferring scraped data
// and falling back to the static estimates.
type Service struct {
	store  *Store
	logger *slog.Logger
}

// NewService creates a market insight service. The store may be nil, in
// which case only static estimates are served.
func NewService(store *Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Insights aggregates market context for one district. It degrades to the
// static table on any store failure rather than returning an error, so the
// only caller-visible failure mode is the context being cancelled.
func (s *Service) Insights(ctx context.Context, district, state, landType string) (domain.MarketInsights, error) {
	if err := ctx.Err(); err != nil {
		return domain.MarketInsights{}, err
	}

	if s.store != nil {
		stats, err := s.store.Stats(ctx, district, state, landType, recentSalesWindow)
		if err != nil {
			s.logger.Warn("market stats query failed, using static estimates",
				"district", district,
				"error", err,
			)
		} else if stats.ListingCount > 0 {
			return domain.MarketInsights{
				AvgPricePerSqft:      stats.AvgPricePerSqft,
				PriceTrend:           "increasing",
				GrowthRate:           8.5,
				RecentSales:          stats.RecentSales,
				MarketActivity:       "moderate",
				ComparableProperties: []string{},
			}, nil
		}
	}

	return domain.MarketInsights{
		AvgPricePerSqft:      staticAreaPrice(district, state),
		PriceTrend:           "increasing",
		GrowthRate:           8.5,
		RecentSales:          15,
		MarketActivity:       "moderate",
		ComparableProperties: []string{},
	}, nil
}

func staticAreaPrice(district, state string) float64 {
	if price, ok := staticAreaPrices[state][district]; ok {
		return price
	}
	return defaultStaticPrice
}
