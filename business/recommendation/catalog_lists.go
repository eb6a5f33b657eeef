package recommendation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

// NewArrivals returns the newest visible products.
func (s *Service) NewArrivals(ctx context.Context, limit int, productType string) ([]domain.ProductCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultNewArrivalsLimit
	}

	products, err := s.catalog.FindNewArrivals(ctx, productType, limit)
	if err != nil {
		return nil, fmt.Errorf("load new arrivals: %w", err)
	}

	cards := buildCards(products)
	observeServed(algoNewArrivals, len(cards))

	return cards, nil
}

// BestSellers ranks visible products by units sold in fulfilled orders over
// the last days (BestSellerDays when days <= 0).
func (s *Service) BestSellers(ctx context.Context, limit int, categoryID *uint64, days int) ([]domain.ProductCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultBestSellersLimit
	}
	if days <= 0 {
		days = s.cfg.BestSellerDays
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	sold, err := s.interactions.TopSellingProducts(ctx, since, domain.FulfilledOrderStatuses, limit*2)
	if err != nil {
		return nil, fmt.Errorf("load top sellers: %w", err)
	}
	if len(sold) == 0 {
		observeServed(algoBestSellers, 0)
		return []domain.ProductCard{}, nil
	}

	ids := make([]uint64, 0, len(sold))
	units := make(map[uint64]int, len(sold))
	for _, c := range sold {
		ids = append(ids, c.ProductID)
		units[c.ProductID] = c.Count
	}

	products, err := s.catalog.FindVisibleByIDs(ctx, ids, CatalogFilter{CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("load best seller products: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return units[products[i].ID] > units[products[j].ID]
	})
	if len(products) > limit {
		products = products[:limit]
	}

	logger.Debug("recommend_best_sellers",
		"trace_id", TraceIDFromContext(ctx),
		"days", days,
		"returned", len(products),
	)
	cards := buildCards(products)
	observeServed(algoBestSellers, len(cards))

	return cards, nil
}
