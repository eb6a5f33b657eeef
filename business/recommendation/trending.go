package recommendation

import (
	"context"
	"fmt"
	"sort"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

type trendingEntry struct {
	productID     uint64
	thisWeekViews int
	growthRate    int
	score         float64
}

// Trending ranks products by week-over-week view growth.
func (s *Service) Trending(
	ctx context.Context,
	limit int,
	productType string,
) ([]domain.TrendingProduct, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	now := s.now()
	thisWeekStart := now.Add(-s.cfg.TrendingWindow)
	lastWeekStart := thisWeekStart.Add(-s.cfg.TrendingWindow)

	thisWeek, err := s.interactions.CountViewsBetween(ctx, thisWeekStart, now)
	if err != nil {
		return nil, fmt.Errorf("count this week views: %w", err)
	}
	lastWeek, err := s.interactions.CountViewsBetween(ctx, lastWeekStart, thisWeekStart)
	if err != nil {
		return nil, fmt.Errorf("count last week views: %w", err)
	}

	entries := rankTrending(thisWeek, lastWeek, s.cfg.MinTrendingViews)

	// over-fetch so visibility / type filtering can still fill the list
	if len(entries) > limit*2 {
		entries = entries[:limit*2]
	}
	if len(entries) == 0 {
		observeServed(algoTrending, 0)
		return []domain.TrendingProduct{}, nil
	}

	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.productID)
	}
	products, err := s.catalog.FindVisibleByIDs(ctx, ids, CatalogFilter{ProductType: productType})
	if err != nil {
		return nil, fmt.Errorf("load trending products: %w", err)
	}

	byID := indexByID(products)
	out := make([]domain.TrendingProduct, 0, limit)
	for _, e := range entries {
		p, ok := byID[e.productID]
		if !ok {
			continue
		}
		out = append(out, domain.TrendingProduct{
			ProductCard:   buildCard(p),
			GrowthRate:    e.growthRate,
			ThisWeekViews: e.thisWeekViews,
		})
		if len(out) >= limit {
			break
		}
	}

	logger.Debug("recommend_trending",
		"trace_id", TraceIDFromContext(ctx),
		"product_type", productType,
		"qualified", len(entries),
		"returned", len(out),
	)
	observeServed(algoTrending, len(out))

	return out, nil
}

// rankTrending scores products with at least minViews this week.
//
// A product with no views last week is measured against a baseline of one
// view, so new products show very large growth rates.
func rankTrending(thisWeek, lastWeek []domain.ProductCount, minViews int) []trendingEntry {
	last := make(map[uint64]int, len(lastWeek))
	for _, c := range lastWeek {
		last[c.ProductID] = c.Count
	}

	entries := make([]trendingEntry, 0, len(thisWeek))
	for _, c := range thisWeek {
		if c.Count < minViews {
			continue
		}
		base := last[c.ProductID]
		if base < 1 {
			base = 1
		}
		growth := float64(c.Count-base) / float64(base) * 100
		entries = append(entries, trendingEntry{
			productID:     c.ProductID,
			thisWeekViews: c.Count,
			growthRate:    roundHalfUp(growth),
			score:         float64(c.Count) * (1 + growth/100),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	return entries
}
