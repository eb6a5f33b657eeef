package recommendation

import (
	"context"
	"fmt"
	"sort"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

const (
	viewColorWeight    = 0.3
	viewCategoryWeight = 0.5
	topSizesPerType    = 3

	defaultPriceRangeMax = 1000000
)

// RecomputeProfile rebuilds the user's preference profile from their order
// and view history and overwrites the stored one. Concurrent recomputes for
// the same user are last-write-wins.
func (s *Service) RecomputeProfile(ctx context.Context, userID uint) (domain.PreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.PreferenceProfile{}, fmt.Errorf("context error: %w", err)
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		PreferenceProfileRecomputeTotal.WithLabelValues("error").Inc()
		return domain.PreferenceProfile{}, fmt.Errorf("load user: %w", err)
	}
	if !exists {
		PreferenceProfileRecomputeTotal.WithLabelValues("user_not_found").Inc()
		return domain.PreferenceProfile{}, domain.ErrUserNotFound
	}

	orders, err := s.interactions.RecentOrders(ctx, userID, domain.FulfilledOrderStatuses, s.cfg.ProfileOrderLimit)
	if err != nil {
		PreferenceProfileRecomputeTotal.WithLabelValues("error").Inc()
		return domain.PreferenceProfile{}, fmt.Errorf("load orders: %w", err)
	}
	views, err := s.interactions.RecentUserViews(ctx, userID, s.cfg.ProfileViewLimit)
	if err != nil {
		PreferenceProfileRecomputeTotal.WithLabelValues("error").Inc()
		return domain.PreferenceProfile{}, fmt.Errorf("load views: %w", err)
	}

	profile := BuildProfile(ctx, userID, orders, views)
	profile.LastUpdated = s.now()

	if err := s.preferences.Upsert(ctx, profile); err != nil {
		PreferenceProfileRecomputeTotal.WithLabelValues("error").Inc()
		return domain.PreferenceProfile{}, fmt.Errorf("save preference profile: %w", err)
	}

	logger.Debug("recommend_recompute_profile",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"orders", len(orders),
		"views", len(views),
		"categories", len(profile.CategoryWeights),
		"colors", len(profile.ColorAffinities),
	)
	PreferenceProfileRecomputeTotal.WithLabelValues("ok").Inc()

	return profile, nil
}

// BuildProfile derives a profile from newest-first orders and views. Line
// items whose variant descriptor cannot be read are skipped for size and
// colour only.
func BuildProfile(ctx context.Context, userID uint, orders []domain.Order, views []domain.ProductView) domain.PreferenceProfile {
	sizeCounts := make(map[string]map[string]float64)
	sizeOrder := make(map[string][]string)
	colorCounts := make(map[string]float64)
	categoryCounts := make(map[uint64]float64)
	prices := make([]float64, 0)

	for _, v := range views {
		if v.Product == nil {
			continue
		}
		for _, variant := range v.Product.Variants {
			colorCounts[variant.ColorName] += viewColorWeight
		}
		categoryCounts[v.Product.CategoryID] += viewCategoryWeight
	}

	for _, o := range orders {
		for _, item := range o.Items {
			qty := float64(item.Quantity)
			prices = append(prices, item.Price)

			if item.Product != nil {
				categoryCounts[item.Product.CategoryID] += qty
			}

			if item.Variant == nil || *item.Variant == "" {
				continue
			}
			desc, ok := ParseVariantDescriptor(*item.Variant)
			if !ok {
				logger.Warn("variant descriptor skipped",
					"trace_id", TraceIDFromContext(ctx),
					"user_id", userID,
					"order_item_id", item.ID,
					"variant", *item.Variant,
				)
				continue
			}

			if desc.Size != "" && item.Product != nil {
				pt := item.Product.ProductType
				if sizeCounts[pt] == nil {
					sizeCounts[pt] = make(map[string]float64)
				}
				if _, seen := sizeCounts[pt][desc.Size]; !seen {
					sizeOrder[pt] = append(sizeOrder[pt], desc.Size)
				}
				sizeCounts[pt][desc.Size] += qty
			}
			if desc.Color != "" {
				colorCounts[desc.Color] += qty
			}
		}
	}

	preferredSizes := make(map[string][]string, len(sizeCounts))
	for pt, counts := range sizeCounts {
		// ties go to the size bought most recently
		preferredSizes[pt] = rankKeys(sizeOrder[pt], counts, topSizesPerType)
	}

	avg, priceRange := priceStats(prices)

	return domain.PreferenceProfile{
		UserID:          userID,
		PreferredSizes:  preferredSizes,
		ColorAffinities: normalizeCounts(colorCounts),
		CategoryWeights: normalizeCounts(categoryCounts),
		AvgOrderValue:   avg,
		PriceRange:      priceRange,
	}
}

// normalizeCounts divides by the user's own maximum (floored at 1) and rounds
// to two decimals, so every value lands in [0, 1].
func normalizeCounts[K comparable](counts map[K]float64) map[K]float64 {
	peak := 1.0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}

	out := make(map[K]float64, len(counts))
	for k, c := range counts {
		out[k] = round2(c / peak)
	}
	return out
}

// priceStats returns the mean line price and the nearest-rank P25..P75 band.
func priceStats(prices []float64) (float64, domain.PriceRange) {
	if len(prices) == 0 {
		return 0, domain.PriceRange{Min: 0, Max: defaultPriceRangeMax}
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, p := range sorted {
		sum += p
	}

	n := len(sorted)
	return sum / float64(n), domain.PriceRange{
		Min: sorted[n/4],
		Max: sorted[n*3/4],
	}
}
