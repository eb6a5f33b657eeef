package recommendation

import (
	"context"
	"fmt"
	"strings"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

const (
	personalCategoryWeight = 0.3
	personalColorWeight    = 0.1
	personalSizeBonus      = 0.2
	personalOutOfStock     = -0.5
	personalRatingBonus    = 0.1

	topSignalCount = 3

	reasonPrefix         = "Gợi ý dựa trên"
	reasonFallback       = "Có thể bạn thích"
	reasonFavCategory    = "danh mục yêu thích"
	reasonYourSize       = "size của bạn"
	reasonColorFormatStr = "màu %s"
)

// Personalized ranks products the user has not interacted with against their
// preference profile.
func (s *Service) Personalized(
	ctx context.Context,
	userID uint,
	limit int,
	excludeIDs []uint64,
) (domain.PersonalizedResult, error) {

	if err := ctx.Err(); err != nil {
		return domain.PersonalizedResult{}, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultPersonalizedLimit
	}

	// 1) profile + interaction history
	profile, _, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		return domain.PersonalizedResult{}, fmt.Errorf("load preference profile: %w", err)
	}

	purchased, err := s.interactions.RecentPurchasedProductIDs(ctx, userID, domain.FulfilledOrderStatuses, s.cfg.HistoryExclusionLimit)
	if err != nil {
		return domain.PersonalizedResult{}, fmt.Errorf("load purchased products: %w", err)
	}
	viewed, err := s.interactions.RecentViewedProductIDs(ctx, "", &userID, s.cfg.HistoryExclusionLimit)
	if err != nil {
		return domain.PersonalizedResult{}, fmt.Errorf("load viewed products: %w", err)
	}

	excluded := unionIDs(viewed, purchased, excludeIDs)

	// 2) strongest signals
	topCategories := topKeys(profile.CategoryWeights, topSignalCount)
	topColors := topKeys(profile.ColorAffinities, topSignalCount)
	reason := personalizedReason(topCategories, profile.PreferredSizes, topColors)

	// 3) bounded candidate pool
	candidates, err := s.catalog.FindCandidatesForUser(ctx, topCategories, excluded, s.cfg.CandidatePoolSize)
	if err != nil {
		return domain.PersonalizedResult{}, fmt.Errorf("load personalized candidates: %w", err)
	}

	excludedSet := make(map[uint64]struct{}, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = struct{}{}
	}

	// 4) score
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := excludedSet[c.ID]; ok {
			continue
		}
		scored = append(scored, ScoredCandidate{Product: c, Score: scorePersonal(c, profile)})
	}
	sortByScore(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}

	result := domain.PersonalizedResult{
		Products: make([]domain.ProductCard, 0, len(scored)),
		Reason:   reason,
	}
	for _, sc := range scored {
		result.Products = append(result.Products, buildCard(sc.Product))
	}

	logger.Debug("recommend_personalized",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"excluded", len(excluded),
		"top_categories", topCategories,
		"candidate_count", len(candidates),
		"returned", len(result.Products),
	)
	observeServed(algoPersonalized, len(result.Products))

	return result, nil
}

func scorePersonal(p domain.Product, profile domain.PreferenceProfile) float64 {
	score := profile.CategoryWeights[p.CategoryID] * personalCategoryWeight

	for _, c := range p.Colors() {
		score += profile.ColorAffinities[c] * personalColorWeight
	}

	if p.HasSizeInStock(profile.PreferredSizes[p.ProductType]) {
		score += personalSizeBonus
	}

	if !p.HasStock() {
		score += personalOutOfStock
	}

	if p.RatingAverage >= popularMinRating {
		score += personalRatingBonus
	}

	return score
}

func personalizedReason(topCategories []uint64, sizes map[string][]string, topColors []string) string {
	parts := make([]string, 0, 3)
	if len(topCategories) > 0 {
		parts = append(parts, reasonFavCategory)
	}
	for _, list := range sizes {
		if len(list) > 0 {
			parts = append(parts, reasonYourSize)
			break
		}
	}
	if len(topColors) > 0 {
		parts = append(parts, fmt.Sprintf(reasonColorFormatStr, topColors[0]))
	}

	if len(parts) == 0 {
		return reasonFallback
	}
	return reasonPrefix + " " + strings.Join(parts, ", ")
}

// unionIDs merges id lists, keeping first-seen order.
func unionIDs(lists ...[]uint64) []uint64 {
	seen := make(map[uint64]struct{})
	out := make([]uint64, 0)
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
