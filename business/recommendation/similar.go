package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

// Similarity term weights. Each term is bounded so totals stay comparable
// across anchors.
const (
	weightSameCategory    = 0.30
	weightSameType        = 0.20
	weightSamePriceBucket = 0.15
	weightPerColorOverlap = 0.10
	capColorOverlap       = 0.20
	weightPopular         = 0.10
	weightInStock         = 0.05
	penaltyOutOfStock     = -0.30
	weightPreferredSize   = 0.15
	weightColorAffinity   = 0.05
	capColorAffinity      = 0.10

	popularMinRating  = 4.0
	popularMinReviews = 5
)

// SimilarityTerms is the per-term breakdown of a similarity score.
type SimilarityTerms struct {
	Category      float64
	ProductType   float64
	PriceBucket   float64
	ColorOverlap  float64
	Popularity    float64
	Stock         float64
	PreferredSize float64
	ColorAffinity float64
}

func (t SimilarityTerms) Total() float64 {
	return t.Category + t.ProductType + t.PriceBucket + t.ColorOverlap +
		t.Popularity + t.Stock + t.PreferredSize + t.ColorAffinity
}

// ScoredCandidate is an in-memory ranking entry, discarded after the response.
type ScoredCandidate struct {
	Product domain.Product
	Score   float64
	Reasons []string
}

// SimilarProducts ranks products like the anchor. A missing or hidden anchor
// yields an empty list, not an error.
func (s *Service) SimilarProducts(
	ctx context.Context,
	productID uint64,
	limit int,
	userID *uint,
) (domain.SimilarProductsResult, error) {

	if err := ctx.Err(); err != nil {
		return domain.SimilarProductsResult{}, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	result := domain.SimilarProductsResult{
		Products:  []domain.ProductCard{},
		Algorithm: domain.AlgorithmContentBased,
	}

	// 1) anchor
	anchor, ok, err := s.catalog.FindVisibleByID(ctx, productID)
	if err != nil {
		return domain.SimilarProductsResult{}, fmt.Errorf("load anchor product: %w", err)
	}
	if !ok {
		observeServed(result.Algorithm, 0)
		return result, nil
	}

	// 2) optional profile
	var profile *domain.PreferenceProfile
	if userID != nil {
		p, found, err := s.preferences.GetByUserID(ctx, *userID)
		if err != nil {
			return domain.SimilarProductsResult{}, fmt.Errorf("load preference profile: %w", err)
		}
		if found {
			profile = &p
			result.Algorithm = domain.AlgorithmContentBasedPersonalized
		}
	}

	// 3) bounded candidate pool
	candidates, err := s.catalog.FindSimilarCandidates(ctx, anchor, s.cfg.CandidatePoolSize)
	if err != nil {
		return domain.SimilarProductsResult{}, fmt.Errorf("load similar candidates: %w", err)
	}

	// 4) score + stable sort
	anchorColors := anchor.Colors()
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == anchor.ID {
			continue
		}
		terms, reasons := scoreSimilar(anchor, anchorColors, c, profile)
		scored = append(scored, ScoredCandidate{Product: c, Score: terms.Total(), Reasons: reasons})
	}
	sortByScore(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	for _, sc := range scored {
		result.Products = append(result.Products, buildCard(sc.Product))
	}

	logger.Debug("recommend_similar",
		"trace_id", TraceIDFromContext(ctx),
		"product_id", productID,
		"algorithm", result.Algorithm,
		"candidate_count", len(candidates),
		"returned", len(result.Products),
	)
	observeServed(result.Algorithm, len(result.Products))

	return result, nil
}

// scoreSimilar scores one candidate against the anchor.
func scoreSimilar(
	anchor domain.Product,
	anchorColors []string,
	candidate domain.Product,
	profile *domain.PreferenceProfile,
) (SimilarityTerms, []string) {

	var t SimilarityTerms
	reasons := make([]string, 0, 5)

	if candidate.CategoryID == anchor.CategoryID {
		t.Category = weightSameCategory
		reasons = append(reasons, "same_category")
	}
	if candidate.ProductType == anchor.ProductType {
		t.ProductType = weightSameType
		reasons = append(reasons, "same_product_type")
	}
	if priceBucket(candidate.EffectivePrice()) == priceBucket(anchor.EffectivePrice()) {
		t.PriceBucket = weightSamePriceBucket
		reasons = append(reasons, "same_price_range")
	}

	candidateColors := candidate.Colors()
	if overlap := colorOverlap(anchorColors, candidateColors); overlap > 0 {
		t.ColorOverlap = math.Min(capColorOverlap, float64(overlap)*weightPerColorOverlap)
		reasons = append(reasons, "similar_color")
	}

	if candidate.RatingAverage >= popularMinRating && candidate.ReviewCount >= popularMinReviews {
		t.Popularity = weightPopular
	}

	if candidate.HasStock() {
		t.Stock = weightInStock
	} else {
		t.Stock = penaltyOutOfStock
	}

	if profile != nil {
		if candidate.HasSizeInStock(profile.PreferredSizes[candidate.ProductType]) {
			t.PreferredSize = weightPreferredSize
			reasons = append(reasons, "has_your_size")
		}

		bonus := 0.0
		for _, c := range candidateColors {
			bonus += profile.ColorAffinities[c] * weightColorAffinity
		}
		t.ColorAffinity = math.Min(capColorAffinity, bonus)
	}

	return t, reasons
}

func colorOverlap(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, c := range b {
		set[c] = struct{}{}
	}
	n := 0
	for _, c := range a {
		if _, ok := set[c]; ok {
			n++
		}
	}
	return n
}

// sortByScore orders descending, keeping candidate order on ties.
func sortByScore(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
