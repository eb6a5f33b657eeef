package recommendation

import (
	"math"
	"sort"

	"myStorefront/domain"
)

// buildCard flattens a product into its display card.
func buildCard(p domain.Product) domain.ProductCard {
	var image *string
	if len(p.Images) > 0 {
		first := p.Images[0]
		for _, img := range p.Images[1:] {
			if img.SortOrder < first.SortOrder {
				first = img
			}
		}
		url := first.URL
		image = &url
	}

	return domain.ProductCard{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		SalePrice:     p.SalePrice,
		Image:         image,
		CategoryID:    p.CategoryID,
		CategoryName:  p.Category.Name,
		RatingAverage: p.RatingAverage,
		ReviewCount:   p.ReviewCount,
		Colors:        p.Colors(),
		HasStock:      p.HasStock(),
	}
}

func buildCards(products []domain.Product) []domain.ProductCard {
	cards := make([]domain.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, buildCard(p))
	}
	return cards
}

func indexByID(products []domain.Product) map[uint64]domain.Product {
	m := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

const (
	PriceBucketBudget  = "budget"
	PriceBucketMid     = "mid"
	PriceBucketPremium = "premium"
	PriceBucketLuxury  = "luxury"
)

// priceBucket maps a VND price to its range label.
func priceBucket(price float64) string {
	switch {
	case price < 200000:
		return PriceBucketBudget
	case price < 400000:
		return PriceBucketMid
	case price < 700000:
		return PriceBucketPremium
	default:
		return PriceBucketLuxury
	}
}

// roundHalfUp rounds x.5 towards +Inf, so -62.5 becomes -62.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// topKeys returns up to n keys ordered by value desc. Ties follow the key
// order of a stored jsonb object: shorter keys first, then bytewise, which for
// numeric keys is ascending.
func topKeys[K int | uint64 | string](m map[K]float64, n int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return storedKeyLess(keys[i], keys[j])
	})
	return rankKeys(keys, m, n)
}

// rankKeys returns up to n of keys ordered by value desc, keeping the given
// order on ties.
func rankKeys[K comparable](keys []K, m map[K]float64, n int) []K {
	ranked := append([]K(nil), keys...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return m[ranked[i]] > m[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func storedKeyLess[K int | uint64 | string](a, b K) bool {
	if as, ok := any(a).(string); ok {
		bs := any(b).(string)
		if len(as) != len(bs) {
			return len(as) < len(bs)
		}
	}
	return a < b
}
