package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

const (
	bundleDiscountPercent = 10
	cartMessage           = "Khách mua những sản phẩm này thường mua thêm:"
)

// Association is the single-item market-basket confidence of a product given
// the anchor: share of anchor orders that also contain it, in percent.
type Association struct {
	ProductID  uint64
	CoCount    int
	Confidence int
}

// BoughtTogether returns products most often ordered with the anchor.
func (s *Service) BoughtTogether(
	ctx context.Context,
	productID uint64,
	limit int,
) ([]domain.BoughtTogetherProduct, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultBoughtTogetherLimit
	}

	out, err := s.boughtTogether(ctx, productID, limit)
	if err != nil {
		return nil, err
	}

	logger.Debug("recommend_bought_together",
		"trace_id", TraceIDFromContext(ctx),
		"product_id", productID,
		"returned", len(out),
	)
	observeServed(algoBoughtTogether, len(out))

	return out, nil
}

func (s *Service) boughtTogether(ctx context.Context, productID uint64, limit int) ([]domain.BoughtTogetherProduct, error) {
	orderIDs, err := s.interactions.OrderIDsContaining(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load anchor orders: %w", err)
	}
	if len(orderIDs) == 0 {
		return []domain.BoughtTogetherProduct{}, nil
	}

	counts, err := s.interactions.CoPurchaseCounts(ctx, orderIDs, productID)
	if err != nil {
		return nil, fmt.Errorf("count co-purchases: %w", err)
	}

	assocs := mineAssociations(counts, len(orderIDs), s.cfg.MinConfidence)
	if len(assocs) == 0 {
		return []domain.BoughtTogetherProduct{}, nil
	}

	ids := make([]uint64, 0, len(assocs))
	for _, a := range assocs {
		ids = append(ids, a.ProductID)
	}
	products, err := s.catalog.FindVisibleByIDs(ctx, ids, CatalogFilter{})
	if err != nil {
		return nil, fmt.Errorf("load associated products: %w", err)
	}

	// unresolvable products are skipped and the next association takes the slot
	byID := indexByID(products)
	out := make([]domain.BoughtTogetherProduct, 0, limit)
	for _, a := range assocs {
		p, ok := byID[a.ProductID]
		if !ok {
			continue
		}
		out = append(out, domain.BoughtTogetherProduct{
			ProductCard: buildCard(p),
			Confidence:  a.Confidence,
			CoCount:     a.CoCount,
		})
		if len(out) >= limit {
			break
		}
	}

	return out, nil
}

// mineAssociations converts co-purchase counts into confidence, drops those
// under minConfidence and sorts by confidence desc (stable on input order).
func mineAssociations(counts []domain.ProductCount, anchorOrders int, minConfidence int) []Association {
	if anchorOrders <= 0 {
		return nil
	}

	assocs := make([]Association, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		confidence := roundHalfUp(float64(c.Count) / float64(anchorOrders) * 100)
		if confidence < minConfidence {
			continue
		}
		assocs = append(assocs, Association{
			ProductID:  c.ProductID,
			CoCount:    c.Count,
			Confidence: confidence,
		})
	}

	sort.SliceStable(assocs, func(i, j int) bool {
		return assocs[i].Confidence > assocs[j].Confidence
	})

	return assocs
}

// CartRecommendations merges bought-together suggestions for every cart item,
// skipping products already in the cart and summing confidence of repeats.
func (s *Service) CartRecommendations(
	ctx context.Context,
	cartProductIDs []uint64,
	limit int,
) (domain.CartRecommendationsResult, error) {

	if err := ctx.Err(); err != nil {
		return domain.CartRecommendationsResult{}, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultCartLimit
	}

	result := domain.CartRecommendationsResult{
		Products: []domain.BoughtTogetherProduct{},
		Message:  cartMessage,
	}
	if len(cartProductIDs) == 0 {
		return result, nil
	}

	// each distinct cart id costs three reads
	cartIDs := unionIDs(cartProductIDs)
	if len(cartIDs) > MaxCartProducts {
		return domain.CartRecommendationsResult{}, fmt.Errorf("cart has %d products, max %d: %w", len(cartIDs), MaxCartProducts, domain.ErrInvalidInput)
	}

	inCart := make(map[uint64]struct{}, len(cartIDs))
	for _, id := range cartIDs {
		inCart[id] = struct{}{}
	}

	type merged struct {
		product         domain.BoughtTogetherProduct
		totalConfidence int
	}
	byID := make(map[uint64]*merged)
	order := make([]uint64, 0)

	for _, id := range cartIDs {
		suggestions, err := s.boughtTogether(ctx, id, cartPerItemLimit)
		if err != nil {
			return domain.CartRecommendationsResult{}, err
		}
		for _, sug := range suggestions {
			if _, ok := inCart[sug.ID]; ok {
				continue
			}
			if m, ok := byID[sug.ID]; ok {
				m.totalConfidence += sug.Confidence
				continue
			}
			byID[sug.ID] = &merged{product: sug, totalConfidence: sug.Confidence}
			order = append(order, sug.ID)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return byID[order[i]].totalConfidence > byID[order[j]].totalConfidence
	})
	if len(order) > limit {
		order = order[:limit]
	}
	for _, id := range order {
		result.Products = append(result.Products, byID[id].product)
	}

	logger.Debug("recommend_cart",
		"trace_id", TraceIDFromContext(ctx),
		"cart_size", len(cartIDs),
		"returned", len(result.Products),
	)
	observeServed(algoCart, len(result.Products))

	return result, nil
}

// BuildBundle prices a bundle of bought-together products. Fewer than two
// products make no bundle.
func BuildBundle(products []domain.BoughtTogetherProduct) []domain.Bundle {
	if len(products) < 2 {
		return []domain.Bundle{}
	}

	original := 0.0
	for _, p := range products {
		if p.SalePrice != nil && *p.SalePrice > 0 {
			original += *p.SalePrice
		} else {
			original += p.Price
		}
	}

	return []domain.Bundle{{
		Products:      products,
		OriginalPrice: original,
		BundlePrice:   math.Round(original * (100 - bundleDiscountPercent) / 100),
		Discount:      bundleDiscountPercent,
	}}
}
