package recommendation

import (
	"context"
	"fmt"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

// RecentlyViewed returns the session's (and signed-in user's) viewed products,
// most recent first, one card per product.
func (s *Service) RecentlyViewed(
	ctx context.Context,
	sessionID string,
	userID *uint,
	limit int,
	excludeID *uint64,
) ([]domain.ProductCard, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required: %w", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultRecentlyViewedLimit
	}

	// one extra in case the current product has to be dropped
	ids, err := s.interactions.RecentViewedProductIDs(ctx, sessionID, userID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("load recent views: %w", err)
	}

	productIDs := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if excludeID != nil && id == *excludeID {
			continue
		}
		productIDs = append(productIDs, id)
	}
	if len(productIDs) > limit {
		productIDs = productIDs[:limit]
	}
	if len(productIDs) == 0 {
		observeServed(algoRecentlyViewed, 0)
		return []domain.ProductCard{}, nil
	}

	products, err := s.catalog.FindVisibleByIDs(ctx, productIDs, CatalogFilter{})
	if err != nil {
		return nil, fmt.Errorf("load viewed products: %w", err)
	}

	byID := indexByID(products)
	cards := make([]domain.ProductCard, 0, len(productIDs))
	for _, id := range productIDs {
		if p, ok := byID[id]; ok {
			cards = append(cards, buildCard(p))
		}
	}

	logger.Debug("recommend_recently_viewed",
		"trace_id", TraceIDFromContext(ctx),
		"session_id", sessionID,
		"returned", len(cards),
	)
	observeServed(algoRecentlyViewed, len(cards))

	return cards, nil
}
