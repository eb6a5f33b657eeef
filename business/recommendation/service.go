package recommendation

import (
	"context"
	"time"

	"myStorefront/domain"
)

// ---- Repository interfaces ----

// CatalogFilter narrows bulk product lookups. Zero values mean "any".
type CatalogFilter struct {
	ProductType string
	CategoryID  *uint64
}

// CatalogRepository reads visible, non-deleted products with their variants,
// images and category.
type CatalogRepository interface {
	FindVisibleByID(ctx context.Context, id uint64) (domain.Product, bool, error)
	FindVisibleByIDs(ctx context.Context, ids []uint64, filter CatalogFilter) ([]domain.Product, error)
	FindSimilarCandidates(ctx context.Context, anchor domain.Product, limit int) ([]domain.Product, error)
	FindCandidatesForUser(ctx context.Context, categoryIDs []uint64, excludeIDs []uint64, limit int) ([]domain.Product, error)
	FindNewArrivals(ctx context.Context, productType string, limit int) ([]domain.Product, error)
}

type InteractionRepository interface {
	// distinct product ids, most recently viewed first
	RecentViewedProductIDs(ctx context.Context, sessionID string, userID *uint, limit int) ([]uint64, error)
	RecentUserViews(ctx context.Context, userID uint, limit int) ([]domain.ProductView, error)
	// per-product view counts in [from, to), ordered by product id
	CountViewsBetween(ctx context.Context, from, to time.Time) ([]domain.ProductCount, error)

	RecentOrders(ctx context.Context, userID uint, statuses []string, limit int) ([]domain.Order, error)
	RecentPurchasedProductIDs(ctx context.Context, userID uint, statuses []string, limit int) ([]uint64, error)
	OrderIDsContaining(ctx context.Context, productID uint64) ([]uint64, error)
	// number of distinct orders in orderIDs that contain each other product
	CoPurchaseCounts(ctx context.Context, orderIDs []uint64, excludeProductID uint64) ([]domain.ProductCount, error)
	TopSellingProducts(ctx context.Context, since time.Time, statuses []string, limit int) ([]domain.ProductCount, error)
}

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID uint) (domain.PreferenceProfile, bool, error)
	Upsert(ctx context.Context, profile domain.PreferenceProfile) error
}

type ClickRepository interface {
	Create(ctx context.Context, click *domain.RecommendationClick) error
}

type UserRepository interface {
	Exists(ctx context.Context, userID uint) (bool, error)
}

// ---- Service ----

// Service ranks products for shoppers. Every call is a self-contained
// computation over a handful of bulk reads; it holds no mutable state.
type Service struct {
	catalog      CatalogRepository
	interactions InteractionRepository
	preferences  PreferenceRepository
	clicks       ClickRepository
	users        UserRepository
	cfg          Config
	now          func() time.Time
}

func NewService(
	catalog CatalogRepository,
	interactions InteractionRepository,
	preferences PreferenceRepository,
	clicks ClickRepository,
	users UserRepository,
	cfg Config,
) *Service {
	return &Service{
		catalog:      catalog,
		interactions: interactions,
		preferences:  preferences,
		clicks:       clicks,
		users:        users,
		cfg:          cfg.withDefaults(),
		now:          time.Now,
	}
}

func (s *Service) Config() Config {
	return s.cfg
}
