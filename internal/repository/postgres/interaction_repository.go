package postgres

import (
	"context"
	"fmt"
	"time"

	"myStorefront/business/recommendation"
	"myStorefront/domain"

	"gorm.io/gorm"
)

// InteractionRepository reads product views and order history.
type InteractionRepository struct {
	DB *gorm.DB
}

var _ recommendation.InteractionRepository = (*InteractionRepository)(nil)

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

// last_at is selected only to order by
type recentProductRow struct {
	ProductID uint64 `gorm:"column:product_id"`
}

// withDeleted loads history products even after they were soft-deleted from
// the catalog; only candidate reads are visibility-scoped.
func withDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func productIDs(rows []recentProductRow) []uint64 {
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	return ids
}

// ---- Views ----

func (r *InteractionRepository) RecentViewedProductIDs(ctx context.Context, sessionID string, userID *uint, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.ProductView{})
	switch {
	case sessionID != "" && userID != nil:
		q = q.Where("(user_id = ? OR session_id = ?)", *userID, sessionID)
	case userID != nil:
		q = q.Where("user_id = ?", *userID)
	case sessionID != "":
		q = q.Where("session_id = ?", sessionID)
	default:
		return []uint64{}, nil
	}

	var rows []recentProductRow
	err := q.Select("product_id, MAX(created_at) AS last_at").
		Group("product_id").
		Order("last_at DESC, product_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent views: %w", err)
	}

	return productIDs(rows), nil
}

func (r *InteractionRepository) RecentUserViews(ctx context.Context, userID uint, limit int) ([]domain.ProductView, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var views []domain.ProductView
	err := r.DB.WithContext(ctx).
		Preload("Product", withDeleted).
		Preload("Product.Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query user views: %w", err)
	}

	return views, nil
}

func (r *InteractionRepository) CountViewsBetween(ctx context.Context, from, to time.Time) ([]domain.ProductCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.ProductCount
	err := r.DB.WithContext(ctx).
		Model(&domain.ProductView{}).
		Select("product_id, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("product_id").
		Order("product_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}

	return counts, nil
}

// ---- Orders ----

func (r *InteractionRepository) RecentOrders(ctx context.Context, userID uint, statuses []string, limit int) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Items.Product", withDeleted).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return orders, nil
}

func (r *InteractionRepository) RecentPurchasedProductIDs(ctx context.Context, userID uint, statuses []string, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []recentProductRow
	err := r.DB.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.product_id, MAX(o.created_at) AS last_at").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.user_id = ? AND o.status IN ?", userID, statuses).
		Group("oi.product_id").
		Order("last_at DESC, oi.product_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query purchased products: %w", err)
	}

	return productIDs(rows), nil
}

func (r *InteractionRepository) OrderIDsContaining(ctx context.Context, productID uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Distinct("order_id").
		Where("product_id = ?", productID).
		Order("order_id").
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders containing product: %w", err)
	}

	return ids, nil
}

func (r *InteractionRepository) CoPurchaseCounts(ctx context.Context, orderIDs []uint64, excludeProductID uint64) ([]domain.ProductCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(orderIDs) == 0 {
		return []domain.ProductCount{}, nil
	}

	var counts []domain.ProductCount
	err := r.DB.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Select("product_id, COUNT(DISTINCT order_id) AS count").
		Where("order_id IN ? AND product_id <> ?", orderIDs, excludeProductID).
		Group("product_id").
		Order("product_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count co-purchases: %w", err)
	}

	return counts, nil
}

func (r *InteractionRepository) TopSellingProducts(ctx context.Context, since time.Time, statuses []string, limit int) ([]domain.ProductCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.ProductCount
	err := r.DB.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.product_id, SUM(oi.quantity) AS count").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.created_at >= ? AND o.status IN ?", since, statuses).
		Group("oi.product_id").
		Order("count DESC, oi.product_id").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top sellers: %w", err)
	}

	return counts, nil
}
