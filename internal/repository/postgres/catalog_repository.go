package postgres

import (
	"context"
	"errors"
	"fmt"

	"myStorefront/business/recommendation"
	"myStorefront/domain"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

var _ recommendation.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// visible scopes to visible products; soft-deleted rows are dropped by gorm.
func (r *CatalogRepository) visible(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Preload("Category").
		Where("products.is_visible = ?", true)
}

func (r *CatalogRepository) FindVisibleByID(ctx context.Context, id uint64) (domain.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, false, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	err := r.visible(ctx).Where("products.id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("failed to find product: %w", err)
	}

	return product, true, nil
}

func (r *CatalogRepository) FindVisibleByIDs(ctx context.Context, ids []uint64, filter recommendation.CatalogFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	q := r.visible(ctx).Where("products.id IN ?", ids)
	if filter.ProductType != "" {
		q = q.Where("products.product_type = ?", filter.ProductType)
	}
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}

	var products []domain.Product
	if err := q.Order("products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by ids: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) FindSimilarCandidates(ctx context.Context, anchor domain.Product, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.visible(ctx).
		Where("products.id <> ?", anchor.ID).
		Where("(products.category_id = ? OR products.product_type = ?)", anchor.CategoryID, anchor.ProductType).
		Order("products.id").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find similar candidates: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) FindCandidatesForUser(ctx context.Context, categoryIDs []uint64, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.visible(ctx)
	if len(excludeIDs) > 0 {
		q = q.Where("products.id NOT IN ?", excludeIDs)
	}
	if len(categoryIDs) > 0 {
		q = q.Where("products.category_id IN ?", categoryIDs)
	}

	var products []domain.Product
	if err := q.Order("products.id").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find personalized candidates: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) FindNewArrivals(ctx context.Context, productType string, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.visible(ctx)
	if productType != "" {
		q = q.Where("products.product_type = ?", productType)
	}

	var products []domain.Product
	if err := q.Order("products.created_at DESC, products.id DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find new arrivals: %w", err)
	}

	return products, nil
}
