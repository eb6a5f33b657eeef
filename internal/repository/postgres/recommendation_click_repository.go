package postgres

import (
	"context"
	"fmt"

	"myStorefront/business/recommendation"
	"myStorefront/domain"

	"gorm.io/gorm"
)

type RecommendationClickRepository struct {
	DB *gorm.DB
}

var _ recommendation.ClickRepository = (*RecommendationClickRepository)(nil)

func NewRecommendationClickRepository(db *gorm.DB) *RecommendationClickRepository {
	return &RecommendationClickRepository{DB: db}
}

func (r *RecommendationClickRepository) Create(ctx context.Context, click *domain.RecommendationClick) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(click).Error; err != nil {
		return fmt.Errorf("failed to save recommendation click: %w", err)
	}

	return nil
}
