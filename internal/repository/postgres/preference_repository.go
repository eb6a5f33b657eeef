package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myStorefront/business/recommendation"
	"myStorefront/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CREATE TABLE public.user_preference_profiles (
//     user_id           BIGINT PRIMARY KEY REFERENCES users(id),
//     preferred_sizes   JSONB NOT NULL DEFAULT '{}',
//     color_affinities  JSONB NOT NULL DEFAULT '{}',
//     category_weights  JSONB NOT NULL DEFAULT '{}',
//     avg_order_value   NUMERIC NOT NULL DEFAULT 0,
//     price_range       JSONB NOT NULL,
//     last_updated      TIMESTAMPTZ NOT NULL
// );

type preferenceProfileRow struct {
	UserID          uint                                    `gorm:"column:user_id;primaryKey"`
	PreferredSizes  datatypes.JSONType[map[string][]string] `gorm:"column:preferred_sizes;type:jsonb"`
	ColorAffinities datatypes.JSONType[map[string]float64]  `gorm:"column:color_affinities;type:jsonb"`
	CategoryWeights datatypes.JSONType[map[uint64]float64]  `gorm:"column:category_weights;type:jsonb"`
	AvgOrderValue   float64                                 `gorm:"column:avg_order_value;type:numeric"`
	PriceRange      datatypes.JSONType[domain.PriceRange]   `gorm:"column:price_range;type:jsonb"`
	LastUpdated     time.Time                               `gorm:"column:last_updated"`
}

func (preferenceProfileRow) TableName() string {
	return "user_preference_profiles"
}

type PreferenceRepository struct {
	DB *gorm.DB
}

var _ recommendation.PreferenceRepository = (*PreferenceRepository)(nil)

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID uint) (domain.PreferenceProfile, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.PreferenceProfile{}, false, fmt.Errorf("context error: %w", err)
	}

	var row preferenceProfileRow
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.PreferenceProfile{}, false, nil
	}
	if err != nil {
		return domain.PreferenceProfile{}, false, fmt.Errorf("failed to query preference profile: %w", err)
	}

	return domain.PreferenceProfile{
		UserID:          row.UserID,
		PreferredSizes:  row.PreferredSizes.Data(),
		ColorAffinities: row.ColorAffinities.Data(),
		CategoryWeights: row.CategoryWeights.Data(),
		AvgOrderValue:   row.AvgOrderValue,
		PriceRange:      row.PriceRange.Data(),
		LastUpdated:     row.LastUpdated,
	}, true, nil
}

// Upsert fully overwrites the stored profile.
func (r *PreferenceRepository) Upsert(ctx context.Context, profile domain.PreferenceProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := preferenceProfileRow{
		UserID:          profile.UserID,
		PreferredSizes:  datatypes.NewJSONType(nonNilSizes(profile.PreferredSizes)),
		ColorAffinities: datatypes.NewJSONType(nonNilWeights(profile.ColorAffinities)),
		CategoryWeights: datatypes.NewJSONType(nonNilWeights(profile.CategoryWeights)),
		AvgOrderValue:   profile.AvgOrderValue,
		PriceRange:      datatypes.NewJSONType(profile.PriceRange),
		LastUpdated:     profile.LastUpdated,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert preference profile: %w", err)
	}

	return nil
}

// jsonb columns are NOT NULL; nil maps would encode as null.
func nonNilSizes(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}

func nonNilWeights[K comparable](m map[K]float64) map[K]float64 {
	if m == nil {
		return map[K]float64{}
	}
	return m
}
