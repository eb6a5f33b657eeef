//go:build !integration

package postgres

import (
	"context"
	"reflect"
	"testing"
	"time"

	"myStorefront/domain"
)

func TestPreferenceRepositoryUpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	if _, found, err := repo.GetByUserID(ctx, 7); err != nil || found {
		t.Fatalf("GetByUserID before upsert = %v, %v", found, err)
	}

	first := domain.PreferenceProfile{
		UserID:          7,
		PreferredSizes:  map[string][]string{"BRA": {"75B", "80B"}},
		ColorAffinities: map[string]float64{"Đen": 1, "Hồng": 0.5},
		CategoryWeights: map[uint64]float64{10: 1, 20: 0.33},
		AvgOrderValue:   250000,
		PriceRange:      domain.PriceRange{Min: 100000, Max: 300000},
		LastUpdated:     baseTime,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, found, err := repo.GetByUserID(ctx, 7)
	if err != nil || !found {
		t.Fatalf("GetByUserID = %v, %v", found, err)
	}
	if !reflect.DeepEqual(got.PreferredSizes, first.PreferredSizes) ||
		!reflect.DeepEqual(got.ColorAffinities, first.ColorAffinities) ||
		!reflect.DeepEqual(got.CategoryWeights, first.CategoryWeights) {
		t.Fatalf("maps = %+v", got)
	}
	if got.AvgOrderValue != 250000 || got.PriceRange != first.PriceRange || !got.LastUpdated.Equal(baseTime) {
		t.Fatalf("scalars = %+v", got)
	}

	// a later recompute with no history replaces every column
	second := domain.PreferenceProfile{
		UserID:      7,
		PriceRange:  domain.PriceRange{Min: 0, Max: 1000000},
		LastUpdated: baseTime.Add(time.Hour),
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, _, err = repo.GetByUserID(ctx, 7)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.PreferredSizes == nil || len(got.PreferredSizes) != 0 || len(got.ColorAffinities) != 0 || len(got.CategoryWeights) != 0 {
		t.Fatalf("maps after overwrite = %+v", got)
	}
	if got.AvgOrderValue != 0 || got.PriceRange != second.PriceRange || !got.LastUpdated.Equal(second.LastUpdated) {
		t.Fatalf("scalars after overwrite = %+v", got)
	}

	var rows int64
	mustExec(t, db.Model(&preferenceProfileRow{}).Count(&rows))
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
}

func TestUserRepositoryExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	mustExec(t, db.Create(&domain.User{ID: 7, FullName: "Lan", Email: "lan@example.com"}))
	mustExec(t, db.Create(&domain.User{ID: 8, FullName: "Mai", Email: "mai@example.com"}))
	mustExec(t, db.Delete(&domain.User{}, 8))

	tests := []struct {
		name string
		id   uint
		want bool
	}{
		{"existing", 7, true},
		{"deleted", 8, false},
		{"missing", 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Exists(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("Exists: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Exists(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestRecommendationClickRepositoryCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecommendationClickRepository(db)

	source := uint64(1)
	click := &domain.RecommendationClick{
		ProductID:       2,
		SourceProductID: &source,
		Algorithm:       domain.AlgorithmContentBased,
		Position:        0,
		SectionType:     "similar",
		SessionID:       "s1",
		CreatedAt:       baseTime,
	}
	if err := repo.Create(context.Background(), click); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if click.ID == 0 {
		t.Fatal("id not assigned")
	}

	var stored domain.RecommendationClick
	mustExec(t, db.First(&stored, click.ID))
	if stored.ProductID != 2 || stored.Position != 0 || stored.UserID != nil || *stored.SourceProductID != 1 {
		t.Fatalf("stored = %+v", stored)
	}
}
