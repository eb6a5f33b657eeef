//go:build !integration

package postgres

import (
	"context"
	"reflect"
	"testing"

	"myStorefront/business/recommendation"
	"myStorefront/domain"
)

func productIDsOf(products []domain.Product) []uint64 {
	ids := make([]uint64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// seedCatalog: 1 visible, 2 hidden, 3 soft-deleted, 4-6 visible.
func seedCatalog(t *testing.T) *CatalogRepository {
	t.Helper()
	db := newTestDB(t)

	seedCategory(t, db, 10, "Áo ngực")
	seedCategory(t, db, 20, "Quần lót")
	seedProduct(t, db, 1, 10, "BRA",
		domain.ProductVariant{Size: "80B", ColorName: "Trắng", Stock: 2},
		domain.ProductVariant{Size: "75B", ColorName: "Đen", Stock: 0},
	)
	seedProduct(t, db, 2, 10, "BRA")
	seedProduct(t, db, 3, 10, "BRA")
	seedProduct(t, db, 4, 20, "BRA")
	seedProduct(t, db, 5, 20, "PANTY")
	seedProduct(t, db, 6, 10, "PANTY")
	hideProduct(t, db, 2)
	softDeleteProduct(t, db, 3)

	mustExec(t, db.Create(&domain.ProductImage{ProductID: 1, URL: "second.jpg", SortOrder: 2}))
	mustExec(t, db.Create(&domain.ProductImage{ProductID: 1, URL: "first.jpg", SortOrder: 1}))

	return NewCatalogRepository(db)
}

func TestFindVisibleByID(t *testing.T) {
	repo := seedCatalog(t)
	ctx := context.Background()

	p, ok, err := repo.FindVisibleByID(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("FindVisibleByID(1) = %v, %v", ok, err)
	}
	if p.Category.Name != "Áo ngực" {
		t.Errorf("category = %q", p.Category.Name)
	}
	if len(p.Variants) != 2 || p.Variants[0].Size != "80B" {
		t.Errorf("variants = %+v", p.Variants)
	}
	if len(p.Images) != 2 || p.Images[0].URL != "first.jpg" {
		t.Errorf("images = %+v", p.Images)
	}

	for _, id := range []uint64{2, 3, 99} {
		if _, ok, err := repo.FindVisibleByID(ctx, id); err != nil || ok {
			t.Errorf("FindVisibleByID(%d) = %v, %v; want not found", id, ok, err)
		}
	}
}

func TestFindVisibleByIDs(t *testing.T) {
	repo := seedCatalog(t)
	cat20 := uint64(20)

	tests := []struct {
		name   string
		ids    []uint64
		filter recommendation.CatalogFilter
		want   []uint64
	}{
		{"hidden and deleted dropped", []uint64{5, 4, 3, 2, 1}, recommendation.CatalogFilter{}, []uint64{1, 4, 5}},
		{"product type", []uint64{1, 4, 5, 6}, recommendation.CatalogFilter{ProductType: "PANTY"}, []uint64{5, 6}},
		{"category", []uint64{1, 4, 5, 6}, recommendation.CatalogFilter{CategoryID: &cat20}, []uint64{4, 5}},
		{"no ids", nil, recommendation.CatalogFilter{}, []uint64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindVisibleByIDs(context.Background(), tt.ids, tt.filter)
			if err != nil {
				t.Fatalf("FindVisibleByIDs: %v", err)
			}
			if !reflect.DeepEqual(productIDsOf(got), tt.want) {
				t.Fatalf("ids = %v, want %v", productIDsOf(got), tt.want)
			}
		})
	}
}

func TestFindCandidates(t *testing.T) {
	repo := seedCatalog(t)
	ctx := context.Background()
	anchor := domain.Product{ID: 1, CategoryID: 10, ProductType: "BRA"}

	t.Run("similar shares category or type", func(t *testing.T) {
		got, err := repo.FindSimilarCandidates(ctx, anchor, 100)
		if err != nil {
			t.Fatalf("FindSimilarCandidates: %v", err)
		}
		if !reflect.DeepEqual(productIDsOf(got), []uint64{4, 6}) {
			t.Fatalf("ids = %v, want [4 6]", productIDsOf(got))
		}
	})

	t.Run("similar pool bound", func(t *testing.T) {
		got, err := repo.FindSimilarCandidates(ctx, anchor, 1)
		if err != nil {
			t.Fatalf("FindSimilarCandidates: %v", err)
		}
		if !reflect.DeepEqual(productIDsOf(got), []uint64{4}) {
			t.Fatalf("ids = %v, want [4]", productIDsOf(got))
		}
	})

	t.Run("user categories and exclusions", func(t *testing.T) {
		got, err := repo.FindCandidatesForUser(ctx, []uint64{20}, []uint64{4}, 10)
		if err != nil {
			t.Fatalf("FindCandidatesForUser: %v", err)
		}
		if !reflect.DeepEqual(productIDsOf(got), []uint64{5}) {
			t.Fatalf("ids = %v, want [5]", productIDsOf(got))
		}
	})

	t.Run("user without signals", func(t *testing.T) {
		got, err := repo.FindCandidatesForUser(ctx, nil, nil, 10)
		if err != nil {
			t.Fatalf("FindCandidatesForUser: %v", err)
		}
		if !reflect.DeepEqual(productIDsOf(got), []uint64{1, 4, 5, 6}) {
			t.Fatalf("ids = %v, want [1 4 5 6]", productIDsOf(got))
		}
	})
}

func TestFindNewArrivals(t *testing.T) {
	repo := seedCatalog(t)

	tests := []struct {
		name        string
		productType string
		limit       int
		want        []uint64
	}{
		{"newest first", "", 10, []uint64{1, 4, 5, 6}},
		{"by type", "PANTY", 10, []uint64{5, 6}},
		{"limit", "", 2, []uint64{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindNewArrivals(context.Background(), tt.productType, tt.limit)
			if err != nil {
				t.Fatalf("FindNewArrivals: %v", err)
			}
			if !reflect.DeepEqual(productIDsOf(got), tt.want) {
				t.Fatalf("ids = %v, want %v", productIDsOf(got), tt.want)
			}
		})
	}
}
