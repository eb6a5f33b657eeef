//go:build !integration

package postgres

import (
	"fmt"
	"testing"
	"time"

	"myStorefront/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var baseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// newTestDB opens a private in-memory database with every table the
// repositories read or write.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// view and order rows may point at products a test never seeds
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&domain.Category{},
		&domain.Product{},
		&domain.ProductVariant{},
		&domain.ProductImage{},
		&domain.User{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.ProductView{},
		&domain.RecommendationClick{},
		&preferenceProfileRow{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func mustExec(t *testing.T, tx *gorm.DB) {
	t.Helper()
	if tx.Error != nil {
		t.Fatalf("seed: %v", tx.Error)
	}
}

func seedCategory(t *testing.T, db *gorm.DB, id uint64, name string) {
	t.Helper()
	mustExec(t, db.Create(&domain.Category{ID: id, Name: name, CreatedAt: baseTime}))
}

// seedProduct inserts a visible product created id hours before baseTime.
func seedProduct(t *testing.T, db *gorm.DB, id, categoryID uint64, productType string, variants ...domain.ProductVariant) {
	t.Helper()
	p := domain.Product{
		ID:          id,
		Name:        productType,
		Slug:        fmt.Sprintf("%s-%d", productType, id),
		Price:       100000,
		CategoryID:  categoryID,
		ProductType: productType,
		IsVisible:   true,
		CreatedAt:   baseTime.Add(-time.Duration(id) * time.Hour),
		Variants:    variants,
	}
	mustExec(t, db.Create(&p))
}

func hideProduct(t *testing.T, db *gorm.DB, id uint64) {
	t.Helper()
	// is_visible defaults to true, so false has to be written explicitly
	mustExec(t, db.Model(&domain.Product{}).Where("id = ?", id).Update("is_visible", false))
}

func softDeleteProduct(t *testing.T, db *gorm.DB, id uint64) {
	t.Helper()
	mustExec(t, db.Delete(&domain.Product{}, id))
}

func seedOrder(t *testing.T, db *gorm.DB, id uint64, userID uint, status string, at time.Time, items ...domain.OrderItem) {
	t.Helper()
	for i := range items {
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
	}
	mustExec(t, db.Create(&domain.Order{ID: id, UserID: userID, Status: status, CreatedAt: at, Items: items}))
}

func seedView(t *testing.T, db *gorm.DB, productID uint64, userID *uint, sessionID string, at time.Time) {
	t.Helper()
	mustExec(t, db.Create(&domain.ProductView{ProductID: productID, UserID: userID, SessionID: sessionID, CreatedAt: at}))
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(u uint) *uint {
	return &u
}
