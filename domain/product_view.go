package domain

import "time"

type ProductView struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;index"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	UserID    *uint     `gorm:"column:user_id;index"`
	SessionID string    `gorm:"column:session_id;type:text;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (ProductView) TableName() string {
	return "product_views"
}

// ProductCount is a per-product aggregate (views, co-purchases, units sold).
type ProductCount struct {
	ProductID uint64 `gorm:"column:product_id"`
	Count     int    `gorm:"column:count"`
}
