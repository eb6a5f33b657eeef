package domain

import (
	"time"

	"gorm.io/gorm"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name            TEXT NOT NULL,
//     slug            TEXT UNIQUE NOT NULL,
//     price           NUMERIC NOT NULL,
//     sale_price      NUMERIC,
//     category_id     BIGINT REFERENCES categories(id),
//     product_type    TEXT NOT NULL,
//     is_visible      BOOLEAN DEFAULT TRUE,
//     rating_average  NUMERIC DEFAULT 0,
//     review_count    INT DEFAULT 0,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     deleted_at      TIMESTAMPTZ
// );

type Product struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement"`
	Name          string         `gorm:"column:name;type:text;not null"`
	Slug          string         `gorm:"column:slug;type:text;uniqueIndex"`
	Price         float64        `gorm:"column:price;type:numeric"`
	SalePrice     *float64       `gorm:"column:sale_price;type:numeric"`
	CategoryID    uint64         `gorm:"column:category_id"`
	Category      Category       `gorm:"foreignKey:CategoryID"`
	ProductType   string         `gorm:"column:product_type;type:text"`
	IsVisible     bool           `gorm:"column:is_visible;default:true"`
	RatingAverage float64        `gorm:"column:rating_average;type:numeric;default:0"`
	ReviewCount   int            `gorm:"column:review_count;default:0"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the sale price when one is set, else the list price.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.Price
}

// HasStock reports whether any variant has stock left.
func (p Product) HasStock() bool {
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

// Colors returns the distinct variant colours in variant order.
func (p Product) Colors() []string {
	seen := make(map[string]struct{}, len(p.Variants))
	colors := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		if _, ok := seen[v.ColorName]; ok {
			continue
		}
		seen[v.ColorName] = struct{}{}
		colors = append(colors, v.ColorName)
	}
	return colors
}

// HasSizeInStock reports whether a variant in one of sizes still has stock.
func (p Product) HasSizeInStock(sizes []string) bool {
	if len(sizes) == 0 {
		return false
	}
	for _, v := range p.Variants {
		if v.Stock <= 0 {
			continue
		}
		for _, s := range sizes {
			if v.Size == s {
				return true
			}
		}
	}
	return false
}

type ProductVariant struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID uint64 `gorm:"column:product_id;index"`
	Size      string `gorm:"column:size;type:text"`
	ColorName string `gorm:"column:color_name;type:text"`
	Stock     int    `gorm:"column:stock;default:0"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

type ProductImage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID uint64 `gorm:"column:product_id;index"`
	URL       string `gorm:"column:url;type:text"`
	SortOrder int    `gorm:"column:sort_order;default:0"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
