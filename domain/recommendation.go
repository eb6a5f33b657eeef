package domain

import "time"

const (
	AlgorithmContentBased             = "content-based"
	AlgorithmContentBasedPersonalized = "content-based+personalized"
)

// ProductCard is the display projection shared by every recommendation list.
// It is built per request and never cached.
type ProductCard struct {
	ID            uint64   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Price         float64  `json:"price"`
	SalePrice     *float64 `json:"sale_price"`
	Image         *string  `json:"image"`
	CategoryID    uint64   `json:"category_id"`
	CategoryName  string   `json:"category_name"`
	RatingAverage float64  `json:"rating_average"`
	ReviewCount   int      `json:"review_count"`
	Colors        []string `json:"colors"`
	HasStock      bool     `json:"has_stock"`
}

type SimilarProductsResult struct {
	Products  []ProductCard `json:"products"`
	Algorithm string        `json:"algorithm"`
}

type TrendingProduct struct {
	ProductCard
	GrowthRate    int `json:"growth_rate"`
	ThisWeekViews int `json:"this_week_views"`
}

type BoughtTogetherProduct struct {
	ProductCard
	Confidence int `json:"confidence"`
	CoCount    int `json:"co_count"`
}

type PersonalizedResult struct {
	Products []ProductCard `json:"products"`
	Reason   string        `json:"reason"`
}

type CartRecommendationsResult struct {
	Products []BoughtTogetherProduct `json:"products"`
	Message  string                  `json:"message"`
}

// Bundle is the "buy together" offer built from bought-together products.
type Bundle struct {
	Products      []BoughtTogetherProduct `json:"products"`
	OriginalPrice float64                 `json:"original_price"`
	BundlePrice   float64                 `json:"bundle_price"`
	Discount      int                     `json:"discount"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PreferenceProfile is the derived per-user behaviour summary. Affinity and
// weight values are normalised against the user's own maximum.
type PreferenceProfile struct {
	UserID          uint                `json:"user_id"`
	PreferredSizes  map[string][]string `json:"preferred_sizes"`
	ColorAffinities map[string]float64  `json:"color_affinities"`
	CategoryWeights map[uint64]float64  `json:"category_weights"`
	AvgOrderValue   float64             `json:"avg_order_value"`
	PriceRange      PriceRange          `json:"price_range"`
	LastUpdated     time.Time           `json:"last_updated"`
}

// RecommendationClick is an append-only feedback row.
type RecommendationClick struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	SourceProductID *uint64   `gorm:"column:source_product_id" json:"source_product_id,omitempty"`
	Algorithm       string    `gorm:"column:algorithm;type:text;not null" json:"algorithm"`
	Position        int       `gorm:"column:position;not null" json:"position"`
	SectionType     string    `gorm:"column:section_type;type:text;not null" json:"section_type"`
	SessionID       string    `gorm:"column:session_id;type:text;not null" json:"session_id"`
	UserID          *uint     `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationClick) TableName() string {
	return "recommendation_clicks"
}
