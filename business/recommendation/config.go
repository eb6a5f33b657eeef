package recommendation

import "time"

type Config struct {
	// upper bound on products fetched before scoring (similar, personalized)
	CandidatePoolSize int

	// bought-together associations below this confidence (%) are dropped
	MinConfidence int

	// trending ignores products with fewer views in the current window
	MinTrendingViews int
	TrendingWindow   time.Duration

	// history read when rebuilding a preference profile
	ProfileOrderLimit int
	ProfileViewLimit  int

	// recent purchases / views excluded from personalized results
	HistoryExclusionLimit int

	BestSellerDays int
}

const (
	defaultCandidatePoolSize     = 100
	defaultMinConfidence         = 5
	defaultMinTrendingViews      = 3
	defaultTrendingWindow        = 7 * 24 * time.Hour
	defaultProfileOrderLimit     = 50
	defaultProfileViewLimit      = 200
	defaultHistoryExclusionLimit = 50
	defaultBestSellerDays        = 30

	defaultSimilarLimit        = 12
	defaultRecentlyViewedLimit = 10
	defaultTrendingLimit       = 10
	defaultBoughtTogetherLimit = 5
	defaultPersonalizedLimit   = 12
	defaultNewArrivalsLimit    = 10
	defaultBestSellersLimit    = 10
	defaultCartLimit           = 6
	cartPerItemLimit           = 3

	// MaxCartProducts bounds the cart ids one suggestion request may expand.
	MaxCartProducts = 20
)

func DefaultConfig() Config {
	return Config{
		CandidatePoolSize:     defaultCandidatePoolSize,
		MinConfidence:         defaultMinConfidence,
		MinTrendingViews:      defaultMinTrendingViews,
		TrendingWindow:        defaultTrendingWindow,
		ProfileOrderLimit:     defaultProfileOrderLimit,
		ProfileViewLimit:      defaultProfileViewLimit,
		HistoryExclusionLimit: defaultHistoryExclusionLimit,
		BestSellerDays:        defaultBestSellerDays,
	}
}

// withDefaults fills zero or negative fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CandidatePoolSize <= 0 {
		c.CandidatePoolSize = d.CandidatePoolSize
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = d.MinConfidence
	}
	if c.MinTrendingViews <= 0 {
		c.MinTrendingViews = d.MinTrendingViews
	}
	if c.TrendingWindow <= 0 {
		c.TrendingWindow = d.TrendingWindow
	}
	if c.ProfileOrderLimit <= 0 {
		c.ProfileOrderLimit = d.ProfileOrderLimit
	}
	if c.ProfileViewLimit <= 0 {
		c.ProfileViewLimit = d.ProfileViewLimit
	}
	if c.HistoryExclusionLimit <= 0 {
		c.HistoryExclusionLimit = d.HistoryExclusionLimit
	}
	if c.BestSellerDays <= 0 {
		c.BestSellerDays = d.BestSellerDays
	}
	return c
}
