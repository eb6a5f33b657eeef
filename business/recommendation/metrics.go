package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Count of recommendation lists served by algorithm.",
		},
		[]string{"algorithm"},
	)

	RecommendationProductsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_products_returned",
			Help:    "Number of products in each served recommendation list.",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
		[]string{"algorithm"},
	)

	RecommendationClicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_clicks_total",
			Help: "Count of recommendation clicks by algorithm and section type.",
		},
		[]string{"algorithm", "section_type"},
	)

	PreferenceProfileRecomputeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_profile_recompute_total",
			Help: "Count of preference profile recomputations by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendationsServedTotal,
		RecommendationProductsReturned,
		RecommendationClicksTotal,
		PreferenceProfileRecomputeTotal,
	)
}

const (
	algoRecentlyViewed = "recently-viewed"
	algoTrending       = "trending"
	algoBoughtTogether = "bought-together"
	algoPersonalized   = "personalized"
	algoNewArrivals    = "new-arrivals"
	algoBestSellers    = "best-sellers"
	algoCart           = "cart"
)

func observeServed(algorithm string, n int) {
	RecommendationsServedTotal.WithLabelValues(algorithm).Inc()
	RecommendationProductsReturned.WithLabelValues(algorithm).Observe(float64(n))
}
