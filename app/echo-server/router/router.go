package router

import (
	"myStorefront/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRecommendationRoutes(
	api *echo.Group,
	handler *rest.RecommendationHandler,
	optionalAuth echo.MiddlewareFunc,
	authRequired echo.MiddlewareFunc,
) {
	reco := api.Group("/recommendations")

	reco.GET("/similar/:productId", handler.Similar, optionalAuth)
	reco.GET("/recently-viewed", handler.RecentlyViewed, optionalAuth)
	reco.GET("/trending", handler.Trending)
	reco.GET("/bought-together/:productId", handler.BoughtTogether)
	reco.GET("/new-arrivals", handler.NewArrivals)
	reco.GET("/best-sellers", handler.BestSellers)
	reco.GET("/for-cart", handler.ForCart)
	reco.POST("/track-click", handler.TrackClick, optionalAuth)

	reco.GET("/personalized", handler.Personalized, authRequired)
	reco.POST("/profile/recompute", handler.RecomputeOwnProfile, authRequired)
}

func SetupRecommendationAdminRoutes(
	api *echo.Group,
	handler *rest.RecommendationHandler,
	authRequired echo.MiddlewareFunc,
	adminOnly echo.MiddlewareFunc,
) {
	admin := api.Group("/admin/recommendations", authRequired, adminOnly)

	admin.POST("/profile/:userId/recompute", handler.RecomputeProfile)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
