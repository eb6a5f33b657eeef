package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"myStorefront/domain"
	"myStorefront/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const maxCartProducts = 20

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		bundles  BundleBuilder
	}

	RecommendationService interface {
		SimilarProducts(ctx context.Context, productID uint64, limit int, userID *uint) (domain.SimilarProductsResult, error)
		RecentlyViewed(ctx context.Context, sessionID string, userID *uint, limit int, excludeID *uint64) ([]domain.ProductCard, error)
		Trending(ctx context.Context, limit int, productType string) ([]domain.TrendingProduct, error)
		BoughtTogether(ctx context.Context, productID uint64, limit int) ([]domain.BoughtTogetherProduct, error)
		Personalized(ctx context.Context, userID uint, limit int, excludeIDs []uint64) (domain.PersonalizedResult, error)
		NewArrivals(ctx context.Context, limit int, productType string) ([]domain.ProductCard, error)
		BestSellers(ctx context.Context, limit int, categoryID *uint64, days int) ([]domain.ProductCard, error)
		CartRecommendations(ctx context.Context, cartProductIDs []uint64, limit int) (domain.CartRecommendationsResult, error)
		TrackClick(ctx context.Context, click domain.RecommendationClick) error
		RecomputeProfile(ctx context.Context, userID uint) (domain.PreferenceProfile, error)
	}

	// BundleBuilder prices bought-together bundles.
	BundleBuilder func(products []domain.BoughtTogetherProduct) []domain.Bundle

	AnchorQuery struct {
		ProductID uint64 `param:"productId" validate:"required"`
		Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
	}

	RecentlyViewedQuery struct {
		SessionID string `query:"session_id" validate:"required,max=128"`
		Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
		ExcludeID string `query:"exclude_id"`
	}

	ProductTypeQuery struct {
		Limit       int    `query:"limit" validate:"omitempty,min=1,max=50"`
		ProductType string `query:"product_type" validate:"omitempty,max=64"`
	}

	PersonalizedQuery struct {
		Limit      int    `query:"limit" validate:"omitempty,min=1,max=50"`
		ExcludeIDs string `query:"exclude_ids"`
	}

	BestSellersQuery struct {
		Limit      int    `query:"limit" validate:"omitempty,min=1,max=50"`
		CategoryID string `query:"category_id"`
		Days       int    `query:"days" validate:"omitempty,min=1,max=365"`
	}

	CartQuery struct {
		ProductIDs string `query:"product_ids"`
		Limit      int    `query:"limit" validate:"omitempty,min=1,max=50"`
	}

	TrackClickRequest struct {
		ProductID       uint64  `json:"product_id" validate:"required"`
		SourceProductID *uint64 `json:"source_product_id"`
		Algorithm       string  `json:"algorithm" validate:"required,max=64"`
		Position        *int    `json:"position" validate:"required,min=0"`
		SectionType     string  `json:"section_type" validate:"required,max=64"`
		SessionID       string  `json:"session_id" validate:"required,max=128"`
	}

	ProfileParam struct {
		UserID uint `param:"userId" validate:"required"`
	}

	ProductsResponse[T any] struct {
		Products []T `json:"products"`
	}

	BoughtTogetherResponse struct {
		Products []domain.BoughtTogetherProduct `json:"products"`
		Bundles  []domain.Bundle                `json:"bundles"`
	}
)

func NewRecommendationHandler(svc RecommendationService, bundles BundleBuilder) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		bundles:  bundles,
	}
}

func (h *RecommendationHandler) bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

// fail maps service errors to status codes.
func fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	default:
		logger.Error("recommendation request failed", "op", op, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to compute recommendations"})
	}
}

func optionalUserID(c echo.Context) *uint {
	if uid, ok := c.Get("user_id").(uint); ok {
		return &uid
	}
	return nil
}

// parseIDList reads "1,2,x,3" into ids, skipping entries that are not ids.
func parseIDList(raw string) []uint64 {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseOptionalID(raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GET /api/v1/recommendations/similar/:productId?limit=12
func (h *RecommendationHandler) Similar(c echo.Context) error {
	var q AnchorQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	result, err := h.service.SimilarProducts(c.Request().Context(), q.ProductID, q.Limit, optionalUserID(c))
	if err != nil {
		return fail(c, "similar", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/recommendations/recently-viewed?session_id=abc&limit=10&exclude_id=3
func (h *RecommendationHandler) RecentlyViewed(c echo.Context) error {
	var q RecentlyViewedQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	excludeID, err := parseOptionalID(q.ExcludeID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid exclude_id"})
	}

	products, err := h.service.RecentlyViewed(c.Request().Context(), q.SessionID, optionalUserID(c), q.Limit, excludeID)
	if err != nil {
		return fail(c, "recently_viewed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ProductsResponse[domain.ProductCard]{Products: products}))
}

// GET /api/v1/recommendations/trending?limit=10&product_type=BRA
func (h *RecommendationHandler) Trending(c echo.Context) error {
	var q ProductTypeQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	products, err := h.service.Trending(c.Request().Context(), q.Limit, q.ProductType)
	if err != nil {
		return fail(c, "trending", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ProductsResponse[domain.TrendingProduct]{Products: products}))
}

// GET /api/v1/recommendations/bought-together/:productId?limit=5
func (h *RecommendationHandler) BoughtTogether(c echo.Context) error {
	var q AnchorQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	products, err := h.service.BoughtTogether(c.Request().Context(), q.ProductID, q.Limit)
	if err != nil {
		return fail(c, "bought_together", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(BoughtTogetherResponse{
		Products: products,
		Bundles:  h.bundles(products),
	}))
}

// GET /api/v1/recommendations/personalized?limit=12&exclude_ids=1,2
func (h *RecommendationHandler) Personalized(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q PersonalizedQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	result, err := h.service.Personalized(c.Request().Context(), userID, q.Limit, parseIDList(q.ExcludeIDs))
	if err != nil {
		return fail(c, "personalized", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/recommendations/new-arrivals?limit=10&product_type=BRA
func (h *RecommendationHandler) NewArrivals(c echo.Context) error {
	var q ProductTypeQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	products, err := h.service.NewArrivals(c.Request().Context(), q.Limit, q.ProductType)
	if err != nil {
		return fail(c, "new_arrivals", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ProductsResponse[domain.ProductCard]{Products: products}))
}

// GET /api/v1/recommendations/best-sellers?limit=10&category_id=2&days=30
func (h *RecommendationHandler) BestSellers(c echo.Context) error {
	var q BestSellersQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	categoryID, err := parseOptionalID(q.CategoryID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category_id"})
	}

	products, err := h.service.BestSellers(c.Request().Context(), q.Limit, categoryID, q.Days)
	if err != nil {
		return fail(c, "best_sellers", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ProductsResponse[domain.ProductCard]{Products: products}))
}

// GET /api/v1/recommendations/for-cart?product_ids=1,2,3&limit=6
func (h *RecommendationHandler) ForCart(c echo.Context) error {
	var q CartQuery
	if err := h.bind(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ids := parseIDList(q.ProductIDs)
	if len(ids) > maxCartProducts {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "too many product_ids"})
	}

	result, err := h.service.CartRecommendations(c.Request().Context(), ids, q.Limit)
	if err != nil {
		return fail(c, "for_cart", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// POST /api/v1/recommendations/track-click
func (h *RecommendationHandler) TrackClick(c echo.Context) error {
	var req TrackClickRequest
	if err := h.bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	click := domain.RecommendationClick{
		ProductID:       req.ProductID,
		SourceProductID: req.SourceProductID,
		Algorithm:       req.Algorithm,
		Position:        *req.Position,
		SectionType:     req.SectionType,
		SessionID:       req.SessionID,
		UserID:          optionalUserID(c),
	}

	if err := h.service.TrackClick(c.Request().Context(), click); err != nil {
		return fail(c, "track_click", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("click recorded"))
}

// POST /api/v1/recommendations/profile/recompute
func (h *RecommendationHandler) RecomputeOwnProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	profile, err := h.service.RecomputeProfile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, "recompute_profile", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// POST /api/v1/admin/recommendations/profile/:userId/recompute
func (h *RecommendationHandler) RecomputeProfile(c echo.Context) error {
	var p ProfileParam
	if err := h.bind(c, &p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	profile, err := h.service.RecomputeProfile(c.Request().Context(), p.UserID)
	if err != nil {
		return fail(c, "recompute_profile", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
