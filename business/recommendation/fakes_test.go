//go:build !integration

package recommendation

import (
	"context"
	"sort"
	"time"

	"myStorefront/domain"
)

// store is an in-memory stand-in for the catalog, interaction, preference,
// click and user repositories.
type store struct {
	products map[uint64]domain.Product
	views    []domain.ProductView
	orders   []domain.Order
	profiles map[uint]domain.PreferenceProfile
	clicks   []domain.RecommendationClick
	users    map[uint]bool

	err   error
	reads int
}

func newStore() *store {
	return &store{
		products: make(map[uint64]domain.Product),
		profiles: make(map[uint]domain.PreferenceProfile),
		users:    make(map[uint]bool),
	}
}

func (s *store) addProduct(p domain.Product) domain.Product {
	if p.Category.ID == 0 {
		p.Category = domain.Category{ID: p.CategoryID, Name: "cat"}
	}
	s.products[p.ID] = p
	return p
}

func (s *store) addOrder(id uint64, userID uint, status string, at time.Time, items ...domain.OrderItem) {
	for i := range items {
		items[i].OrderID = id
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
		if p, ok := s.products[items[i].ProductID]; ok && items[i].Product == nil {
			items[i].Product = &p
		}
	}
	s.orders = append(s.orders, domain.Order{ID: id, UserID: userID, Status: status, CreatedAt: at, Items: items})
}

func (s *store) addView(productID uint64, userID *uint, sessionID string, at time.Time) {
	var product *domain.Product
	if p, ok := s.products[productID]; ok {
		product = &p
	}
	s.views = append(s.views, domain.ProductView{
		ID:        uint64(len(s.views) + 1),
		ProductID: productID,
		Product:   product,
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: at,
	})
}

func (s *store) read() error {
	s.reads++
	return s.err
}

func (s *store) visible(id uint64) (domain.Product, bool) {
	p, ok := s.products[id]
	if !ok || !p.IsVisible || p.DeletedAt.Valid {
		return domain.Product{}, false
	}
	return p, true
}

func (s *store) sortedVisible() []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for id := range s.products {
		if p, ok := s.visible(id); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func capLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ---- CatalogRepository ----

func (s *store) FindVisibleByID(_ context.Context, id uint64) (domain.Product, bool, error) {
	if err := s.read(); err != nil {
		return domain.Product{}, false, err
	}
	p, ok := s.visible(id)
	return p, ok, nil
}

func (s *store) FindVisibleByIDs(_ context.Context, ids []uint64, filter CatalogFilter) ([]domain.Product, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range s.sortedVisible() {
		if !contains(ids, p.ID) {
			continue
		}
		if filter.ProductType != "" && p.ProductType != filter.ProductType {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *store) FindSimilarCandidates(_ context.Context, anchor domain.Product, limit int) ([]domain.Product, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range s.sortedVisible() {
		if p.ID == anchor.ID {
			continue
		}
		if p.CategoryID == anchor.CategoryID || p.ProductType == anchor.ProductType {
			out = append(out, p)
		}
	}
	return capLimit(out, limit), nil
}

func (s *store) FindCandidatesForUser(_ context.Context, categoryIDs []uint64, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range s.sortedVisible() {
		if contains(excludeIDs, p.ID) {
			continue
		}
		if len(categoryIDs) > 0 && !contains(categoryIDs, p.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	return capLimit(out, limit), nil
}

func (s *store) FindNewArrivals(_ context.Context, productType string, limit int) ([]domain.Product, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range s.sortedVisible() {
		if productType == "" || p.ProductType == productType {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return capLimit(out, limit), nil
}

// ---- InteractionRepository ----

func (s *store) viewsNewestFirst() []domain.ProductView {
	views := append([]domain.ProductView(nil), s.views...)
	sort.SliceStable(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views
}

func (s *store) RecentViewedProductIDs(_ context.Context, sessionID string, userID *uint, limit int) ([]uint64, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	seen := make(map[uint64]bool)
	out := make([]uint64, 0)
	for _, v := range s.viewsNewestFirst() {
		bySession := sessionID != "" && v.SessionID == sessionID
		byUser := userID != nil && v.UserID != nil && *v.UserID == *userID
		if !bySession && !byUser {
			continue
		}
		if seen[v.ProductID] {
			continue
		}
		seen[v.ProductID] = true
		out = append(out, v.ProductID)
	}
	return capLimit(out, limit), nil
}

func (s *store) RecentUserViews(_ context.Context, userID uint, limit int) ([]domain.ProductView, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]domain.ProductView, 0)
	for _, v := range s.viewsNewestFirst() {
		if v.UserID != nil && *v.UserID == userID {
			out = append(out, v)
		}
	}
	return capLimit(out, limit), nil
}

func (s *store) CountViewsBetween(_ context.Context, from, to time.Time) ([]domain.ProductCount, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	counts := make(map[uint64]int)
	for _, v := range s.views {
		if !v.CreatedAt.Before(from) && v.CreatedAt.Before(to) {
			counts[v.ProductID]++
		}
	}
	return sortedCounts(counts), nil
}

func sortedCounts(counts map[uint64]int) []domain.ProductCount {
	out := make([]domain.ProductCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, domain.ProductCount{ProductID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (s *store) userOrders(userID uint, statuses []string) []domain.Order {
	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID && contains(statuses, o.Status) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *store) RecentOrders(_ context.Context, userID uint, statuses []string, limit int) ([]domain.Order, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	return capLimit(s.userOrders(userID, statuses), limit), nil
}

func (s *store) RecentPurchasedProductIDs(_ context.Context, userID uint, statuses []string, limit int) ([]uint64, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	seen := make(map[uint64]bool)
	out := make([]uint64, 0)
	for _, o := range s.userOrders(userID, statuses) {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				out = append(out, it.ProductID)
			}
		}
	}
	return capLimit(out, limit), nil
}

func (s *store) OrderIDsContaining(_ context.Context, productID uint64) ([]uint64, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]uint64, 0)
	for _, o := range s.orders {
		for _, it := range o.Items {
			if it.ProductID == productID {
				out = append(out, o.ID)
				break
			}
		}
	}
	return out, nil
}

func (s *store) CoPurchaseCounts(_ context.Context, orderIDs []uint64, excludeProductID uint64) ([]domain.ProductCount, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	counts := make(map[uint64]int)
	for _, o := range s.orders {
		if !contains(orderIDs, o.ID) {
			continue
		}
		seen := make(map[uint64]bool)
		for _, it := range o.Items {
			if it.ProductID == excludeProductID || seen[it.ProductID] {
				continue
			}
			seen[it.ProductID] = true
			counts[it.ProductID]++
		}
	}
	return sortedCounts(counts), nil
}

func (s *store) TopSellingProducts(_ context.Context, since time.Time, statuses []string, limit int) ([]domain.ProductCount, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	units := make(map[uint64]int)
	for _, o := range s.orders {
		if o.CreatedAt.Before(since) || !contains(statuses, o.Status) {
			continue
		}
		for _, it := range o.Items {
			units[it.ProductID] += it.Quantity
		}
	}
	out := sortedCounts(units)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return capLimit(out, limit), nil
}

// ---- PreferenceRepository / ClickRepository / UserRepository ----

func (s *store) GetByUserID(_ context.Context, userID uint) (domain.PreferenceProfile, bool, error) {
	if err := s.read(); err != nil {
		return domain.PreferenceProfile{}, false, err
	}
	p, ok := s.profiles[userID]
	return p, ok, nil
}

func (s *store) Upsert(_ context.Context, profile domain.PreferenceProfile) error {
	if s.err != nil {
		return s.err
	}
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *store) Create(_ context.Context, click *domain.RecommendationClick) error {
	if s.err != nil {
		return s.err
	}
	click.ID = uint64(len(s.clicks) + 1)
	s.clicks = append(s.clicks, *click)
	return nil
}

func (s *store) Exists(_ context.Context, userID uint) (bool, error) {
	if err := s.read(); err != nil {
		return false, err
	}
	return s.users[userID], nil
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(s *store) *Service {
	svc := NewService(s, s, s, s, s, DefaultConfig())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// ---- fixtures ----

func ptr[T any](v T) *T { return &v }

type variantSpec struct {
	size  string
	color string
	stock int
}

func product(id, categoryID uint64, productType string, price float64, variants ...variantSpec) domain.Product {
	p := domain.Product{
		ID:          id,
		Name:        "product",
		Slug:        "product",
		Price:       price,
		CategoryID:  categoryID,
		ProductType: productType,
		IsVisible:   true,
		CreatedAt:   fixedNow.Add(-time.Duration(id) * time.Hour),
	}
	for i, v := range variants {
		p.Variants = append(p.Variants, domain.ProductVariant{
			ID:        id*100 + uint64(i),
			ProductID: id,
			Size:      v.size,
			ColorName: v.color,
			Stock:     v.stock,
		})
	}
	return p
}

func cardIDs(cards []domain.ProductCard) []uint64 {
	ids := make([]uint64, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}
