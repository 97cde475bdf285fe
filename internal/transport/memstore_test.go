package transport

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"threadstory-be/internal/order"
	"threadstory-be/internal/product"
	"threadstory-be/internal/user"

	"github.com/google/uuid"
)

// In-memory repositories used to drive the router end to end.

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type memProducts struct {
	mu    sync.Mutex
	items []*product.Product
}

func cloneProduct(p *product.Product) *product.Product {
	cp := *p
	cp.Sizes = append([]string{}, p.Sizes...)
	cp.Colors = append([]string{}, p.Colors...)
	cp.Reviews = append([]product.Review{}, p.Reviews...)
	return &cp
}

func (m *memProducts) find(id string) *product.Product {
	for _, p := range m.items {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *memProducts) List(_ context.Context, opts product.ListOptions) ([]*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	out := []*product.Product{}
	for _, p := range m.items {
		if c := opts.CategoryFilter(); c != "" && string(p.Category) != strings.ToLower(c) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, cloneProduct(p))
	}

	switch opts.Sort {
	case product.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case product.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case product.SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	if !validID(id) {
		return nil, product.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.find(id); p != nil {
		return cloneProduct(p), nil
	}
	return nil, product.ErrProductNotFound
}

func (m *memProducts) Create(_ context.Context, p *product.Product) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items = append(m.items, cloneProduct(p))
	return p, nil
}

func (m *memProducts) Update(_ context.Context, p *product.Product) (*product.Product, error) {
	if !validID(p.ID) {
		return nil, product.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.items {
		if cur.ID == p.ID {
			m.items[i] = cloneProduct(p)
			return p, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return product.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return product.ErrProductNotFound
}

func (m *memProducts) AddReview(_ context.Context, p *product.Product, review product.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.find(p.ID)
	if cur == nil {
		return product.ErrProductNotFound
	}
	if cur.HasReviewFrom(review.UserID) {
		return product.ErrAlreadyReviewed
	}
	cur.Reviews = append(cur.Reviews, review)
	cur.Rating = p.Rating
	cur.NumReviews = p.NumReviews
	return nil
}

func (m *memProducts) SetStock(_ context.Context, id string, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.find(id)
	if p == nil {
		return product.ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

func (m *memProducts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memProducts) LowStock(_ context.Context, threshold, limit int) ([]*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*product.Product{}
	for _, p := range m.items {
		if p.Stock < threshold {
			out = append(out, cloneProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	items []*user.User
}

func cloneUser(u *user.User) *user.User {
	cp := *u
	return &cp
}

func (m *memUsers) Create(_ context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.items {
		if cur.Email == u.Email {
			return nil, user.ErrUserExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.items = append(m.items, cloneUser(u))
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	if !validID(id) {
		return nil, user.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *memUsers) Update(_ context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.items {
		if cur.ID == u.ID {
			u.Password = cur.Password
			m.items[i] = cloneUser(u)
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.ID == id {
			u.Password = hash
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (m *memUsers) List(_ context.Context) ([]*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*user.User{}
	for i := len(m.items) - 1; i >= 0; i-- {
		out = append(out, cloneUser(m.items[i]))
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.items {
		if u.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (m *memUsers) CountByRole(_ context.Context, role user.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.items {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memOrders struct {
	mu    sync.Mutex
	items []*order.Order
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = append([]order.Item{}, o.Items...)
	if o.PaymentResult != nil {
		pr := *o.PaymentResult
		cp.PaymentResult = &pr
	}
	return &cp
}

// newestFirst returns clones of the orders matching keep, newest first.
func (m *memOrders) newestFirst(keep func(*order.Order) bool) []*order.Order {
	out := []*order.Order{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if keep(m.items[i]) {
			out = append(out, cloneOrder(m.items[i]))
		}
	}
	return out
}

func all(*order.Order) bool { return true }

func (m *memOrders) Create(_ context.Context, o *order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.items = append(m.items, cloneOrder(o))
	return o, nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	if !validID(id) {
		return nil, order.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.items {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(func(o *order.Order) bool { return o.User.ID == userID }), nil
}

func (m *memOrders) ListAll(_ context.Context) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(all), nil
}

func (m *memOrders) Recent(_ context.Context, limit int) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.newestFirst(all)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memOrders) Update(_ context.Context, o *order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.items {
		if cur.ID == o.ID {
			m.items[i] = cloneOrder(o)
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *memOrders) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memOrders) CountByStatus(_ context.Context, status order.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.newestFirst(func(o *order.Order) bool { return o.Status == status }))), nil
}

func (m *memOrders) sum(keep func(*order.Order) bool) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, o := range m.items {
		if keep(o) {
			total += o.TotalPrice
		}
	}
	return total
}

func (m *memOrders) TotalRevenue(_ context.Context) (float64, error) {
	return m.sum(all), nil
}

func (m *memOrders) PaidRevenue(_ context.Context) (float64, error) {
	return m.sum(func(o *order.Order) bool { return o.IsPaid }), nil
}
