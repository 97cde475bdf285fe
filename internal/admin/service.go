package admin

import (
	"context"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/order"
	"threadstory-be/internal/product"
	"threadstory-be/internal/user"

	"go.uber.org/zap"
)

const (
	LowStockThreshold = 10
	LowStockLimit     = 5
	RecentOrdersLimit = 5
)

// ProductStats is the catalog store surface the dashboard reads.
type ProductStats interface {
	List(ctx context.Context, opts product.ListOptions) ([]*product.Product, error)
	Count(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold, limit int) ([]*product.Product, error)
}

// OrderStats is the order store surface the dashboard reads.
type OrderStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status order.Status) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	PaidRevenue(ctx context.Context) (float64, error)
	Recent(ctx context.Context, limit int) ([]*order.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*order.Order, error)
}

type Stats struct {
	TotalUsers       int64              `json:"totalUsers"`
	TotalOrders      int64              `json:"totalOrders"`
	TotalProducts    int64              `json:"totalProducts"`
	TotalRevenue     float64            `json:"totalRevenue"`
	PaidRevenue      float64            `json:"paidRevenue"`
	PendingOrders    int64              `json:"pendingOrders"`
	DeliveredOrders  int64              `json:"deliveredOrders"`
	RecentOrders     []*order.Order     `json:"recentOrders"`
	LowStockProducts []*product.Product `json:"lowStockProducts"`
}

type UserDetail struct {
	User   *user.User     `json:"user"`
	Orders []*order.Order `json:"orders"`
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	Users(ctx context.Context) ([]*user.User, error)
	UserDetail(ctx context.Context, id string) (*UserDetail, error)
	UpdateUser(ctx context.Context, id string, input user.AdminUpdateInput) (*user.User, error)
	DeleteUser(ctx context.Context, id string) error
	Products(ctx context.Context) ([]*product.Product, error)
}

type service struct {
	users    user.Service
	orders   OrderStats
	products ProductStats
}

func NewService(users user.Service, orders OrderStats, products ProductStats) Service {
	return &service{users: users, orders: orders, products: products}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdminStats"),
	)

	var (
		st  Stats
		err error
	)

	if st.TotalUsers, err = s.users.CountCustomers(ctx); err != nil {
		log.Error("failed to count users", zap.Error(err))
		return nil, err
	}
	if st.TotalOrders, err = s.orders.Count(ctx); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, err
	}
	if st.TotalProducts, err = s.products.Count(ctx); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, err
	}
	if st.TotalRevenue, err = s.orders.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	if st.PaidRevenue, err = s.orders.PaidRevenue(ctx); err != nil {
		return nil, err
	}
	if st.PendingOrders, err = s.orders.CountByStatus(ctx, order.StatusPending); err != nil {
		return nil, err
	}
	if st.DeliveredOrders, err = s.orders.CountByStatus(ctx, order.StatusDelivered); err != nil {
		return nil, err
	}
	if st.RecentOrders, err = s.orders.Recent(ctx, RecentOrdersLimit); err != nil {
		log.Error("failed to load recent orders", zap.Error(err))
		return nil, err
	}
	if st.LowStockProducts, err = s.products.LowStock(ctx, LowStockThreshold, LowStockLimit); err != nil {
		log.Error("failed to load low stock products", zap.Error(err))
		return nil, err
	}

	return &st, nil
}

func (s *service) Users(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

func (s *service) UserDetail(ctx context.Context, id string) (*UserDetail, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &UserDetail{User: u, Orders: orders}, nil
}

func (s *service) UpdateUser(ctx context.Context, id string, input user.AdminUpdateInput) (*user.User, error) {
	return s.users.AdminUpdate(ctx, id, input)
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *service) Products(ctx context.Context) ([]*product.Product, error) {
	return s.products.List(ctx, product.ListOptions{})
}
