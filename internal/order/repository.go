package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	Update(ctx context.Context, o *Order) (*Order, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	PaidRevenue(ctx context.Context) (float64, error)
	Recent(ctx context.Context, limit int) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectOrder = `
	SELECT
		o.id, o.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
		o.items, o.shipping_address, o.payment_method,
		o.items_price, o.tax_price, o.shipping_price, o.total_price,
		o.is_paid, o.paid_at, o.payment_result,
		o.is_delivered, o.delivered_at, o.status,
		o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*Order, error) {
	var (
		o             Order
		status        string
		items         []byte
		address       []byte
		paymentResult []byte
		paidAt        sql.NullTime
		deliveredAt   sql.NullTime
	)

	err := s.Scan(
		&o.ID, &o.User.ID, &o.User.Name, &o.User.Email,
		&items, &address, &o.PaymentMethod,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt, &paymentResult,
		&o.IsDelivered, &deliveredAt, &status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = Status(status)
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		o.DeliveredAt = &t
	}

	o.Items = []Item{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode shipping address: %w", err)
		}
	}
	if len(paymentResult) > 0 {
		var pr PaymentResult
		if err := json.Unmarshal(paymentResult, &pr); err != nil {
			return nil, fmt.Errorf("decode payment result: %w", err)
		}
		o.PaymentResult = &pr
	}

	return &o, nil
}

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func jsonText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func (r *repository) Create(ctx context.Context, o *Order) (*Order, error) {
	if o.Items == nil {
		o.Items = []Item{}
	}

	items, err := jsonText(o.Items)
	if err != nil {
		return nil, err
	}
	address, err := jsonText(o.ShippingAddress)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, items, shipping_address, payment_method,
			items_price, tax_price, shipping_price, total_price, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`,
		o.User.ID,
		items,
		address,
		o.PaymentMethod,
		o.ItemsPrice,
		o.TaxPrice,
		o.ShippingPrice,
		o.TotalPrice,
		string(o.Status),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+" WHERE o.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []*Order{}, nil
	}

	rows, err := r.db.QueryContext(ctx, selectOrder+" WHERE o.user_id = $1 ORDER BY o.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+" ORDER BY o.created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *repository) Recent(ctx context.Context, limit int) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+" ORDER BY o.created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

// Update writes the mutable payment, delivery and status fields of o.
func (r *repository) Update(ctx context.Context, o *Order) (*Order, error) {
	if _, err := uuid.Parse(o.ID); err != nil {
		return nil, ErrInvalidID
	}

	var paymentResult any
	if o.PaymentResult != nil {
		pr, err := jsonText(o.PaymentResult)
		if err != nil {
			return nil, err
		}
		paymentResult = pr
	}

	err := r.db.QueryRowContext(ctx, `
		UPDATE orders SET
			is_paid = $1,
			paid_at = $2,
			payment_result = $3,
			is_delivered = $4,
			delivered_at = $5,
			status = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`,
		o.IsPaid,
		nullableTime(o.PaidAt),
		paymentResult,
		o.IsDelivered,
		nullableTime(o.DeliveredAt),
		string(o.Status),
		o.ID,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func (r *repository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders`).Scan(&total)
	return total, err
}

func (r *repository) PaidRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid`).Scan(&total)
	return total, err
}
