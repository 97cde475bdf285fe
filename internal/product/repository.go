package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, p *Product, review Review) error
	SetStock(ctx context.Context, id string, stock int) error
	Count(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold, limit int) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectProduct = `
	SELECT
		p.id, p.name, p.description, p.price, p.category, p.image,
		p.stock, p.sizes, p.colors, p.featured, p.rating, p.num_reviews,
		p.created_at, p.updated_at,
		COALESCE((
			SELECT json_agg(json_build_object(
				'_id', r.id,
				'user', r.user_id,
				'name', r.name,
				'rating', r.rating,
				'comment', r.comment,
				'createdAt', r.created_at
			) ORDER BY r.created_at)
			FROM product_reviews r
			WHERE r.product_id = p.id
		), '[]') AS reviews
	FROM products p`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*Product, error) {
	var (
		p        Product
		category string
		reviews  []byte
	)

	err := s.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.Image,
		&p.Stock, pq.Array(&p.Sizes), pq.Array(&p.Colors), &p.Featured,
		&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt,
		&reviews,
	)
	if err != nil {
		return nil, err
	}

	p.Category = Category(category)
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}

	p.Reviews = []Review{}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &p.Reviews); err != nil {
			return nil, fmt.Errorf("decode reviews: %w", err)
		}
	}

	return &p, nil
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func orderClause(sort SortOrder) string {
	switch sort {
	case SortPriceLow:
		return "p.price ASC"
	case SortPriceHigh:
		return "p.price DESC"
	case SortNewest:
		return "p.created_at DESC"
	default:
		return "p.created_at ASC"
	}
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	var (
		where []string
		args  []any
	)

	if c := opts.CategoryFilter(); c != "" {
		args = append(args, strings.ToLower(c))
		where = append(where, fmt.Sprintf("p.category = $%d", len(args)))
	}

	if s := strings.TrimSpace(opts.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}

	query := selectProduct
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderClause(opts.Sort)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	row := r.db.QueryRowContext(ctx, selectProduct+" WHERE p.id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	query := `
		INSERT INTO products (
			name, description, price, category, image,
			stock, sizes, colors, featured
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		string(p.Category),
		p.Image,
		p.Stock,
		pq.Array(p.Sizes),
		pq.Array(p.Colors),
		p.Featured,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p *Product) (*Product, error) {
	if _, err := uuid.Parse(p.ID); err != nil {
		return nil, ErrInvalidID
	}

	query := `
		UPDATE products SET
			name = $1,
			description = $2,
			price = $3,
			category = $4,
			image = $5,
			stock = $6,
			sizes = $7,
			colors = $8,
			featured = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		string(p.Category),
		p.Image,
		p.Stock,
		pq.Array(p.Sizes),
		pq.Array(p.Colors),
		p.Featured,
		p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AddReview stores review and the recomputed aggregates of p in one
// transaction and sets the new review id on p. The product_reviews unique key rejects a second review from
// the same user.
func (r *repository) AddReview(ctx context.Context, p *Product, review Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO product_reviews (
			product_id, user_id, name, rating, comment, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		p.ID,
		review.UserID,
		review.Name,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrAlreadyReviewed
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET rating = $1, num_reviews = $2, updated_at = NOW()
		WHERE id = $3
	`, p.Rating, p.NumReviews, p.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	setReviewID(p, review)
	return nil
}

// setReviewID copies the stored id onto the matching review of p.
func setReviewID(p *Product, review Review) {
	for i := len(p.Reviews) - 1; i >= 0; i-- {
		if p.Reviews[i].UserID == review.UserID {
			p.Reviews[i].ID = review.ID
			return
		}
	}
}

func (r *repository) SetStock(ctx context.Context, id string, stock int) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`,
		stock, id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (r *repository) LowStock(ctx context.Context, threshold, limit int) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		selectProduct+" WHERE p.stock < $1 ORDER BY p.stock ASC LIMIT $2",
		threshold, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
