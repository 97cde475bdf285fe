package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"threadstory-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role Role) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectUser = `
	SELECT id, name, email, password, role, phone, address, created_at, updated_at
	FROM users`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*User, error) {
	var (
		u       User
		role    string
		address []byte
	)

	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.Phone, &address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = Role(role)

	if len(address) > 0 {
		var a Address
		if err := json.Unmarshal(address, &a); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
		u.Address = &a
	}

	return &u, nil
}

func encodeAddress(a *Address) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, string(u.Role)).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		log.Error("db: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE email = $1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) Update(ctx context.Context, u *User) (*User, error) {
	if _, err := uuid.Parse(u.ID); err != nil {
		return nil, ErrInvalidID
	}

	address, err := encodeAddress(u.Address)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = $1,
			email = $2,
			role = $3,
			phone = $4,
			address = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`, u.Name, u.Email, string(u.Role), u.Phone, address, u.ID).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, hash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`,
		hash, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) CountByRole(ctx context.Context, role Role) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, err
}
