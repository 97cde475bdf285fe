package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"threadstory-be/internal/apperror"
	"threadstory-be/internal/logger"
	"threadstory-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Profile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, input ProfileInput) (*Session, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) error

	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*User, error)
	Delete(ctx context.Context, id string) error
	CountCustomers(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	log := logger.FromCtx(ctx)

	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	var violations []string
	if name == "" {
		violations = append(violations, "name is required")
	}
	if email == "" {
		violations = append(violations, "email is required")
	} else if !validateEmail(email) {
		violations = append(violations, "Please provide a valid email")
	}
	if len(input.Password) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(violations) > 0 {
		return nil, apperror.Validation("Validation failed", violations)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		log.Error("failed to look up user", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, &User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     RoleUser,
	})
	if err != nil {
		if !errors.Is(err, ErrUserExists) {
			log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}

	token, err := GenerateJWT(u)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	log.Info("register service completed",
		zap.String("user_id", u.ID),
		zap.String("email", email),
	)

	return newSession(u, token), nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	log := logger.FromCtx(ctx)
	email := normalizeEmail(input.Email)

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("login rejected: email not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to look up user", zap.Error(err))
		return nil, err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		log.Info("login rejected: password mismatch", zap.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	return newSession(u, token), nil
}

func (s *service) currentUser(ctx context.Context) (*User, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	u, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, ErrInvalidID) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *service) Profile(ctx context.Context) (*User, error) {
	return s.currentUser(ctx)
}

func (s *service) UpdateProfile(ctx context.Context, input ProfileInput) (*Session, error) {
	log := logger.FromCtx(ctx)

	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(input.Email); email != "" {
		if !validateEmail(email) {
			return nil, apperror.Validation("Validation failed", []string{"Please provide a valid email"})
		}
		u.Email = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		u.Phone = phone
	}
	if input.Address != nil {
		u.Address = input.Address
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		if !errors.Is(err, ErrUserExists) {
			log.Error("failed to update profile", zap.String("user_id", u.ID), zap.Error(err))
		}
		return nil, err
	}

	token, err := GenerateJWT(updated)
	if err != nil {
		return nil, err
	}

	log.Info("profile updated", zap.String("user_id", updated.ID))
	return newSession(updated, token), nil
}

func (s *service) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	log := logger.FromCtx(ctx)

	u, err := s.currentUser(ctx)
	if err != nil {
		return err
	}

	if !CheckPasswordHash(input.CurrentPassword, u.Password) {
		return ErrWrongPassword
	}
	if len(input.NewPassword) < MinPasswordLength {
		return apperror.Validation("Validation failed", []string{
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		})
	}

	hashed, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, hashed); err != nil {
		log.Error("failed to update password", zap.String("user_id", u.ID), zap.Error(err))
		return err
	}

	log.Info("password changed", zap.String("user_id", u.ID))
	return nil
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrInvalidID) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *service) AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(input.Email); email != "" {
		u.Email = email
	}
	if role := strings.TrimSpace(input.Role); role != "" {
		if !Role(role).Valid() {
			return nil, ErrInvalidRole
		}
		u.Role = Role(role)
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("user updated by admin",
		zap.String("user_id", updated.ID),
		zap.String("role", string(updated.Role)),
	)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if u.Role == RoleAdmin {
		return ErrCannotDeleteAdmin
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("user removed", zap.String("user_id", u.ID))
	return nil
}

func (s *service) CountCustomers(ctx context.Context) (int64, error) {
	return s.repo.CountByRole(ctx, RoleUser)
}
