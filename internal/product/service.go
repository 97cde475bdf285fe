package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, productID string, input ReviewInput) (*Product, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
	)

	start := time.Now()

	log.Debug("list products requested",
		zap.String("category", opts.Category),
		zap.String("search", opts.Search),
		zap.String("sort", string(opts.Sort)),
	)

	products, err := s.repo.List(ctx, opts)
	if err != nil {
		log.Error("failed to list products",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	log.Info("list products success",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)

	return products, nil
}

// GetByID reports a malformed id the same way as a missing product.
func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrInvalidID) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			logger.FromCtx(ctx).Error("failed to fetch product",
				zap.String("product_id", id),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	p, err := NewProduct(input)
	if err != nil {
		log.Warn("create product rejected", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// Update applies only the fields present in input and revalidates the
// merged product before storing it. An empty input stores the product
// unchanged.
func (s *service) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id),
	)

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(p)
	if violations := p.Validate(); len(violations) > 0 {
		log.Warn("update product rejected", zap.Strings("violations", violations))
		return nil, newValidationError(violations)
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrProductNotFound) && !errors.Is(err, ErrInvalidID) {
			logger.FromCtx(ctx).Error("failed to delete product",
				zap.String("product_id", id),
				zap.Error(err),
			)
		}
		return err
	}

	logger.FromCtx(ctx).Info("product removed", zap.String("product_id", id))
	return nil
}

func (s *service) AddReview(ctx context.Context, productID string, input ReviewInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddReview"),
		zap.String("product_id", productID),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if violations := input.validate(); len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	p, err := s.repo.GetByID(ctx, productID)
	if errors.Is(err, ErrInvalidID) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.HasReviewFrom(userID) {
		return nil, ErrAlreadyReviewed
	}

	review := Review{
		UserID:    userID,
		Name:      utils.GetUserNameFromContext(ctx),
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: s.now().UTC(),
	}
	p.ApplyReview(review)

	if err := s.repo.AddReview(ctx, p, review); err != nil {
		if !errors.Is(err, ErrAlreadyReviewed) {
			log.Error("failed to store review", zap.Error(err))
		}
		return nil, err
	}

	log.Info("review added",
		zap.String("user_id", userID),
		zap.Int("num_reviews", p.NumReviews),
		zap.Float64("rating", p.Rating),
	)
	return p, nil
}
