package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/product"
	"threadstory-be/internal/user"

	"go.uber.org/zap"
)

var errAdminCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set to seed")

type adminSeed struct {
	Name     string
	Email    string
	Password string
}

// seedAdmin creates the admin account, or promotes and resets the password
// of an existing account with the same email. It reports whether a new
// account was created.
func seedAdmin(ctx context.Context, users user.Repository, in adminSeed) (*user.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, false, errAdminCredentials
	}
	if len(in.Password) < user.MinPasswordLength {
		return nil, false, fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", user.MinPasswordLength)
	}

	hash, err := user.HashPassword(in.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}

	existing, err := users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		created, err := users.Create(ctx, &user.User{
			Name:     strings.TrimSpace(in.Name),
			Email:    email,
			Password: hash,
			Role:     user.RoleAdmin,
		})
		if err != nil {
			return nil, false, fmt.Errorf("create admin: %w", err)
		}
		return created, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find admin: %w", err)
	}

	existing.Role = user.RoleAdmin
	updated, err := users.Update(ctx, existing)
	if err != nil {
		return nil, false, fmt.Errorf("promote admin: %w", err)
	}
	if err := users.UpdatePassword(ctx, updated.ID, hash); err != nil {
		return nil, false, fmt.Errorf("reset admin password: %w", err)
	}
	return updated, false, nil
}

type sampleProduct struct {
	name, description, category, image string
	price                              float64
	stock                              int
	sizes, colors                      []string
	featured                           bool
}

var sampleCatalog = []sampleProduct{
	{
		name:        "Elegant Silk Saree",
		description: "Beautiful handwoven silk saree with intricate golden border. Perfect for weddings and special occasions.",
		category:    "saree", price: 4999, stock: 15, featured: true,
		image: "https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=500&h=700&fit=crop",
		sizes: []string{"Free Size"}, colors: []string{"Red", "Blue", "Green"},
	},
	{
		name:        "Cotton Printed Saree",
		description: "Comfortable cotton saree with beautiful floral prints. Ideal for daily wear.",
		category:    "saree", price: 1299, stock: 25,
		image: "https://images.unsplash.com/photo-1583391733956-6c78276477e2?w=500&h=700&fit=crop",
		sizes: []string{"Free Size"}, colors: []string{"Pink", "Yellow", "White"},
	},
	{
		name:        "Designer Anarkali Kurti",
		description: "Stylish Anarkali kurti with embroidered work. Perfect for parties and festivals.",
		category:    "kurti", price: 2499, stock: 20, featured: true,
		image: "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=500&h=700&fit=crop",
		sizes: []string{"S", "M", "L", "XL"}, colors: []string{"Black", "Maroon", "Navy Blue"},
	},
	{
		name:        "Casual Cotton Kurti",
		description: "Comfortable cotton kurti for everyday wear. Breathable and stylish.",
		category:    "kurti", price: 899, stock: 30,
		image: "https://images.unsplash.com/photo-1583391733981-e8c9e2f55e4d?w=500&h=700&fit=crop",
		sizes: []string{"S", "M", "L", "XL", "XXL"}, colors: []string{"White", "Beige", "Light Blue"},
	},
	{
		name:        "Bridal Lehenga Choli",
		description: "Stunning bridal lehenga with heavy embroidery and stone work. Make your special day memorable.",
		category:    "lehenga", price: 15999, stock: 5, featured: true,
		image: "https://images.unsplash.com/photo-1595777457583-95e059d581b8?w=500&h=700&fit=crop",
		sizes: []string{"S", "M", "L"}, colors: []string{"Red", "Pink", "Gold"},
	},
	{
		name:        "Party Wear Lehenga",
		description: "Elegant party wear lehenga with mirror work. Perfect for sangeet and mehendi functions.",
		category:    "lehenga", price: 8999, stock: 10,
		image: "https://images.unsplash.com/photo-1617627143750-d86bc21e42bb?w=500&h=700&fit=crop",
		sizes: []string{"S", "M", "L", "XL"}, colors: []string{"Purple", "Turquoise", "Orange"},
	},
	{
		name:        "Banarasi Silk Saree",
		description: "Traditional Banarasi silk saree with zari work. A timeless classic.",
		category:    "saree", price: 6999, stock: 12, featured: true,
		image: "https://images.unsplash.com/photo-1617627143750-d86bc21e42bb?w=500&h=700&fit=crop",
		sizes: []string{"Free Size"}, colors: []string{"Maroon", "Royal Blue", "Bottle Green"},
	},
	{
		name:        "Straight Cut Kurti Set",
		description: "Modern straight cut kurti with palazzo pants. Comfortable and trendy.",
		category:    "kurti", price: 1799, stock: 22,
		image: "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=500&h=700&fit=crop",
		sizes: []string{"S", "M", "L", "XL"}, colors: []string{"Mustard", "Coral", "Mint Green"},
	},
}

func (s sampleProduct) input() product.ProductInput {
	return product.ProductInput{
		Name:        &s.name,
		Description: &s.description,
		Price:       &s.price,
		Category:    &s.category,
		Image:       &s.image,
		Stock:       &s.stock,
		Sizes:       &s.sizes,
		Colors:      &s.colors,
		Featured:    &s.featured,
	}
}

// seedCatalog loads the sample catalog into an empty products store and
// returns how many products it created. A non-empty store is left alone.
func seedCatalog(ctx context.Context, products product.Repository) (int, error) {
	n, err := products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		logger.L().Info("catalog not empty, skipping sample products", zap.Int64("products", n))
		return 0, nil
	}

	for i, sp := range sampleCatalog {
		p, err := product.NewProduct(sp.input())
		if err != nil {
			return i, fmt.Errorf("sample product %q: %w", sp.name, err)
		}
		if _, err := products.Create(ctx, p); err != nil {
			return i, fmt.Errorf("create sample product %q: %w", sp.name, err)
		}
	}
	return len(sampleCatalog), nil
}

func runSeed(ctx context.Context, users user.Repository, products product.Repository, admin adminSeed, withCatalog bool) error {
	log := logger.L()

	u, created, err := seedAdmin(ctx, users, admin)
	if err != nil {
		return err
	}
	log.Info("admin account ready",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
		zap.Bool("created", created),
	)

	if !withCatalog {
		return nil
	}

	n, err := seedCatalog(ctx, products)
	if err != nil {
		return err
	}
	log.Info("sample catalog loaded", zap.Int("products", n))
	return nil
}
