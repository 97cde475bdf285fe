package product

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategorySaree   Category = "saree"
	CategoryKurti   Category = "kurti"
	CategoryLehenga Category = "lehenga"
)

var Categories = []Category{CategorySaree, CategoryKurti, CategoryLehenga}

// ValidSizes is the fixed size vocabulary a product may offer.
var ValidSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "Free Size"}

const DefaultImage = "/images/products/default.jpg"

type Review struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Featured    bool      `json:"featured"`
	Reviews     []Review  `json:"reviews"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"numReviews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput carries a create or update request. A nil field was absent
// from the request; a non-nil field is applied even when it holds a zero
// value.
type ProductInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Image       *string   `json:"image"`
	Stock       *int      `json:"stock"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Featured    *bool     `json:"featured"`
}

type ReviewInput struct {
	Rating  float64 `json:"rating"`
	Comment string `json:"comment"`
}

type SortOrder string

const (
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNewest    SortOrder = "newest"
)

type ListOptions struct {
	Category string
	Search   string
	Sort     SortOrder
}

// CategoryFilter returns the category to filter on, or "" for no filter.
func (o ListOptions) CategoryFilter() string {
	c := strings.TrimSpace(o.Category)
	if c == "" || strings.EqualFold(c, "all") {
		return ""
	}
	return c
}

// missingFields lists the required create fields absent from in. Price is
// required to be present and non-zero; stock only has to be present.
func (in ProductInput) missingFields() []string {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name is required")
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		missing = append(missing, "description is required")
	}
	if in.Price == nil || *in.Price == 0 {
		missing = append(missing, "price is required")
	}
	if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
		missing = append(missing, "category is required")
	}
	if in.Stock == nil {
		missing = append(missing, "stock is required")
	}
	return missing
}

// Apply copies every present field of in onto p.
func (in ProductInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = Category(strings.ToLower(strings.TrimSpace(*in.Category)))
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = *in.Sizes
	}
	if in.Colors != nil {
		p.Colors = *in.Colors
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
}

// NewProduct builds a validated product from a create request.
func NewProduct(in ProductInput) (*Product, error) {
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, newMissingFieldsError(missing)
	}

	p := &Product{
		Image:   DefaultImage,
		Sizes:   []string{},
		Colors:  []string{},
		Reviews: []Review{},
	}
	in.Apply(p)
	if p.Image == "" {
		p.Image = DefaultImage
	}

	if violations := p.Validate(); len(violations) > 0 {
		return nil, newValidationError(violations)
	}
	return p, nil
}

// Validate returns every field constraint p violates.
func (p *Product) Validate() []string {
	var violations []string

	if strings.TrimSpace(p.Name) == "" {
		violations = append(violations, "name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		violations = append(violations, "description is required")
	}
	if p.Price < 0 {
		violations = append(violations, "price must be >= 0")
	}
	if p.Stock < 0 {
		violations = append(violations, "stock must be >= 0")
	}
	if !IsValidCategory(p.Category) {
		violations = append(violations, "category must be one of saree, kurti, lehenga")
	}
	for _, s := range p.Sizes {
		if !IsValidSize(s) {
			violations = append(violations, fmt.Sprintf("%s is not a valid size", s))
		}
	}

	return violations
}

func IsValidCategory(c Category) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func IsValidSize(s string) bool {
	for _, v := range ValidSizes {
		if s == v {
			return true
		}
	}
	return false
}

func (p *Product) HasReviewFrom(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ApplyReview appends r and recomputes NumReviews and the unrounded mean
// Rating over all reviews.
func (p *Product) ApplyReview(r Review) {
	p.Reviews = append(p.Reviews, r)
	p.NumReviews = len(p.Reviews)

	var sum float64
	for _, rv := range p.Reviews {
		sum += rv.Rating
	}
	p.Rating = sum / float64(len(p.Reviews))
}

func (in ReviewInput) validate() []string {
	var violations []string
	if in.Rating < 1 || in.Rating > 5 {
		violations = append(violations, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Comment) == "" {
		violations = append(violations, "comment is required")
	}
	return violations
}
