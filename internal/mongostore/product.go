package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"threadstory-be/internal/product"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      string             `bson:"user"`
	Name      string             `bson:"name"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Stock       int                `bson:"stock"`
	Sizes       []string           `bson:"sizes"`
	Colors      []string           `bson:"colors"`
	Featured    bool               `bson:"featured"`
	Reviews     []reviewDoc        `bson:"reviews"`
	Rating      float64            `bson:"rating"`
	NumReviews  int                `bson:"numReviews"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *productDoc) toProduct() *product.Product {
	p := &product.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    product.Category(d.Category),
		Image:       d.Image,
		Stock:       d.Stock,
		Sizes:       d.Sizes,
		Colors:      d.Colors,
		Featured:    d.Featured,
		Reviews:     make([]product.Review, 0, len(d.Reviews)),
		Rating:      d.Rating,
		NumReviews:  d.NumReviews,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	for _, r := range d.Reviews {
		p.Reviews = append(p.Reviews, product.Review{
			ID:        r.ID.Hex(),
			UserID:    r.User,
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return p
}

// productFilter builds the list query: exact category and a case-insensitive
// substring match on name or description.
func productFilter(opts product.ListOptions) bson.M {
	filter := bson.M{}
	if c := opts.CategoryFilter(); c != "" {
		filter["category"] = strings.ToLower(c)
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	return filter
}

func productSort(sort product.SortOrder) bson.D {
	switch sort {
	case product.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}}
	case product.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}}
	case product.SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: 1}}
	}
}

type productRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) product.Repository {
	return &productRepository{coll: db.Collection(productsCollection)}
}

func (r *productRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*product.Product, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []*product.Product{}
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		products = append(products, d.toProduct())
	}
	return products, cur.Err()
}

func (r *productRepository) List(ctx context.Context, opts product.ListOptions) ([]*product.Product, error) {
	return r.find(ctx, productFilter(opts), options.Find().SetSort(productSort(opts.Sort)))
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	oid, err := parseID(id, product.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var d productDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toProduct(), nil
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	ts := now()
	d := productDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    string(p.Category),
		Image:       p.Image,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Featured:    p.Featured,
		Reviews:     []reviewDoc{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if d.Sizes == nil {
		d.Sizes = []string{}
	}
	if d.Colors == nil {
		d.Colors = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, err
	}

	p.ID = d.ID.Hex()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	if p.Reviews == nil {
		p.Reviews = []product.Review{}
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
	oid, err := parseID(p.ID, product.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	ts := now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    string(p.Category),
		"image":       p.Image,
		"stock":       p.Stock,
		"sizes":       p.Sizes,
		"colors":      p.Colors,
		"featured":    p.Featured,
		"updatedAt":   ts,
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, product.ErrProductNotFound
	}

	p.UpdatedAt = ts
	return p, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, product.ErrInvalidID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// AddReview pushes review only when the user has not reviewed p yet, so two
// concurrent reviews from one user cannot both land.
func (r *productRepository) AddReview(ctx context.Context, p *product.Product, review product.Review) error {
	oid, err := parseID(p.ID, product.ErrInvalidID)
	if err != nil {
		return err
	}

	d := reviewDoc{
		ID:        primitive.NewObjectID(),
		User:      review.UserID,
		Name:      review.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}

	ts := now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "reviews.user": bson.M{"$ne": review.UserID}},
		bson.M{
			"$push": bson.M{"reviews": d},
			"$set": bson.M{
				"rating":     p.Rating,
				"numReviews": p.NumReviews,
				"updatedAt":  ts,
			},
		},
	)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if n == 0 {
			return product.ErrProductNotFound
		}
		return product.ErrAlreadyReviewed
	}

	for i := len(p.Reviews) - 1; i >= 0; i-- {
		if p.Reviews[i].UserID == review.UserID {
			p.Reviews[i].ID = d.ID.Hex()
			break
		}
	}
	p.UpdatedAt = ts
	return nil
}

func (r *productRepository) SetStock(ctx context.Context, id string, stock int) error {
	oid, err := parseID(id, product.ErrInvalidID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"stock":     stock,
		"updatedAt": now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *productRepository) LowStock(ctx context.Context, threshold, limit int) ([]*product.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "stock", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"stock": bson.M{"$lt": threshold}}, opts)
}
