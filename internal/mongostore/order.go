package mongostore

import (
	"context"
	"time"

	"threadstory-be/internal/order"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type itemDoc struct {
	Product  string  `bson:"product"`
	Name     string  `bson:"name"`
	Quantity int     `bson:"quantity"`
	Price    float64 `bson:"price"`
	Image    string  `bson:"image"`
	Size     string  `bson:"size,omitempty"`
	Color    string  `bson:"color,omitempty"`
}

type paymentResultDoc struct {
	ID                string `bson:"id,omitempty"`
	Status            string `bson:"status,omitempty"`
	UpdateTime        string `bson:"updateTime,omitempty"`
	EmailAddress      string `bson:"emailAddress,omitempty"`
	RazorpayPaymentID string `bson:"razorpayPaymentId,omitempty"`
	RazorpayOrderID   string `bson:"razorpayOrderId,omitempty"`
	RazorpaySignature string `bson:"razorpaySignature,omitempty"`
}

type ownerDoc struct {
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	User            primitive.ObjectID `bson:"user"`
	Items           []itemDoc          `bson:"orderItems"`
	ShippingAddress addressDoc         `bson:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod"`
	ItemsPrice      float64            `bson:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice"`
	IsPaid          bool               `bson:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty"`
	PaymentResult   *paymentResultDoc  `bson:"paymentResult,omitempty"`
	IsDelivered     bool               `bson:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`

	// Owner is filled by the users lookup on reads only.
	Owner []ownerDoc `bson:"owner,omitempty"`
}

func (d *orderDoc) toOrder() *order.Order {
	o := &order.Order{
		ID:              d.ID.Hex(),
		User:            order.Owner{ID: d.User.Hex()},
		Items:           make([]order.Item, 0, len(d.Items)),
		ShippingAddress: order.ShippingAddress(d.ShippingAddress),
		PaymentMethod:   d.PaymentMethod,
		ItemsPrice:      d.ItemsPrice,
		TaxPrice:        d.TaxPrice,
		ShippingPrice:   d.ShippingPrice,
		TotalPrice:      d.TotalPrice,
		IsPaid:          d.IsPaid,
		PaidAt:          d.PaidAt,
		IsDelivered:     d.IsDelivered,
		DeliveredAt:     d.DeliveredAt,
		Status:          order.Status(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if len(d.Owner) > 0 {
		o.User.Name = d.Owner[0].Name
		o.User.Email = d.Owner[0].Email
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, order.Item{
			Product:  order.ProductRef(it.Product),
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Image:    it.Image,
			Size:     it.Size,
			Color:    it.Color,
		})
	}
	if d.PaymentResult != nil {
		pr := order.PaymentResult(*d.PaymentResult)
		o.PaymentResult = &pr
	}
	return o
}

func toItemDocs(items []order.Item) []itemDoc {
	docs := make([]itemDoc, 0, len(items))
	for _, it := range items {
		docs = append(docs, itemDoc{
			Product:  string(it.Product),
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Image:    it.Image,
			Size:     it.Size,
			Color:    it.Color,
		})
	}
	return docs
}

// orderPipeline matches, sorts and limits orders, then joins the owner's
// name and email from users. A deleted owner leaves them empty.
func orderPipeline(match bson.M, limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "owner.password", Value: 0},
			{Key: "owner.address", Value: 0},
		}}},
	)
}

type orderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) order.Repository {
	return &orderRepository{coll: db.Collection(ordersCollection)}
}

func (r *orderRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*order.Order, error) {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []*order.Order{}
	for cur.Next(ctx) {
		var d orderDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		orders = append(orders, d.toOrder())
	}
	return orders, cur.Err()
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) (*order.Order, error) {
	userID, err := parseID(o.User.ID, order.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	ts := now()
	d := orderDoc{
		ID:              primitive.NewObjectID(),
		User:            userID,
		Items:           toItemDocs(o.Items),
		ShippingAddress: addressDoc(o.ShippingAddress),
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		TaxPrice:        o.TaxPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		Status:          string(o.Status),
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, err
	}

	o.ID = d.ID.Hex()
	o.CreatedAt = ts
	o.UpdatedAt = ts
	if o.Items == nil {
		o.Items = []order.Item{}
	}
	return o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	oid, err := parseID(id, order.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	orders, err := r.aggregate(ctx, orderPipeline(bson.M{"_id": oid}, 1))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, order.ErrOrderNotFound
	}
	return orders[0], nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*order.Order{}, nil
	}
	return r.aggregate(ctx, orderPipeline(bson.M{"user": oid}, 0))
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	return r.aggregate(ctx, orderPipeline(bson.M{}, 0))
}

func (r *orderRepository) Recent(ctx context.Context, limit int) ([]*order.Order, error) {
	return r.aggregate(ctx, orderPipeline(bson.M{}, limit))
}

// Update writes the mutable payment, delivery and status fields of o.
func (r *orderRepository) Update(ctx context.Context, o *order.Order) (*order.Order, error) {
	oid, err := parseID(o.ID, order.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var paymentResult *paymentResultDoc
	if o.PaymentResult != nil {
		pr := paymentResultDoc(*o.PaymentResult)
		paymentResult = &pr
	}

	ts := now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"isPaid":        o.IsPaid,
		"paidAt":        o.PaidAt,
		"paymentResult": paymentResult,
		"isDelivered":   o.IsDelivered,
		"deliveredAt":   o.DeliveredAt,
		"status":        string(o.Status),
		"updatedAt":     ts,
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, order.ErrOrderNotFound
	}

	o.UpdatedAt = ts
	return o, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *orderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": string(status)})
}

func (r *orderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	return sum(ctx, r.coll, bson.M{}, "totalPrice")
}

func (r *orderRepository) PaidRevenue(ctx context.Context) (float64, error) {
	return sum(ctx, r.coll, bson.M{"isPaid": true}, "totalPrice")
}
