package mongostore

import (
	"context"
	"errors"
	"time"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type addressDoc struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zipCode"`
	Country string `bson:"country"`
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	Phone     string             `bson:"phone"`
	Address   *addressDoc        `bson:"address"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toAddressDoc(a *user.Address) *addressDoc {
	if a == nil {
		return nil
	}
	d := addressDoc(*a)
	return &d
}

func (d *userDoc) toUser() *user.User {
	u := &user.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Role:      user.Role(d.Role),
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Address != nil {
		a := user.Address(*d.Address)
		u.Address = &a
	}
	return u
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var d userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toUser(), nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	ts := now()
	d := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		Phone:     u.Phone,
		Address:   toAddressDoc(u.Address),
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, user.ErrUserExists
		}
		logger.FromCtx(ctx).Error("mongo: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return nil, err
	}

	u.ID = d.ID.Hex()
	u.CreatedAt = ts
	u.UpdatedAt = ts
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := parseID(id, user.ErrInvalidID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	oid, err := parseID(u.ID, user.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	ts := now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":      u.Name,
		"email":     u.Email,
		"role":      string(u.Role),
		"phone":     u.Phone,
		"address":   toAddressDoc(u.Address),
		"updatedAt": ts,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, user.ErrUserExists
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, user.ErrUserNotFound
	}

	u.UpdatedAt = ts
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	oid, err := parseID(id, user.ErrInvalidID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []*user.User{}
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		users = append(users, d.toUser())
	}
	return users, cur.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, user.ErrInvalidID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"role": string(role)})
}
