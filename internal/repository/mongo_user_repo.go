package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog_api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a UserRepository over the users collection
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return newMongoUserRepository(db.Collection(UsersCollection))
}

func newMongoUserRepository(col *mongo.Collection) *mongoUserRepository {
	return &mongoUserRepository{col: col}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("mongo insert user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (r *mongoUserRepository) List(ctx context.Context, page model.Page) ([]model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Offset()).
		SetLimit(page.Limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode users: %w", err)
	}
	users := make([]model.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count users: %w", err)
	}
	return total, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *model.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"username":   user.Username,
		"password":   user.PasswordHash,
		"role":       user.Role,
		"updated_at": user.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("mongo update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
