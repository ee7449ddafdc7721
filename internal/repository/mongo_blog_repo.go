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

type blogDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	AuthorID  string             `bson:"author_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *blogDocument) toModel() *model.Blog {
	return &model.Blog{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoBlogRepository struct {
	col *mongo.Collection
}

// NewMongoBlogRepository creates a BlogRepository over the blogs collection
func NewMongoBlogRepository(db *mongo.Database) BlogRepository {
	return newMongoBlogRepository(db.Collection(BlogsCollection))
}

func newMongoBlogRepository(col *mongo.Collection) *mongoBlogRepository {
	return &mongoBlogRepository{col: col}
}

func (r *mongoBlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	blog.UpdatedAt = blog.CreatedAt

	doc := blogDocument{
		ID:        primitive.NewObjectID(),
		Title:     blog.Title,
		Content:   blog.Content,
		AuthorID:  blog.AuthorID,
		CreatedAt: blog.CreatedAt,
		UpdatedAt: blog.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo insert blog: %w", err)
	}
	blog.ID = doc.ID.Hex()
	return nil
}

func (r *mongoBlogRepository) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc blogDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo find blog: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoBlogRepository) List(ctx context.Context, page model.Page) ([]model.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Offset()).
		SetLimit(page.Limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list blogs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []blogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode blogs: %w", err)
	}
	blogs := make([]model.Blog, 0, len(docs))
	for i := range docs {
		blogs = append(blogs, *docs[i].toModel())
	}
	return blogs, nil
}

func (r *mongoBlogRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count blogs: %w", err)
	}
	return total, nil
}
