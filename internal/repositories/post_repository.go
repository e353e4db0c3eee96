package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByOwnerID(ctx context.Context, ownerID uint, skip, limit int64) ([]models.Post, error)
	GetRecentPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	ApplyReactionsDelta(ctx context.Context, postID string, delta int) error
	ApplyCommentsDelta(ctx context.Context, postID string, delta int) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.NotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByOwnerID retrieves posts by a specific user from MongoDB
func (r *MongoPostRepository) GetPostsByOwnerID(ctx context.Context, ownerID uint, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID}, skip, limit)
}

// GetRecentPosts retrieves the most recent posts across all users. The
// caller is responsible for filtering them through the visibility
// evaluator before returning them to anyone.
func (r *MongoPostRepository) GetRecentPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, skip, limit)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates an existing post in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.NotFound
	}

	post.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"about":            post.About,
		"privacy":          post.Privacy,
		"specific_friends": post.SpecificFriends,
		"excluded_friends": post.ExcludedFriends,
		"updated_at":       post.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.NotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound
	}
	return nil
}

// ApplyReactionsDelta atomically applies a +1/-1 delta to the post's
// denormalized reaction counter. $inc keeps concurrent togglers from
// losing updates; the absolute value is never read-modified-written.
func (r *MongoPostRepository) ApplyReactionsDelta(ctx context.Context, postID string, delta int) error {
	return r.applyDelta(ctx, postID, "reactions_count", delta)
}

// ApplyCommentsDelta atomically applies a delta to the post's comment
// counter.
func (r *MongoPostRepository) ApplyCommentsDelta(ctx context.Context, postID string, delta int) error {
	return r.applyDelta(ctx, postID, "comments_count", delta)
}

func (r *MongoPostRepository) applyDelta(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return errs.NotFound
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound
	}
	return nil
}
