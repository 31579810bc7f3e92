package files

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "files"

// MongoRepository stores nodes in the "files" collection. Listings rely on
// natural order, which is insertion order for a collection without deletes.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "parent_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, file); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetByOwner(ctx context.Context, userID, id string) (*models.File, error) {
	return r.findOne(ctx, ownerFilter(userID, id))
}

func (r *MongoRepository) ListByParent(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.File, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "$natural", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID, "parent_id": parentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer cur.Close(ctx)

	result := make([]*models.File, 0, limit)
	for cur.Next(ctx) {
		var f models.File
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}

	if err := cur.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *MongoRepository) SetPublic(ctx context.Context, userID, id string, value bool) (*models.File, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	f := &models.File{}
	err := r.coll.FindOneAndUpdate(ctx, ownerFilter(userID, id), bson.M{"$set": bson.M{"is_public": value}}, opts).Decode(f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.File, error) {
	f := &models.File{}
	if err := r.coll.FindOne(ctx, filter).Decode(f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func ownerFilter(userID, id string) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}
