package repository

import (
	"context"

	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PoolRepository struct {
	Col *mongo.Collection
}

func NewPoolRepository(db *mongo.Database) *PoolRepository {
	return &PoolRepository{Col: db.Collection("question_pools")}
}

// FindActiveByCategory returns the pools eligible as task-generation
// sources for a category.
func (r *PoolRepository) FindActiveByCategory(ctx context.Context, categoryID string) ([]models.QuestionPool, error) {
	cur, err := r.Col.Find(ctx, bson.M{"category_id": categoryID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var pools []models.QuestionPool
	for cur.Next(ctx) {
		var p models.QuestionPool
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, cur.Err()
}

func (r *PoolRepository) AddTask(ctx context.Context, poolID, taskID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": poolID},
		bson.M{"$addToSet": bson.M{"tasks": taskID}})
	return err
}

func (r *PoolRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"category_id": categoryID})
	return err
}
