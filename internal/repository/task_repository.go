package repository

import (
	"context"
	"errors"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskRepository struct {
	Col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{Col: db.Collection("tasks")}
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	if err := validateID(id, "task"); err != nil {
		return nil, err
	}
	var task models.Task
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = newID()
	}
	_, err := r.Col.InsertOne(ctx, task)
	return err
}

func (r *TaskRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}})
	return err
}

// UpsertUserSession refreshes the per-user session record, creating it
// on first start.
func (r *TaskRepository) UpsertUserSession(ctx context.Context, taskID, userID string, startedAt time.Time) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": taskID, "user_sessions.user_id": userID},
		bson.M{"$set": bson.M{
			"user_sessions.$.started_at": startedAt,
			"user_sessions.$.completed":  false,
			"user_sessions.$.score":      0,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": taskID},
		bson.M{"$push": bson.M{"user_sessions": models.TaskUserSession{
			UserID:    userID,
			StartedAt: startedAt,
		}}})
	return err
}

func (r *TaskRepository) CompleteUserSession(ctx context.Context, taskID, userID string, score int) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": taskID, "user_sessions.user_id": userID},
		bson.M{"$set": bson.M{
			"user_sessions.$.completed": true,
			"user_sessions.$.score":     score,
		}})
	return err
}
