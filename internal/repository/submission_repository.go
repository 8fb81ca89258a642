package repository

import (
	"context"
	"errors"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubmissionRepository struct {
	Col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{Col: db.Collection("submissions")}
}

// CreateIndexes installs the partial unique index that allows at most
// one unlocked submission per (task, user). A concurrent second start
// hits a duplicate-key error instead of creating a twin attempt.
func (r *SubmissionRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "task_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_locked": false}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "graded_at", Value: -1}},
		},
	}
	_, err := r.Col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = newID()
	}
	_, err := r.Col.InsertOne(ctx, submission)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("an active submission already exists for this task")
	}
	return err
}

// FindLatestByTaskAndUser returns the most recent submission for the
// pair, locked or not.
func (r *SubmissionRepository) FindLatestByTaskAndUser(ctx context.Context, taskID, userID string) (*models.Submission, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})
	var submission models.Submission
	err := r.Col.FindOne(ctx, bson.M{"task_id": taskID, "user_id": userID}, opts).Decode(&submission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("submission not found")
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Save replaces the whole document so a grading pass lands as one
// write.
func (r *SubmissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": submission.ID}, submission)
	return err
}

func (r *SubmissionRepository) FindByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var submissions []models.Submission
	for cur.Next(ctx) {
		var s models.Submission
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, cur.Err()
}

// FindGradedSince feeds the weekly report job.
func (r *SubmissionRepository) FindGradedSince(ctx context.Context, since time.Time) ([]models.Submission, error) {
	filter := bson.M{
		"status":    models.SubmissionStatusGraded,
		"graded_at": bson.M{"$gte": since},
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var submissions []models.Submission
	for cur.Next(ctx) {
		var s models.Submission
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, cur.Err()
}
