package repository

import (
	"context"
	"errors"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

// FindByID accepts any id shape: user ids are minted by the auth
// service, not by this service.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	_, err := r.Col.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) AddRoadmap(ctx context.Context, userID, roadmapID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"roadmaps": roadmapID}})
	return err
}

func (r *UserRepository) AddCompletedLesson(ctx context.Context, userID, lessonID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"completed_lessons": lessonID}})
	return err
}

func (r *UserRepository) AddTask(ctx context.Context, userID, taskID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"tasks": taskID}})
	return err
}

// PullCompletedLessons removes dangling lesson references from every
// user after a category cascade.
func (r *UserRepository) PullCompletedLessons(ctx context.Context, lessonIDs []string) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	_, err := r.Col.UpdateMany(ctx, bson.M{},
		bson.M{"$pull": bson.M{"completed_lessons": bson.M{"$in": lessonIDs}}})
	return err
}
