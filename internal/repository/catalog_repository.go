package repository

import (
	"context"
	"errors"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoadmapRepository struct {
	Col *mongo.Collection
}

func NewRoadmapRepository(db *mongo.Database) *RoadmapRepository {
	return &RoadmapRepository{Col: db.Collection("roadmaps")}
}

func (r *RoadmapRepository) FindByID(ctx context.Context, id string) (*models.Roadmap, error) {
	if err := validateID(id, "roadmap"); err != nil {
		return nil, err
	}
	var roadmap models.Roadmap
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&roadmap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("roadmap not found")
	}
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *RoadmapRepository) AddEnrolledUser(ctx context.Context, roadmapID, userID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": roadmapID},
		bson.M{"$addToSet": bson.M{"enrolled_users": userID}})
	return err
}

type StageRepository struct {
	Col *mongo.Collection
}

func NewStageRepository(db *mongo.Database) *StageRepository {
	return &StageRepository{Col: db.Collection("stages")}
}

func (r *StageRepository) FindByRoadmap(ctx context.Context, roadmapID string) ([]models.Stage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"roadmap_id": roadmapID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var stages []models.Stage
	for cur.Next(ctx) {
		var s models.Stage
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, cur.Err()
}

func (r *StageRepository) RemoveCategory(ctx context.Context, stageID, categoryID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": stageID},
		bson.M{"$pull": bson.M{"categories": categoryID}})
	return err
}

type CategoryRepository struct {
	Col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{Col: db.Collection("categories")}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if err := validateID(id, "category"); err != nil {
		return nil, err
	}
	var category models.Category
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("category not found")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindByStage(ctx context.Context, stageID string) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"stage_id": stageID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var categories []models.Category
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, cur.Err()
}

func (r *CategoryRepository) AddTask(ctx context.Context, categoryID, taskID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": categoryID},
		bson.M{"$addToSet": bson.M{"tasks": taskID}})
	return err
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type LessonRepository struct {
	Col *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{Col: db.Collection("lessons")}
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	if err := validateID(id, "lesson"); err != nil {
		return nil, err
	}
	var lesson models.Lesson
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("lesson not found")
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByCategory(ctx context.Context, categoryID string) ([]models.Lesson, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lecture_number", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"category_id": categoryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var lessons []models.Lesson
	for cur.Next(ctx) {
		var l models.Lesson
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, cur.Err()
}

func (r *LessonRepository) AddCompletedBy(ctx context.Context, lessonID, userID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": lessonID},
		bson.M{"$addToSet": bson.M{"completed_by": userID}})
	return err
}

func (r *LessonRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"category_id": categoryID})
	return err
}
