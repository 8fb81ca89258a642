package service

import (
	"context"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/event"
	"roadmap-service/internal/models"
	"roadmap-service/internal/progress"
)

type ProgressService struct {
	Users      UserStore
	Roadmaps   RoadmapStore
	Stages     StageStore
	Categories CategoryStore
	Lessons    LessonStore
	TaskSvc    *TaskService
	Txn        TxnFunc
	Publisher  Publisher
}

func NewProgressService(
	users UserStore,
	roadmaps RoadmapStore,
	stages StageStore,
	categories CategoryStore,
	lessons LessonStore,
	taskSvc *TaskService,
	txn TxnFunc,
	publisher Publisher,
) *ProgressService {
	return &ProgressService{
		Users:      users,
		Roadmaps:   roadmaps,
		Stages:     stages,
		Categories: categories,
		Lessons:    lessons,
		TaskSvc:    taskSvc,
		Txn:        txn,
		Publisher:  publisher,
	}
}

type CompletionResult struct {
	TaskGenerated bool
	Task          *models.Task
}

// CompleteLesson records a lesson completion after the three-tier
// prerequisite gate passes. When the completion finishes its category,
// task generation runs inside the same transaction: a generation
// failure rolls the completion back with it.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, lessonID string) (*CompletionResult, error) {
	lesson, err := s.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolled(lesson.RoadmapID) {
		return nil, apperror.Forbidden("user is not enrolled in this roadmap")
	}
	if user.HasCompleted(lessonID) {
		return nil, apperror.AlreadyCompleted("lesson already completed")
	}

	catalog, err := s.buildCatalog(ctx, lesson.RoadmapID)
	if err != nil {
		return nil, err
	}
	completed := user.CompletedSet()
	availability := catalog.Check(lessonID, completed)
	if !availability.Available {
		return nil, apperror.PrerequisiteNotMet(availability.Reason, apperror.Blocking{
			LessonID:   availability.BlockingLessonID,
			CategoryID: availability.BlockingCategoryID,
			StageID:    availability.BlockingStageID,
		})
	}

	completed[lessonID] = true
	categoryDone := progress.IsCategoryComplete(catalog.CategoryLessonIDs(lesson.CategoryID), completed)

	result := &CompletionResult{}
	err = s.Txn(ctx, func(ctx context.Context) error {
		if err := s.Users.AddCompletedLesson(ctx, userID, lessonID); err != nil {
			return err
		}
		if err := s.Lessons.AddCompletedBy(ctx, lessonID, userID); err != nil {
			return err
		}
		if !categoryDone {
			return nil
		}
		category, err := s.Categories.FindByID(ctx, lesson.CategoryID)
		if err != nil {
			return err
		}
		task, err := s.TaskSvc.Generate(ctx, userID, category)
		if err != nil {
			return err
		}
		result.TaskGenerated = true
		result.Task = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Publisher.Publish(event.LessonCompleted, map[string]interface{}{
		"user_id":   userID,
		"lesson_id": lessonID,
	})
	if result.TaskGenerated {
		s.Publisher.Publish(event.TaskGenerated, map[string]interface{}{
			"user_id":     userID,
			"task_id":     result.Task.ID,
			"category_id": lesson.CategoryID,
		})
	}
	return result, nil
}

// CheckLessonAvailability is the read-only variant of the gate, used
// by the UI to render locks.
func (s *ProgressService) CheckLessonAvailability(ctx context.Context, userID, lessonID string) (*progress.Availability, error) {
	lesson, err := s.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolled(lesson.RoadmapID) {
		return nil, apperror.Forbidden("user is not enrolled in this roadmap")
	}
	catalog, err := s.buildCatalog(ctx, lesson.RoadmapID)
	if err != nil {
		return nil, err
	}
	availability := catalog.Check(lessonID, user.CompletedSet())
	return &availability, nil
}

// EnrollRoadmap links a user and a roadmap in both directions. The
// progress document is provisioned lazily here: identities are minted
// by the auth service, so first enrollment is the first time this
// service sees a user.
func (s *ProgressService) EnrollRoadmap(ctx context.Context, userID, roadmapID string) error {
	roadmap, err := s.Roadmaps.FindByID(ctx, roadmapID)
	if err != nil {
		return err
	}
	user, err := s.Users.FindByID(ctx, userID)
	created := false
	if err != nil {
		if apperror.KindOf(err) != apperror.KindNotFound {
			return err
		}
		user = &models.User{ID: userID, CreatedAt: time.Now().UTC()}
		created = true
	}
	if user.IsEnrolled(roadmap.ID) {
		return apperror.Conflict("user is already enrolled in this roadmap")
	}

	err = s.Txn(ctx, func(ctx context.Context) error {
		if created {
			if err := s.Users.Create(ctx, user); err != nil {
				return err
			}
		}
		if err := s.Users.AddRoadmap(ctx, userID, roadmapID); err != nil {
			return err
		}
		return s.Roadmaps.AddEnrolledUser(ctx, roadmapID, userID)
	})
	if err != nil {
		return err
	}

	s.Publisher.Publish(event.RoadmapEnrolled, map[string]interface{}{
		"user_id":    userID,
		"roadmap_id": roadmapID,
	})
	return nil
}

// buildCatalog loads one roadmap's full hierarchy into the gating
// snapshot. The catalog collections are read-mostly; this is the only
// reader that needs the whole tree.
func (s *ProgressService) buildCatalog(ctx context.Context, roadmapID string) (*progress.Catalog, error) {
	stages, err := s.Stages.FindByRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	catalog := &progress.Catalog{RoadmapID: roadmapID}
	for _, stage := range stages {
		snapStage := progress.Stage{ID: stage.ID, Order: stage.Order}
		categories, err := s.Categories.FindByStage(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		for _, category := range categories {
			snapCategory := progress.Category{ID: category.ID, Order: category.Order}
			lessons, err := s.Lessons.FindByCategory(ctx, category.ID)
			if err != nil {
				return nil, err
			}
			for _, lesson := range lessons {
				snapCategory.Lessons = append(snapCategory.Lessons, progress.Lesson{
					ID:            lesson.ID,
					LectureNumber: lesson.LectureNumber,
				})
			}
			snapStage.Categories = append(snapStage.Categories, snapCategory)
		}
		catalog.Stages = append(catalog.Stages, snapStage)
	}
	catalog.Normalize()
	return catalog, nil
}
