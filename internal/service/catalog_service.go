package service

import (
	"context"
)

// CatalogService orchestrates the category cascade explicitly rather
// than through data-layer hooks, so the deletion order and its
// atomicity live in one place.
type CatalogService struct {
	Categories CategoryStore
	Lessons    LessonStore
	Pools      PoolStore
	Stages     StageStore
	Users      UserStore
	Txn        TxnFunc
}

func NewCatalogService(categories CategoryStore, lessons LessonStore, pools PoolStore, stages StageStore, users UserStore, txn TxnFunc) *CatalogService {
	return &CatalogService{
		Categories: categories,
		Lessons:    lessons,
		Pools:      pools,
		Stages:     stages,
		Users:      users,
		Txn:        txn,
	}
}

// DeleteCategory removes a category with its lessons and pools, drops
// the stage reference, and scrubs the deleted lesson ids from user
// progress so no dangling references survive the cascade.
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	category, err := s.Categories.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	lessons, err := s.Lessons.FindByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	lessonIDs := make([]string, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	return s.Txn(ctx, func(ctx context.Context) error {
		if err := s.Lessons.DeleteByCategory(ctx, categoryID); err != nil {
			return err
		}
		if err := s.Pools.DeleteByCategory(ctx, categoryID); err != nil {
			return err
		}
		if err := s.Stages.RemoveCategory(ctx, category.StageID, categoryID); err != nil {
			return err
		}
		if err := s.Users.PullCompletedLessons(ctx, lessonIDs); err != nil {
			return err
		}
		return s.Categories.Delete(ctx, categoryID)
	})
}
