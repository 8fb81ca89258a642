// Package progress implements the prerequisite gate: lessons unlock
// strictly in stage order, then category order within the stage, then
// lecture order within the category.
package progress

import "sort"

type Lesson struct {
	ID            string
	LectureNumber int
}

type Category struct {
	ID      string
	Order   int
	Lessons []Lesson
}

type Stage struct {
	ID         string
	Order      int
	Categories []Category
}

// Catalog is an in-memory snapshot of one roadmap's hierarchy, built
// by the caller from the catalog store.
type Catalog struct {
	RoadmapID string
	Stages    []Stage
}

const (
	ReasonStageLocked    = "previous stage not completed"
	ReasonCategoryLocked = "previous category not completed"
	ReasonLessonLocked   = "previous lesson not completed"
	ReasonUnknownLesson  = "lesson not in roadmap"
)

// Availability reports whether a lesson is unlocked and, when it is
// not, the entity blocking it.
type Availability struct {
	Available          bool
	Reason             string
	BlockingLessonID   string
	BlockingCategoryID string
	BlockingStageID    string
}

func available() Availability {
	return Availability{Available: true}
}

// Normalize sorts stages, categories, and lessons by their order
// fields so the positional checks below are well defined regardless of
// load order.
func (c *Catalog) Normalize() {
	sort.SliceStable(c.Stages, func(i, j int) bool {
		return c.Stages[i].Order < c.Stages[j].Order
	})
	for si := range c.Stages {
		stage := &c.Stages[si]
		sort.SliceStable(stage.Categories, func(i, j int) bool {
			return stage.Categories[i].Order < stage.Categories[j].Order
		})
		for ci := range stage.Categories {
			category := &stage.Categories[ci]
			sort.SliceStable(category.Lessons, func(i, j int) bool {
				return category.Lessons[i].LectureNumber < category.Lessons[j].LectureNumber
			})
		}
	}
}

type position struct {
	stage    int
	category int
	lesson   int
}

func (c *Catalog) locate(lessonID string) (position, bool) {
	for si, stage := range c.Stages {
		for ci, category := range stage.Categories {
			for li, lesson := range category.Lessons {
				if lesson.ID == lessonID {
					return position{stage: si, category: ci, lesson: li}, true
				}
			}
		}
	}
	return position{}, false
}

// Check evaluates the three-tier gate for one lesson against the
// user's completed set. Already-completed lessons are always
// available. No state is read outside the snapshot.
func (c *Catalog) Check(lessonID string, completed map[string]bool) Availability {
	pos, ok := c.locate(lessonID)
	if !ok {
		return Availability{Available: false, Reason: ReasonUnknownLesson}
	}
	if completed[lessonID] {
		return available()
	}

	// Stage level: every lesson in every earlier stage.
	for si := 0; si < pos.stage; si++ {
		stage := c.Stages[si]
		for _, category := range stage.Categories {
			for _, lesson := range category.Lessons {
				if !completed[lesson.ID] {
					return Availability{
						Available:          false,
						Reason:             ReasonStageLocked,
						BlockingLessonID:   lesson.ID,
						BlockingCategoryID: category.ID,
						BlockingStageID:    stage.ID,
					}
				}
			}
		}
	}

	// Category level: every lesson in every earlier category of the
	// same stage.
	stage := c.Stages[pos.stage]
	for ci := 0; ci < pos.category; ci++ {
		category := stage.Categories[ci]
		for _, lesson := range category.Lessons {
			if !completed[lesson.ID] {
				return Availability{
					Available:          false,
					Reason:             ReasonCategoryLocked,
					BlockingLessonID:   lesson.ID,
					BlockingCategoryID: category.ID,
					BlockingStageID:    stage.ID,
				}
			}
		}
	}

	// Lesson level: only the immediately preceding lecture matters.
	category := stage.Categories[pos.category]
	if pos.lesson > 0 {
		prev := category.Lessons[pos.lesson-1]
		if !completed[prev.ID] {
			return Availability{
				Available:          false,
				Reason:             ReasonLessonLocked,
				BlockingLessonID:   prev.ID,
				BlockingCategoryID: category.ID,
				BlockingStageID:    stage.ID,
			}
		}
	}

	return available()
}

// CategoryLessonIDs lists the lesson ids of one category in the
// snapshot, or nil if the category is unknown.
func (c *Catalog) CategoryLessonIDs(categoryID string) []string {
	for _, stage := range c.Stages {
		for _, category := range stage.Categories {
			if category.ID != categoryID {
				continue
			}
			ids := make([]string, 0, len(category.Lessons))
			for _, lesson := range category.Lessons {
				ids = append(ids, lesson.ID)
			}
			return ids
		}
	}
	return nil
}

// IsCategoryComplete reports whether every lesson id is in the
// completed set. Membership comparison, not counting, so double
// completions cannot skew it.
func IsCategoryComplete(lessonIDs []string, completed map[string]bool) bool {
	if len(lessonIDs) == 0 {
		return false
	}
	for _, id := range lessonIDs {
		if !completed[id] {
			return false
		}
	}
	return true
}
