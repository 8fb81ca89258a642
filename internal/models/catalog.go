package models

import "time"

// Roadmap is the top-level learning path. Stage/category/lesson ids are
// stored as ordered reference arrays, mirrored by the explicit order
// fields on the child documents.
type Roadmap struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"`
	StageIDs      []string  `bson:"stages" json:"stages"`
	EnrolledUsers []string  `bson:"enrolled_users" json:"enrolled_users"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

type Stage struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	RoadmapID   string   `bson:"roadmap_id" json:"roadmap_id"`
	Title       string   `bson:"title" json:"title"`
	Order       int      `bson:"order" json:"order"`
	CategoryIDs []string `bson:"categories" json:"categories"`
}

type Category struct {
	ID        string   `bson:"_id,omitempty" json:"id"`
	StageID   string   `bson:"stage_id" json:"stage_id"`
	RoadmapID string   `bson:"roadmap_id" json:"roadmap_id"`
	Title     string   `bson:"title" json:"title"`
	Order     int      `bson:"order" json:"order"`
	LessonIDs []string `bson:"lessons" json:"lessons"`
	PoolIDs   []string `bson:"question_pools" json:"question_pools"`
	TaskIDs   []string `bson:"tasks" json:"tasks"`

	// Questions sampled per generated task. Zero means the default.
	QuizQuestionCount int `bson:"quiz_question_count" json:"quiz_question_count"`
}

const DefaultQuizQuestionCount = 10

func (c *Category) QuestionCount() int {
	if c.QuizQuestionCount <= 0 {
		return DefaultQuizQuestionCount
	}
	return c.QuizQuestionCount
}

type Lesson struct {
	ID            string   `bson:"_id,omitempty" json:"id"`
	CategoryID    string   `bson:"category_id" json:"category_id"`
	StageID       string   `bson:"stage_id" json:"stage_id"`
	RoadmapID     string   `bson:"roadmap_id" json:"roadmap_id"`
	Title         string   `bson:"title" json:"title"`
	Content       string   `bson:"content" json:"content"`
	LectureNumber int      `bson:"lecture_number" json:"lecture_number"`
	CompletedBy   []string `bson:"completed_by" json:"completed_by"`
}
