package models

import "time"

type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeCode           QuestionType = "code"
)

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// PoolQuestion is an authored question embedded in its pool. Only
// multiple-choice questions participate in task generation.
type PoolQuestion struct {
	ID                   string       `bson:"id" json:"id"`
	Content              string       `bson:"content" json:"content"`
	Type                 QuestionType `bson:"type" json:"type"`
	Options              []Option     `bson:"options" json:"options"`
	CorrectAnswers       []string     `bson:"correct_answers" json:"correct_answers"`
	AllowMultipleAnswers bool         `bson:"allow_multiple_answers" json:"allow_multiple_answers"`
	Points               int          `bson:"points" json:"points"`
}

const DefaultQuestionPoints = 1

func (q *PoolQuestion) PointValue() int {
	if q.Points <= 0 {
		return DefaultQuestionPoints
	}
	return q.Points
}

type QuestionPool struct {
	ID              string         `bson:"_id,omitempty" json:"id"`
	CategoryID      string         `bson:"category_id" json:"category_id"`
	Title           string         `bson:"title" json:"title"`
	IsActive        bool           `bson:"is_active" json:"is_active"`
	DifficultyLevel string         `bson:"difficulty_level" json:"difficulty_level"`
	Questions       []PoolQuestion `bson:"questions" json:"questions"`
	TaskIDs         []string       `bson:"tasks" json:"tasks"`
	CreatedAt       time.Time      `bson:"created_at" json:"created_at"`
}
