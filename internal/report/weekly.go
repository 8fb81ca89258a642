// Package report runs the scheduled submission digest.
package report

import (
	"context"
	"log"
	"time"

	"roadmap-service/internal/models"

	"github.com/robfig/cron/v3"
)

type SubmissionSource interface {
	FindGradedSince(ctx context.Context, since time.Time) ([]models.Submission, error)
}

type Publisher interface {
	Publish(eventType string, payload interface{})
}

// UserSummary is one user's row in the weekly digest.
type UserSummary struct {
	UserID            string `json:"user_id"`
	QuizzesGraded     int    `json:"quizzes_graded"`
	AverageScore      int    `json:"average_score"`
	AveragePercentage int    `json:"average_percentage"`
}

type Weekly struct {
	Submissions SubmissionSource
	Publisher   Publisher
	EventType   string
}

func NewWeekly(submissions SubmissionSource, publisher Publisher, eventType string) *Weekly {
	return &Weekly{
		Submissions: submissions,
		Publisher:   publisher,
		EventType:   eventType,
	}
}

// Start schedules Run on the given cron expression, interpreted in
// UTC, and returns the scheduler so the caller can stop it on
// shutdown.
func (w *Weekly) Start(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		w.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("Weekly report scheduled: %s", schedule)
	return c, nil
}

// Run aggregates the last seven days of graded submissions and
// publishes one digest event per user; the notification service fans
// them out.
func (w *Weekly) Run(ctx context.Context) {
	since := time.Now().UTC().AddDate(0, 0, -7)
	submissions, err := w.Submissions.FindGradedSince(ctx, since)
	if err != nil {
		log.Printf("weekly report query failed: %s", err)
		return
	}

	summaries := Summarize(submissions)
	for _, summary := range summaries {
		w.Publisher.Publish(w.EventType, map[string]interface{}{
			"since":              since,
			"generated":          time.Now().UTC(),
			"user_id":            summary.UserID,
			"quizzes_graded":     summary.QuizzesGraded,
			"average_score":      summary.AverageScore,
			"average_percentage": summary.AveragePercentage,
		})
	}
	log.Printf("Weekly report published: %d users, %d submissions", len(summaries), len(submissions))
}

// Summarize folds graded submissions into per-user rows. Expired
// attempts are excluded; they carry no grade.
func Summarize(submissions []models.Submission) []UserSummary {
	order := []string{}
	totals := map[string]*UserSummary{}
	scoreSum := map[string]int{}
	percentSum := map[string]int{}

	for _, s := range submissions {
		if s.Status != models.SubmissionStatusGraded {
			continue
		}
		row, ok := totals[s.UserID]
		if !ok {
			row = &UserSummary{UserID: s.UserID}
			totals[s.UserID] = row
			order = append(order, s.UserID)
		}
		row.QuizzesGraded++
		scoreSum[s.UserID] += s.Score
		percentSum[s.UserID] += s.PercentageScore
	}

	summaries := make([]UserSummary, 0, len(order))
	for _, userID := range order {
		row := totals[userID]
		row.AverageScore = scoreSum[userID] / row.QuizzesGraded
		row.AveragePercentage = percentSum[userID] / row.QuizzesGraded
		summaries = append(summaries, *row)
	}
	return summaries
}
