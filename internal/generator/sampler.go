// Package generator builds task question snapshots from a category's
// question pools: uniform sampling without replacement, option-id
// remapping, and point totals.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoActivePool          = errors.New("no active question pool for category")
	ErrInsufficientQuestions = errors.New("not enough multiple-choice questions")
)

type Result struct {
	Questions     []models.TaskQuestion
	TotalPoints   int
	SourcePoolIDs []string
}

type candidate struct {
	question models.PoolQuestion
	poolID   string
}

// Build samples exactly count distinct multiple-choice questions from
// the active pools (shuffle then slice) and snapshots them with fresh
// option ids. rng may be nil; tests inject a seeded source.
func Build(pools []models.QuestionPool, count int, rng *rand.Rand) (*Result, error) {
	var candidates []candidate
	activePools := 0
	for _, pool := range pools {
		if !pool.IsActive {
			continue
		}
		activePools++
		for _, q := range pool.Questions {
			if q.Type != models.QuestionTypeMultipleChoice {
				continue
			}
			candidates = append(candidates, candidate{question: q, poolID: pool.ID})
		}
	}
	if activePools == 0 {
		return nil, ErrNoActivePool
	}
	if len(candidates) < count {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientQuestions, count, len(candidates))
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	result := &Result{Questions: make([]models.TaskQuestion, 0, count)}
	seenPools := make(map[string]bool)
	for _, c := range candidates[:count] {
		snapshot := snapshotQuestion(c.question)
		result.Questions = append(result.Questions, snapshot)
		result.TotalPoints += snapshot.Points
		if !seenPools[c.poolID] {
			seenPools[c.poolID] = true
			result.SourcePoolIDs = append(result.SourcePoolIDs, c.poolID)
		}
	}
	return result, nil
}

// snapshotQuestion copies a pool question into a task-local form. The
// correct-answer ids are remapped to the copied options so the task is
// self-contained from the moment it exists.
func snapshotQuestion(q models.PoolQuestion) models.TaskQuestion {
	idMap := make(map[string]string, len(q.Options))
	options := make([]models.Option, 0, len(q.Options))
	for _, opt := range q.Options {
		newID := primitive.NewObjectID().Hex()
		idMap[opt.ID] = newID
		options = append(options, models.Option{ID: newID, Text: opt.Text})
	}

	correct := make([]string, 0, len(q.CorrectAnswers))
	for _, id := range q.CorrectAnswers {
		if mapped, ok := idMap[id]; ok {
			correct = append(correct, mapped)
		}
	}

	return models.TaskQuestion{
		ID:                   primitive.NewObjectID().Hex(),
		Content:              q.Content,
		Type:                 q.Type,
		Options:              options,
		CorrectAnswers:       correct,
		AllowMultipleAnswers: q.AllowMultipleAnswers,
		Points:               q.PointValue(),
	}
}
