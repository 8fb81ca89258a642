// Package grading scores a submission against a task's embedded
// answer key and carries the time-limit arithmetic. Everything here is
// pure; the stores never appear.
package grading

import (
	"math"
	"strings"

	"roadmap-service/internal/models"
)

type Score struct {
	CorrectAnswers  int
	TotalQuestions  int
	Points          int
	PercentageScore int
}

// normalizeSet trims each identifier and drops empties so stray
// whitespace or mixed representations cannot produce false negatives.
func normalizeSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = true
		}
	}
	return set
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// IsCorrect applies the question's answer semantics: single-answer
// questions need exactly one selected option inside the correct set;
// multi-answer questions need exact set equality. No partial credit.
func IsCorrect(question models.TaskQuestion, selected []string) bool {
	correctSet := normalizeSet(question.CorrectAnswers)
	selectedSet := normalizeSet(selected)

	if question.AllowMultipleAnswers {
		return len(correctSet) > 0 && setsEqual(correctSet, selectedSet)
	}
	if len(selectedSet) != 1 {
		return false
	}
	for id := range selectedSet {
		return correctSet[id]
	}
	return false
}

// Evaluate scores every question in the snapshot. Unanswered questions
// count as incorrect, never as an error.
func Evaluate(questions []models.TaskQuestion, answers []models.SubmissionAnswer) Score {
	byQuestion := make(map[string][]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.SelectedOptions
	}

	score := Score{TotalQuestions: len(questions)}
	for _, q := range questions {
		if IsCorrect(q, byQuestion[q.ID]) {
			score.CorrectAnswers++
			score.Points += q.Points
		}
	}
	if score.TotalQuestions > 0 {
		ratio := float64(score.CorrectAnswers) / float64(score.TotalQuestions)
		score.PercentageScore = int(math.Round(ratio * 100))
	}
	return score
}

// MergeAnswers folds incoming answers into the stored list: an answer
// for an already-answered question replaces it in place, new questions
// append.
func MergeAnswers(existing, incoming []models.SubmissionAnswer) []models.SubmissionAnswer {
	merged := make([]models.SubmissionAnswer, len(existing))
	copy(merged, existing)
	for _, in := range incoming {
		replaced := false
		for i := range merged {
			if merged[i].QuestionID == in.QuestionID {
				merged[i].SelectedOptions = in.SelectedOptions
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, in)
		}
	}
	return merged
}
