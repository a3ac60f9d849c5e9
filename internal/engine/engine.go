// Package engine holds the session state machines. Everything here is pure:
// persistence, clocks and question sampling are injected, so the rules are
// unit-testable without a database.
package engine

import (
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/models"
)

// Clock supplies the current time. Tests pin it.
type Clock func() time.Time

// Gradable is the capability shared by exam and marathon sessions: indexed
// answer slots plus a terminal flag. Grading bookkeeping lives here once
// instead of per session type.
type Gradable interface {
	Slot(i int) (*models.AnswerSlot, bool)
	IsTerminal() bool
}

// gradeSlot validates a (slot, answer) pair and resolves the correct option
// index. It never mutates: callers record the answer only after every check
// has passed.
func gradeSlot(g Gradable, slotIndex, answerIndex int) (*models.AnswerSlot, int, error) {
	if g.IsTerminal() {
		return nil, 0, apperr.InvalidState("session is already completed")
	}
	slot, ok := g.Slot(slotIndex)
	if !ok {
		return nil, 0, apperr.InvalidState("question index %d is out of range", slotIndex)
	}
	if slot.Answered() {
		return nil, 0, apperr.InvalidState("question %d has already been answered", slotIndex)
	}
	if answerIndex < 0 || answerIndex >= len(slot.Question.Options) {
		return nil, 0, apperr.InvalidState("answer index %d is out of range (question has %d options)", answerIndex, len(slot.Question.Options))
	}
	correct := slot.Question.CorrectIndex()
	if correct < 0 {
		return nil, 0, apperr.InvalidState("question %s has no correct option", slot.Question.ID)
	}
	return slot, correct, nil
}

// recordAnswer writes the answer into the slot and returns its correctness.
func recordAnswer(slot *models.AnswerSlot, answerIndex, correctIndex int) bool {
	answer := answerIndex
	isCorrect := answerIndex == correctIndex
	slot.UserAnswer = &answer
	slot.IsCorrect = &isCorrect
	return isCorrect
}

func mistakeDetail(q *models.Question, answerIndex, correctIndex int) models.MistakeDetail {
	return models.MistakeDetail{
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		SelectedOption: q.Options[answerIndex].Text,
		CorrectOption:  q.Options[correctIndex].Text,
		Hint:           q.Hint,
		ImageURL:       q.ImageURL,
	}
}
