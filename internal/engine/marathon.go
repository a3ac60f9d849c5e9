package engine

import (
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/models"
)

// MarathonEngine applies the marathon rules: no time limit, no failure path,
// no remediation. The question universe is fixed at creation and the session
// completes exactly when every slot is answered.
type MarathonEngine struct {
	now Clock
}

func NewMarathonEngine(now Clock) *MarathonEngine {
	if now == nil {
		now = time.Now
	}
	return &MarathonEngine{now: now}
}

// NewMarathon snapshots the full question universe into a fresh session.
func (e *MarathonEngine) NewMarathon(userID string, questions []models.Question) *models.MarathonExam {
	slots := make([]models.AnswerSlot, len(questions))
	for i, q := range questions {
		slots[i] = models.AnswerSlot{Question: q}
	}
	return &models.MarathonExam{
		UserID:            userID,
		Questions:         slots,
		MistakesDetails:   []models.MistakeDetail{},
		AnsweredQuestions: []models.AnsweredQuestion{},
		Status:            models.StatusInProgress,
		StartTime:         e.now(),
	}
}

type MarathonSubmitResult struct {
	IsCorrect bool
	Completed bool
}

// SubmitAnswer grades one slot. Completed-question count advances on every
// valid submission regardless of correctness.
func (e *MarathonEngine) SubmitAnswer(m *models.MarathonExam, slotIndex, answerIndex int) (*MarathonSubmitResult, error) {
	if m.IsTerminal() {
		return nil, apperr.InvalidState("marathon is already %s", m.Status)
	}

	slot, correctIndex, err := gradeSlot(m, slotIndex, answerIndex)
	if err != nil {
		return nil, err
	}

	res := &MarathonSubmitResult{IsCorrect: recordAnswer(slot, answerIndex, correctIndex)}

	m.AnsweredQuestions = append(m.AnsweredQuestions, models.AnsweredQuestion{
		QuestionID:     slot.Question.ID,
		SelectedOption: slot.Question.Options[answerIndex].Text,
		IsCorrect:      res.IsCorrect,
		Hint:           slot.Question.Hint,
		ImageURL:       slot.Question.ImageURL,
	})

	if !res.IsCorrect {
		m.Mistakes++
		m.MistakesDetails = append(m.MistakesDetails, mistakeDetail(&slot.Question, answerIndex, correctIndex))
	}

	m.CompletedQuestions++
	if m.CompletedQuestions >= len(m.Questions) {
		m.Status = models.StatusCompleted
		completed := e.now()
		m.CompletedAt = &completed
		res.Completed = true
	}

	return res, nil
}

// SlotIndexOfUnanswered maps an index into the unanswered subsequence back to
// the slot's position in the full snapshot.
func (e *MarathonEngine) SlotIndexOfUnanswered(m *models.MarathonExam, unansweredIndex int) (int, error) {
	if unansweredIndex < 0 {
		return 0, apperr.InvalidState("question index %d is out of range", unansweredIndex)
	}
	seen := 0
	for i := range m.Questions {
		if m.Questions[i].Answered() {
			continue
		}
		if seen == unansweredIndex {
			return i, nil
		}
		seen++
	}
	return 0, apperr.InvalidState("question index %d is out of range (unanswered: %d)", unansweredIndex, seen)
}
