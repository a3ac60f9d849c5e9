package engine

import (
	"context"
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/models"
)

// ExamConfig carries the exam rules. Defaults match the production rules:
// 20 minutes base time, 3 mistakes fail the exam, each of the first two
// mistakes injects 5 remediation questions and grants 5 extra minutes.
type ExamConfig struct {
	TimeLimit                time.Duration
	ExtraTimePerMistake      time.Duration
	MistakeLimit             int
	ExtraQuestionsPerMistake int
}

func DefaultExamConfig() ExamConfig {
	return ExamConfig{
		TimeLimit:                20 * time.Minute,
		ExtraTimePerMistake:      5 * time.Minute,
		MistakeLimit:             3,
		ExtraQuestionsPerMistake: 5,
	}
}

// QuestionSource supplies remediation questions. Both methods sample without
// replacement against the exclusion set.
type QuestionSource interface {
	// ByCategory returns up to n unused questions of the given category.
	ByCategory(ctx context.Context, category string, exclude map[string]struct{}, n int) ([]models.Question, error)
	// SampleExcluding returns up to n unused questions from any other category.
	SampleExcluding(ctx context.Context, category string, exclude map[string]struct{}, n int) ([]models.Question, error)
}

// ExamEngine applies the exam state machine to an Exam aggregate. It mutates
// the session in memory only; the caller persists.
type ExamEngine struct {
	cfg    ExamConfig
	source QuestionSource
	now    Clock
}

func NewExamEngine(cfg ExamConfig, source QuestionSource, now Clock) *ExamEngine {
	if now == nil {
		now = time.Now
	}
	return &ExamEngine{cfg: cfg, source: source, now: now}
}

// NewExam builds a fresh in_progress exam from a ticket snapshot.
func (e *ExamEngine) NewExam(userID string, ticket *models.Ticket) *models.Exam {
	slots := make([]models.AnswerSlot, len(ticket.Questions))
	for i, q := range ticket.Questions {
		slots[i] = models.AnswerSlot{Question: q}
	}
	return &models.Exam{
		UserID:           userID,
		TicketNumber:     ticket.Number,
		Questions:        slots,
		ExtraQuestions:   []models.AnswerSlot{},
		MistakesDetails:  []models.MistakeDetail{},
		Status:           models.StatusInProgress,
		StartTime:        e.now(),
		TimeLimitSeconds: int(e.cfg.TimeLimit.Seconds()),
	}
}

// SubmitResult reports what a submission did to the exam.
type SubmitResult struct {
	IsCorrect      bool
	CorrectIndex   int
	ExtrasAdded    int
	BecameTerminal bool
}

// SubmitAnswer grades one slot and advances the exam state machine.
//
// On time expiry the exam is flipped to failed in place and a time_expired
// error is returned; the caller must persist the mutated session before
// surfacing the error, so the next read observes the terminal status.
func (e *ExamEngine) SubmitAnswer(ctx context.Context, exam *models.Exam, slotIndex, answerIndex int) (*SubmitResult, error) {
	if exam.IsTerminal() {
		return nil, apperr.InvalidState("exam is already %s", exam.Status)
	}

	now := e.now()
	allowed := time.Duration(exam.TimeLimitSeconds+exam.ExtraTimeSeconds) * time.Second
	if now.Sub(exam.StartTime) > allowed {
		exam.Status = models.StatusFailed
		completed := now
		exam.CompletedAt = &completed
		return nil, apperr.TimeExpired("exam time has expired")
	}

	slot, correctIndex, err := gradeSlot(exam, slotIndex, answerIndex)
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{
		IsCorrect:    recordAnswer(slot, answerIndex, correctIndex),
		CorrectIndex: correctIndex,
	}

	if !res.IsCorrect {
		exam.Mistakes++
		exam.MistakesDetails = append(exam.MistakesDetails, mistakeDetail(&slot.Question, answerIndex, correctIndex))

		if exam.Mistakes >= e.cfg.MistakeLimit {
			exam.Status = models.StatusFailed
			completed := now
			exam.CompletedAt = &completed
			res.BecameTerminal = true
			return res, nil
		}

		added, err := e.addExtraQuestions(ctx, exam, slot.Question.Category)
		if err != nil {
			return nil, err
		}
		res.ExtrasAdded = added
	}

	if exam.AllAnswered() {
		if exam.Mistakes < e.cfg.MistakeLimit {
			exam.Status = models.StatusPassed
		} else {
			exam.Status = models.StatusFailed
		}
		completed := now
		exam.CompletedAt = &completed
		res.BecameTerminal = true
	}

	return res, nil
}

// addExtraQuestions appends one remediation batch: same-category questions
// first, a uniform cross-category sample for the remainder. The extra-time
// grant is per mistake, even when the pool runs short.
func (e *ExamEngine) addExtraQuestions(ctx context.Context, exam *models.Exam, category string) (int, error) {
	n := e.cfg.ExtraQuestionsPerMistake
	exclude := exam.UsedQuestionIDs()

	picked, err := e.source.ByCategory(ctx, category, exclude, n)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	if len(picked) < n {
		for _, q := range picked {
			exclude[q.ID] = struct{}{}
		}
		filler, err := e.source.SampleExcluding(ctx, category, exclude, n-len(picked))
		if err != nil {
			return 0, apperr.Internal(err)
		}
		picked = append(picked, filler...)
	}

	for _, q := range picked {
		exam.ExtraQuestions = append(exam.ExtraQuestions, models.AnswerSlot{Question: q})
	}
	exam.ExtraTimeSeconds += int(e.cfg.ExtraTimePerMistake.Seconds())
	return len(picked), nil
}
