package service

import (
	"context"
	"fmt"
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/engine"
	"exam-service/internal/models"
	"exam-service/internal/selection"
)

// ExamService runs the ticket exam lifecycle: creation from a ticket
// snapshot, answer submission through the exam engine, results, sharing and
// ticket selection. All persistence goes through the versioned stores.
type ExamService struct {
	exams   ExamStore
	tickets TicketStore
	users   UserStore
	engine  *engine.ExamEngine
	sampler *selection.Sampler
	locks   *sessionLocks
	now     engine.Clock
}

func NewExamService(exams ExamStore, tickets TicketStore, users UserStore, sampler *selection.Sampler, clock engine.Clock) *ExamService {
	if sampler == nil {
		sampler = selection.NewSampler()
	}
	if clock == nil {
		clock = time.Now
	}
	source := &bankSource{tickets: tickets, sampler: sampler}
	return &ExamService{
		exams:   exams,
		tickets: tickets,
		users:   users,
		engine:  engine.NewExamEngine(engine.DefaultExamConfig(), source, clock),
		sampler: sampler,
		locks:   newSessionLocks(),
		now:     clock,
	}
}

// CreateExam starts a fresh exam for the given ticket.
func (s *ExamService) CreateExam(ctx context.Context, userID string, ticketNumber int) (*models.Exam, error) {
	ticket, err := s.tickets.FindByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}

	exam := s.engine.NewExam(userID, ticket)
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, apperr.Internal(err)
	}
	return exam, nil
}

// SubmitAnswer grades one slot of an exam and persists the outcome. On time
// expiry the failed exam is persisted before the error is surfaced, so a
// follow-up results read observes the terminal status.
func (s *ExamService) SubmitAnswer(ctx context.Context, examID string, slotIndex, answerIndex int) (*models.Exam, *engine.SubmitResult, error) {
	unlock := s.locks.Lock(examID)
	defer unlock()

	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByID(ctx, exam.UserID)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.engine.SubmitAnswer(ctx, exam, slotIndex, answerIndex)
	if err != nil {
		if apperr.Is(err, apperr.CodeTimeExpired) {
			if saveErr := s.exams.ReplaceVersioned(ctx, exam); saveErr != nil {
				return nil, nil, saveErr
			}
			s.recordCompletion(user, exam)
			if saveErr := s.users.Save(ctx, user); saveErr != nil {
				return nil, nil, saveErr
			}
		}
		return nil, nil, err
	}

	if err := s.exams.ReplaceVersioned(ctx, exam); err != nil {
		return nil, nil, err
	}

	if !res.IsCorrect {
		user.Stats.Mistakes++
	}
	if res.BecameTerminal {
		s.recordCompletion(user, exam)
	}
	if !res.IsCorrect || res.BecameTerminal {
		if err := s.users.Save(ctx, user); err != nil {
			return nil, nil, err
		}
	}

	return exam, res, nil
}

func (s *ExamService) recordCompletion(user *models.User, exam *models.Exam) {
	if exam.CompletedAt != nil {
		user.Stats.TotalTimeSpentSeconds += int(exam.CompletedAt.Sub(exam.StartTime).Seconds())
	}
	if exam.Status == models.StatusPassed {
		user.Stats.TicketsCompleted++
	}
}

// ExamStatistics summarizes a finished or running exam.
type ExamStatistics struct {
	TotalQuestions   int `json:"total_questions"`
	ExtraQuestions   int `json:"extra_questions"`
	CorrectAnswers   int `json:"correct_answers"`
	Mistakes         int `json:"mistakes"`
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

// ExamResults is the full review payload for an exam.
type ExamResults struct {
	ExamID          string                 `json:"exam_id"`
	UserID          string                 `json:"user_id"`
	TicketNumber    int                    `json:"ticket_number"`
	Status          string                 `json:"status"`
	StartTime       time.Time              `json:"start_time"`
	CompletedAt     *time.Time             `json:"completed_at"`
	Questions       []models.AnswerSlot    `json:"questions"`
	ExtraQuestions  []models.AnswerSlot    `json:"extra_questions"`
	MistakesDetails []models.MistakeDetail `json:"mistakes_details"`
	Statistics      ExamStatistics         `json:"statistics"`
}

// GetResults builds the review payload for an exam in any state.
func (s *ExamService) GetResults(ctx context.Context, examID string) (*ExamResults, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	elapsed := sessionDuration(exam.StartTime, exam.CompletedAt, s.now())
	return &ExamResults{
		ExamID:          exam.ID,
		UserID:          exam.UserID,
		TicketNumber:    exam.TicketNumber,
		Status:          exam.Status,
		StartTime:       exam.StartTime,
		CompletedAt:     exam.CompletedAt,
		Questions:       exam.Questions,
		ExtraQuestions:  exam.ExtraQuestions,
		MistakesDetails: exam.MistakesDetails,
		Statistics: ExamStatistics{
			TotalQuestions:   len(exam.Questions),
			ExtraQuestions:   len(exam.ExtraQuestions),
			CorrectAnswers:   exam.CorrectCount(),
			Mistakes:         exam.Mistakes,
			TimeSpentSeconds: int(elapsed.Seconds()),
		},
	}, nil
}

// ShareTemplate is what the bot renders when a user shares an exam result.
// Premium users get a rich result card, free users get referral text.
type ShareTemplate struct {
	Type         string         `json:"type"` // image | text
	Template     string         `json:"template"`
	Data         map[string]any `json:"data"`
	ReferralLink string         `json:"referral_link,omitempty"`
}

// GenerateShareTemplate builds the share payload for a finished exam.
func (s *ExamService) GenerateShareTemplate(ctx context.Context, examID string) (*ShareTemplate, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsTerminal() {
		return nil, apperr.InvalidState("exam is still in progress")
	}
	user, err := s.users.FindByID(ctx, exam.UserID)
	if err != nil {
		return nil, err
	}

	elapsed := sessionDuration(exam.StartTime, exam.CompletedAt, s.now())
	data := map[string]any{
		"ticket_number":   exam.TicketNumber,
		"status":          exam.Status,
		"mistakes":        exam.Mistakes,
		"correct_answers": exam.CorrectCount(),
		"time_spent":      formatTimeSpent(elapsed),
	}

	if user.IsPremium() {
		return &ShareTemplate{
			Type:     "image",
			Template: "exam_result_card",
			Data:     data,
		}, nil
	}
	return &ShareTemplate{
		Type:         "text",
		Template:     fmt.Sprintf("Ticket %d: %s with %d mistakes in %s", exam.TicketNumber, exam.Status, exam.Mistakes, formatTimeSpent(elapsed)),
		Data:         data,
		ReferralLink: "https://t.me/drive_theory_bot?start=ref_" + user.ID,
	}, nil
}

// LastExamInfo summarizes the most recent finished exam for the selection
// screen.
type LastExamInfo struct {
	ExamID       string `json:"exam_id"`
	TicketNumber int    `json:"ticket_number"`
	Status       string `json:"status"`
	Mistakes     int    `json:"mistakes"`
	TimeSpent    string `json:"time_spent"`
}

// TicketSelection is a randomly chosen ticket plus the user's last result.
type TicketSelection struct {
	TicketNumber int           `json:"ticket_number"`
	LastExam     *LastExamInfo `json:"last_exam,omitempty"`
}

// SelectTicket picks a random ticket number for the user and attaches the
// summary of their last finished exam, if any.
func (s *ExamService) SelectTicket(ctx context.Context, userID string) (*TicketSelection, error) {
	numbers, err := s.tickets.Numbers(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(numbers) == 0 {
		return nil, apperr.NotFound("no tickets available")
	}

	sel := &TicketSelection{TicketNumber: numbers[s.sampler.Intn(len(numbers))]}

	last, err := s.exams.FindLastTerminalByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		elapsed := sessionDuration(last.StartTime, last.CompletedAt, s.now())
		sel.LastExam = &LastExamInfo{
			ExamID:       last.ID,
			TicketNumber: last.TicketNumber,
			Status:       last.Status,
			Mistakes:     last.Mistakes,
			TimeSpent:    formatTimeSpent(elapsed),
		}
	}
	return sel, nil
}

// QuestionAnswer is one entry of the public answer key.
type QuestionAnswer struct {
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	CorrectIndex   int    `json:"correct_index"`
	CorrectOption  string `json:"correct_option"`
}

// TicketAnswers is the answer key of one ticket.
type TicketAnswers struct {
	TicketNumber int              `json:"ticket_number"`
	Answers      []QuestionAnswer `json:"answers"`
}

// AnswerKey lists the correct option of every question, grouped by ticket.
func (s *ExamService) AnswerKey(ctx context.Context) ([]TicketAnswers, error) {
	tickets, err := s.tickets.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]TicketAnswers, 0, len(tickets))
	for _, t := range tickets {
		ta := TicketAnswers{TicketNumber: t.Number, Answers: make([]QuestionAnswer, 0, len(t.Questions))}
		for i := range t.Questions {
			q := &t.Questions[i]
			ta.Answers = append(ta.Answers, QuestionAnswer{
				QuestionNumber: q.QuestionNumber,
				QuestionText:   q.Text,
				CorrectIndex:   q.CorrectIndex(),
				CorrectOption:  q.CorrectOptionText(),
			})
		}
		out = append(out, ta)
	}
	return out, nil
}
