package service

import (
	"context"
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/engine"
	"exam-service/internal/models"
	"exam-service/internal/selection"
)

const defaultPracticeCount = 5

// PracticeService hands out small ungraded question sets and grades answers
// against the stored snapshot. Answers feed the user's per-ticket progress.
type PracticeService struct {
	sessions PracticeStore
	tickets  TicketStore
	users    UserStore
	sampler  *selection.Sampler
	now      engine.Clock
}

func NewPracticeService(sessions PracticeStore, tickets TicketStore, users UserStore, sampler *selection.Sampler, clock engine.Clock) *PracticeService {
	if sampler == nil {
		sampler = selection.NewSampler()
	}
	if clock == nil {
		clock = time.Now
	}
	return &PracticeService{
		sessions: sessions,
		tickets:  tickets,
		users:    users,
		sampler:  sampler,
		now:      clock,
	}
}

// Create samples a practice session. Category narrows the pool when set;
// count defaults to 5.
func (s *PracticeService) Create(ctx context.Context, userID, category string, count int) (*models.RandomQuestionSession, error) {
	if count <= 0 {
		count = defaultPracticeCount
	}

	all, err := s.tickets.AllPracticeQuestions(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	picked := s.pick(all, category, count)
	if len(picked) == 0 {
		return nil, apperr.NotFound("no questions available for category %q", category)
	}

	session := &models.RandomQuestionSession{
		UserID:    userID,
		Questions: picked,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperr.Internal(err)
	}
	return session, nil
}

// pick samples up to n practice questions without replacement, deduplicating
// repeated question texts across tickets.
func (s *PracticeService) pick(all []models.PracticeQuestion, category string, n int) []models.PracticeQuestion {
	seenTexts := make(map[string]struct{})
	candidates := make([]models.PracticeQuestion, 0)
	for i := range all {
		q := &all[i]
		if category != "" && q.Category != category {
			continue
		}
		if _, seen := seenTexts[q.Text]; seen {
			continue
		}
		seenTexts[q.Text] = struct{}{}
		candidates = append(candidates, *q)
	}

	if len(candidates) <= n {
		return candidates
	}
	for i := 0; i < n; i++ {
		j := i + s.sampler.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n]
}

// PracticeResult is the graded feedback for one practice answer.
type PracticeResult struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectOption string `json:"correct_option"`
	Hint          string `json:"hint,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	VideoURL      string `json:"video_url,omitempty"`
}

// SubmitAnswer grades one question of a session against its stored snapshot
// and records the answer in the user's progress for the question's ticket.
func (s *PracticeService) SubmitAnswer(ctx context.Context, sessionID, questionID string, answerIndex int) (*PracticeResult, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	q, ok := session.FindQuestion(questionID)
	if !ok {
		return nil, apperr.NotFound("question %s is not part of session %s", questionID, sessionID)
	}
	if answerIndex < 0 || answerIndex >= len(q.Options) {
		return nil, apperr.InvalidState("answer index %d is out of range", answerIndex)
	}
	correctIndex := q.CorrectIndex()
	isCorrect := correctIndex >= 0 && answerIndex == correctIndex

	if err := s.recordProgress(ctx, session.UserID, q, answerIndex, isCorrect); err != nil {
		return nil, err
	}

	return &PracticeResult{
		QuestionID:    q.ID,
		IsCorrect:     isCorrect,
		CorrectOption: q.CorrectOptionText(),
		Hint:          q.Hint,
		ImageURL:      q.ImageURL,
		VideoURL:      q.VideoURL,
	}, nil
}

func (s *PracticeService) recordProgress(ctx context.Context, userID string, q *models.PracticeQuestion, answerIndex int, isCorrect bool) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ticket, err := s.tickets.FindByNumber(ctx, q.TicketNumber)
	if err != nil {
		return err
	}

	now := s.now()
	progress := user.TicketProgressFor(q.TicketNumber, len(ticket.Questions), now)
	progress.AnsweredQuestions = append(progress.AnsweredQuestions, models.AnsweredQuestion{
		QuestionID:     q.ID,
		SelectedOption: q.Options[answerIndex].Text,
		IsCorrect:      isCorrect,
		Hint:           q.Hint,
		ImageURL:       q.ImageURL,
	})

	if isCorrect {
		progress.CorrectAnswers++
		if !progress.IsCompleted && progress.CorrectAnswers >= progress.TotalQuestions && progress.TotalQuestions > 0 {
			progress.IsCompleted = true
			completed := now
			progress.CompletedAt = &completed
		}
	} else {
		progress.Mistakes++
		user.Stats.Mistakes++
		progress.MistakesDetails = append(progress.MistakesDetails, models.MistakeDetail{
			QuestionID:     q.ID,
			QuestionText:   q.Text,
			SelectedOption: q.Options[answerIndex].Text,
			CorrectOption:  q.CorrectOptionText(),
			Hint:           q.Hint,
			ImageURL:       q.ImageURL,
		})
	}

	return s.users.Save(ctx, user)
}
