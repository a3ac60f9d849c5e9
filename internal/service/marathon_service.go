package service

import (
	"context"
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/engine"
	"exam-service/internal/models"
	"exam-service/internal/selection"
)

// marathonUniverseSize caps the marathon snapshot. The full bank is larger;
// a fixed-size uniform sample keeps the session document bounded.
const marathonUniverseSize = 800

// MarathonService runs the marathon lifecycle. Creation is idempotent per
// user: at most one in_progress marathon exists, and a create request while
// one is running returns the running session.
type MarathonService struct {
	marathons MarathonStore
	tickets   TicketStore
	users     UserStore
	engine    *engine.MarathonEngine
	sampler   *selection.Sampler
	locks     *sessionLocks
	now       engine.Clock
}

func NewMarathonService(marathons MarathonStore, tickets TicketStore, users UserStore, sampler *selection.Sampler, clock engine.Clock) *MarathonService {
	if sampler == nil {
		sampler = selection.NewSampler()
	}
	if clock == nil {
		clock = time.Now
	}
	return &MarathonService{
		marathons: marathons,
		tickets:   tickets,
		users:     users,
		engine:    engine.NewMarathonEngine(clock),
		sampler:   sampler,
		locks:     newSessionLocks(),
		now:       clock,
	}
}

// CreateMarathon returns the user's running marathon, or snapshots a fresh
// one when none is in progress. The second return reports whether a new
// session was created.
func (s *MarathonService) CreateMarathon(ctx context.Context, userID string) (*models.MarathonExam, bool, error) {
	existing, err := s.marathons.FindInProgressByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	all, err := s.tickets.AllQuestions(ctx)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	questions := s.sampler.Any(all, nil, marathonUniverseSize)
	if len(questions) == 0 {
		return nil, false, apperr.NotFound("question bank is empty")
	}

	marathon := s.engine.NewMarathon(userID, questions)
	if err := s.marathons.Create(ctx, marathon); err != nil {
		return nil, false, apperr.Internal(err)
	}
	return marathon, true, nil
}

// SubmitAnswer grades one marathon slot by its position in the snapshot.
func (s *MarathonService) SubmitAnswer(ctx context.Context, marathonID string, slotIndex, answerIndex int) (*models.MarathonExam, *engine.MarathonSubmitResult, error) {
	unlock := s.locks.Lock(marathonID)
	defer unlock()

	marathon, err := s.marathons.FindByID(ctx, marathonID)
	if err != nil {
		return nil, nil, err
	}
	return s.submitLocked(ctx, marathon, slotIndex, answerIndex)
}

// SubmitUnansweredAnswer grades a slot addressed by its index within the
// unanswered subsequence, the way the review screen counts questions.
func (s *MarathonService) SubmitUnansweredAnswer(ctx context.Context, marathonID string, unansweredIndex, answerIndex int) (*models.MarathonExam, *engine.MarathonSubmitResult, error) {
	unlock := s.locks.Lock(marathonID)
	defer unlock()

	marathon, err := s.marathons.FindByID(ctx, marathonID)
	if err != nil {
		return nil, nil, err
	}
	slotIndex, err := s.engine.SlotIndexOfUnanswered(marathon, unansweredIndex)
	if err != nil {
		return nil, nil, err
	}
	return s.submitLocked(ctx, marathon, slotIndex, answerIndex)
}

func (s *MarathonService) submitLocked(ctx context.Context, marathon *models.MarathonExam, slotIndex, answerIndex int) (*models.MarathonExam, *engine.MarathonSubmitResult, error) {
	user, err := s.users.FindByID(ctx, marathon.UserID)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.engine.SubmitAnswer(marathon, slotIndex, answerIndex)
	if err != nil {
		return nil, nil, err
	}

	if err := s.marathons.ReplaceVersioned(ctx, marathon); err != nil {
		return nil, nil, err
	}

	if !res.IsCorrect {
		user.Stats.Mistakes++
	}
	if res.Completed && marathon.CompletedAt != nil {
		user.Stats.TotalTimeSpentSeconds += int(marathon.CompletedAt.Sub(marathon.StartTime).Seconds())
	}
	if !res.IsCorrect || res.Completed {
		if err := s.users.Save(ctx, user); err != nil {
			return nil, nil, err
		}
	}

	return marathon, res, nil
}

// UnansweredQuestions returns the still-unanswered slots of a marathon in
// snapshot order.
func (s *MarathonService) UnansweredQuestions(ctx context.Context, marathonID string) ([]models.AnswerSlot, error) {
	marathon, err := s.marathons.FindByID(ctx, marathonID)
	if err != nil {
		return nil, err
	}
	slots := marathon.UnansweredSlots()
	if slots == nil {
		slots = []models.AnswerSlot{}
	}
	return slots, nil
}

// MarathonProgress is the dashboard view of the user's marathon. Status is
// not_started with zero counters when the user has never started one.
type MarathonProgress struct {
	MarathonID         string  `json:"marathon_id,omitempty"`
	Status             string  `json:"status"`
	TotalQuestions     int     `json:"total_questions"`
	CompletedQuestions int     `json:"completed_questions"`
	CorrectAnswers     int     `json:"correct_answers"`
	Mistakes           int     `json:"mistakes"`
	ProgressPercent    float64 `json:"progress_percent"`
	TimeSpent          string  `json:"time_spent"`
}

// Progress reports the state of the user's current marathon.
func (s *MarathonService) Progress(ctx context.Context, userID string) (*MarathonProgress, error) {
	marathon, err := s.marathons.FindInProgressByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if marathon == nil {
		return &MarathonProgress{
			Status:         "not_started",
			TotalQuestions: marathonUniverseSize,
			TimeSpent:      formatTimeSpent(0),
		}, nil
	}

	total := len(marathon.Questions)
	percent := 0.0
	if total > 0 {
		percent = float64(marathon.CompletedQuestions) / float64(total) * 100
	}
	return &MarathonProgress{
		MarathonID:         marathon.ID,
		Status:             marathon.Status,
		TotalQuestions:     total,
		CompletedQuestions: marathon.CompletedQuestions,
		CorrectAnswers:     marathon.CorrectCount(),
		Mistakes:           marathon.Mistakes,
		ProgressPercent:    percent,
		TimeSpent:          formatTimeSpent(sessionDuration(marathon.StartTime, marathon.CompletedAt, s.now())),
	}, nil
}

// MarathonResults is the review payload for a marathon in any state.
type MarathonResults struct {
	MarathonID         string                    `json:"marathon_id"`
	UserID             string                    `json:"user_id"`
	Status             string                    `json:"status"`
	StartTime          time.Time                 `json:"start_time"`
	CompletedAt        *time.Time                `json:"completed_at"`
	TotalQuestions     int                       `json:"total_questions"`
	CompletedQuestions int                       `json:"completed_questions"`
	CorrectAnswers     int                       `json:"correct_answers"`
	Mistakes           int                       `json:"mistakes"`
	MistakesDetails    []models.MistakeDetail    `json:"mistakes_details"`
	AnsweredQuestions  []models.AnsweredQuestion `json:"answered_questions"`
	TimeSpent          string                    `json:"time_spent"`
}

// Results builds the review payload for a marathon.
func (s *MarathonService) Results(ctx context.Context, marathonID string) (*MarathonResults, error) {
	marathon, err := s.marathons.FindByID(ctx, marathonID)
	if err != nil {
		return nil, err
	}

	return &MarathonResults{
		MarathonID:         marathon.ID,
		UserID:             marathon.UserID,
		Status:             marathon.Status,
		StartTime:          marathon.StartTime,
		CompletedAt:        marathon.CompletedAt,
		TotalQuestions:     len(marathon.Questions),
		CompletedQuestions: marathon.CompletedQuestions,
		CorrectAnswers:     marathon.CorrectCount(),
		Mistakes:           marathon.Mistakes,
		MistakesDetails:    marathon.MistakesDetails,
		AnsweredQuestions:  marathon.AnsweredQuestions,
		TimeSpent:          formatTimeSpent(sessionDuration(marathon.StartTime, marathon.CompletedAt, s.now())),
	}, nil
}
