package models

import "time"

const (
	StatusInProgress = "in_progress"
	StatusPassed     = "passed"
	StatusFailed     = "failed"
	StatusCompleted  = "completed"
)

// AnswerSlot is one answerable position within a session: the question
// snapshot plus the user's eventual answer and its correctness.
type AnswerSlot struct {
	Question   Question `bson:"question" json:"question"`
	UserAnswer *int     `bson:"user_answer" json:"user_answer"`
	IsCorrect  *bool    `bson:"is_correct" json:"is_correct"`
}

func (s *AnswerSlot) Answered() bool { return s.UserAnswer != nil }

// MistakeDetail records everything needed to review one wrong answer.
type MistakeDetail struct {
	QuestionID     string `bson:"question_id" json:"question_id"`
	QuestionText   string `bson:"question_text" json:"question_text"`
	SelectedOption string `bson:"selected_option" json:"selected_option"`
	CorrectOption  string `bson:"correct_option" json:"correct_option"`
	Hint           string `bson:"hint,omitempty" json:"hint,omitempty"`
	ImageURL       string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Exam is a single bounded ticket exam. Invariants: Mistakes equals the
// number of slots graded incorrect; once Status leaves in_progress no further
// mutation is accepted.
type Exam struct {
	ID               string          `bson:"_id,omitempty" json:"id"`
	UserID           string          `bson:"user_id" json:"user_id"`
	TicketNumber     int             `bson:"ticket_number" json:"ticket_number"`
	Questions        []AnswerSlot    `bson:"questions" json:"questions"`
	ExtraQuestions   []AnswerSlot    `bson:"extra_questions" json:"extra_questions"`
	Mistakes         int             `bson:"mistakes" json:"mistakes"`
	MistakesDetails  []MistakeDetail `bson:"mistakes_details" json:"mistakes_details"`
	Status           string          `bson:"status" json:"status"`
	StartTime        time.Time       `bson:"start_time" json:"start_time"`
	CompletedAt      *time.Time      `bson:"completed_at" json:"completed_at"`
	TimeLimitSeconds int             `bson:"time_limit_seconds" json:"time_limit_seconds"`
	ExtraTimeSeconds int             `bson:"extra_time_seconds" json:"extra_time_seconds"`
	Version          int64           `bson:"version" json:"-"`
}

// Slot resolves an index over the combined standard+extra slot sequence.
func (e *Exam) Slot(i int) (*AnswerSlot, bool) {
	if i < 0 || i >= len(e.Questions)+len(e.ExtraQuestions) {
		return nil, false
	}
	if i < len(e.Questions) {
		return &e.Questions[i], true
	}
	return &e.ExtraQuestions[i-len(e.Questions)], true
}

func (e *Exam) SlotCount() int { return len(e.Questions) + len(e.ExtraQuestions) }

func (e *Exam) IsTerminal() bool { return e.Status != StatusInProgress }

// AllAnswered reports whether every standard and extra slot has an answer.
func (e *Exam) AllAnswered() bool {
	for i := range e.Questions {
		if !e.Questions[i].Answered() {
			return false
		}
	}
	for i := range e.ExtraQuestions {
		if !e.ExtraQuestions[i].Answered() {
			return false
		}
	}
	return true
}

// CorrectCount counts slots graded correct across standard and extra slots.
func (e *Exam) CorrectCount() int {
	n := 0
	for i := range e.Questions {
		if c := e.Questions[i].IsCorrect; c != nil && *c {
			n++
		}
	}
	for i := range e.ExtraQuestions {
		if c := e.ExtraQuestions[i].IsCorrect; c != nil && *c {
			n++
		}
	}
	return n
}

// UsedQuestionIDs collects every question id already present in the session,
// for exclusion when sampling extra questions.
func (e *Exam) UsedQuestionIDs() map[string]struct{} {
	used := make(map[string]struct{}, e.SlotCount())
	for i := range e.Questions {
		used[e.Questions[i].Question.ID] = struct{}{}
	}
	for i := range e.ExtraQuestions {
		used[e.ExtraQuestions[i].Question.ID] = struct{}{}
	}
	return used
}
