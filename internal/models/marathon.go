package models

import "time"

// AnsweredQuestion is the per-answer log entry a marathon keeps for review.
type AnsweredQuestion struct {
	QuestionID     string `bson:"question_id" json:"question_id"`
	SelectedOption string `bson:"selected_option" json:"selected_option"`
	IsCorrect      bool   `bson:"is_correct" json:"is_correct"`
	Hint           string `bson:"hint,omitempty" json:"hint,omitempty"`
	ImageURL       string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// MarathonExam is a long-running sweep through the full question universe.
// It never fails: mistakes accumulate and the session completes exactly when
// every slot is answered. At most one in_progress marathon exists per user.
type MarathonExam struct {
	ID                 string             `bson:"_id,omitempty" json:"id"`
	UserID             string             `bson:"user_id" json:"user_id"`
	Questions          []AnswerSlot       `bson:"questions" json:"questions"`
	Mistakes           int                `bson:"mistakes" json:"mistakes"`
	MistakesDetails    []MistakeDetail    `bson:"mistakes_details" json:"mistakes_details"`
	AnsweredQuestions  []AnsweredQuestion `bson:"answered_questions" json:"answered_questions"`
	CompletedQuestions int                `bson:"completed_questions" json:"completed_questions"`
	Status             string             `bson:"status" json:"status"`
	StartTime          time.Time          `bson:"start_time" json:"start_time"`
	CompletedAt        *time.Time         `bson:"completed_at" json:"completed_at"`
	Version            int64              `bson:"version" json:"-"`
}

func (m *MarathonExam) Slot(i int) (*AnswerSlot, bool) {
	if i < 0 || i >= len(m.Questions) {
		return nil, false
	}
	return &m.Questions[i], true
}

func (m *MarathonExam) IsTerminal() bool { return m.Status != StatusInProgress }

// CorrectCount counts answered slots graded correct.
func (m *MarathonExam) CorrectCount() int {
	n := 0
	for i := range m.Questions {
		if c := m.Questions[i].IsCorrect; c != nil && *c {
			n++
		}
	}
	return n
}

// UnansweredSlots returns the slots that still have no answer, preserving
// snapshot order.
func (m *MarathonExam) UnansweredSlots() []AnswerSlot {
	var out []AnswerSlot
	for i := range m.Questions {
		if !m.Questions[i].Answered() {
			out = append(out, m.Questions[i])
		}
	}
	return out
}
