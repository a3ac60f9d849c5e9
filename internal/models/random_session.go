package models

import "time"

// PracticeQuestion is a sampled question snapshot plus the ticket it came
// from, so answers can feed per-ticket progress counters.
type PracticeQuestion struct {
	Question     `bson:",inline"`
	TicketNumber int `bson:"ticket_number" json:"ticket_number"`
}

// RandomQuestionSession is an ephemeral, ungraded practice set. It carries
// its own snapshots (correctness server-side) so grading is independent of
// any ticket or exam lifecycle.
type RandomQuestionSession struct {
	ID        string             `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Questions []PracticeQuestion `bson:"questions" json:"questions"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// FindQuestion looks up a stored question by id within the session.
func (s *RandomQuestionSession) FindQuestion(questionID string) (*PracticeQuestion, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return &s.Questions[i], true
		}
	}
	return nil, false
}
