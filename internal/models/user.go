package models

import "time"

// UserStats are the cumulative progress counters the session engines touch.
type UserStats struct {
	TicketsCompleted      int `bson:"tickets_completed" json:"tickets_completed"`
	LessonsCompleted      int `bson:"lessons_completed" json:"lessons_completed"`
	Mistakes              int `bson:"mistakes" json:"mistakes"`
	TotalTimeSpentSeconds int `bson:"total_time_spent_seconds" json:"total_time_spent_seconds"`
}

type Subscription struct {
	Type      string     `bson:"type" json:"type"` // free | premium
	ExpiresAt *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	AutoRenew bool       `bson:"auto_renew" json:"auto_renew"`
}

// TicketProgress tracks a user's work through one ticket outside of timed
// exams (random-practice answers land here).
type TicketProgress struct {
	TicketNumber      int                `bson:"ticket_number" json:"ticket_number"`
	IsCompleted       bool               `bson:"is_completed" json:"is_completed"`
	Mistakes          int                `bson:"mistakes" json:"mistakes"`
	CorrectAnswers    int                `bson:"correct_answers" json:"correct_answers"`
	TotalQuestions    int                `bson:"total_questions" json:"total_questions"`
	StartedAt         time.Time          `bson:"started_at" json:"started_at"`
	CompletedAt       *time.Time         `bson:"completed_at" json:"completed_at"`
	AnsweredQuestions []AnsweredQuestion `bson:"answered_questions" json:"answered_questions"`
	MistakesDetails   []MistakeDetail    `bson:"mistakes_details" json:"mistakes_details"`
}

// User carries the messaging-platform identity and the progress fields the
// engines read and write. Course content and billing live elsewhere.
type User struct {
	ID              string           `bson:"_id,omitempty" json:"id"`
	Username        string           `bson:"username" json:"username"`
	TelegramID      string           `bson:"telegram_id" json:"telegram_id"`
	Stats           UserStats        `bson:"stats" json:"stats"`
	Subscription    Subscription     `bson:"subscription" json:"subscription"`
	TicketsProgress []TicketProgress `bson:"tickets_progress" json:"tickets_progress"`
	CreatedAt       time.Time        `bson:"created_at" json:"created_at"`
}

func (u *User) IsPremium() bool { return u.Subscription.Type == "premium" }

// TicketProgressFor finds or creates the progress record for a ticket.
func (u *User) TicketProgressFor(ticketNumber, totalQuestions int, now time.Time) *TicketProgress {
	for i := range u.TicketsProgress {
		if u.TicketsProgress[i].TicketNumber == ticketNumber {
			return &u.TicketsProgress[i]
		}
	}
	u.TicketsProgress = append(u.TicketsProgress, TicketProgress{
		TicketNumber:   ticketNumber,
		TotalQuestions: totalQuestions,
		StartedAt:      now,
	})
	return &u.TicketsProgress[len(u.TicketsProgress)-1]
}
