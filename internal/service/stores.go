package service

import (
	"context"

	"exam-service/internal/models"
)

// Store interfaces are declared where they are consumed so the services can
// be exercised against in-memory fakes. The mongo repositories in
// internal/repository satisfy them.

type TicketStore interface {
	FindByNumber(ctx context.Context, number int) (*models.Ticket, error)
	FindAll(ctx context.Context) ([]models.Ticket, error)
	Numbers(ctx context.Context) ([]int, error)
	QuestionsByCategory(ctx context.Context, category string) ([]models.Question, error)
	AllQuestions(ctx context.Context) ([]models.Question, error)
	AllPracticeQuestions(ctx context.Context) ([]models.PracticeQuestion, error)
}

type ExamStore interface {
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	ReplaceVersioned(ctx context.Context, exam *models.Exam) error
	FindLastTerminalByUser(ctx context.Context, userID string) (*models.Exam, error)
}

type MarathonStore interface {
	FindByID(ctx context.Context, id string) (*models.MarathonExam, error)
	FindInProgressByUser(ctx context.Context, userID string) (*models.MarathonExam, error)
	Create(ctx context.Context, exam *models.MarathonExam) error
	ReplaceVersioned(ctx context.Context, exam *models.MarathonExam) error
}

type PracticeStore interface {
	Create(ctx context.Context, session *models.RandomQuestionSession) error
	FindByID(ctx context.Context, id string) (*models.RandomQuestionSession, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
