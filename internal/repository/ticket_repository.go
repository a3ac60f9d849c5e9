package repository

import (
	"context"
	"errors"

	"exam-service/internal/apperr"
	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TicketRepository is the read-only question bank. The engines only ever
// read from it; imports own the writes.
type TicketRepository struct {
	Col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{Col: db.Collection("tickets")}
}

func (r *TicketRepository) FindByNumber(ctx context.Context, number int) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.Col.FindOne(ctx, bson.M{"number": number}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("ticket %d not found", number)
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]models.Ticket, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var tickets []models.Ticket
	for cur.Next(ctx) {
		var t models.Ticket
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, cur.Err()
}

// Numbers returns every ticket number, for random ticket selection.
func (r *TicketRepository) Numbers(ctx context.Context) ([]int, error) {
	tickets, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make([]int, len(tickets))
	for i, t := range tickets {
		numbers[i] = t.Number
	}
	return numbers, nil
}

// QuestionsByCategory returns every bank question of one category.
func (r *TicketRepository) QuestionsByCategory(ctx context.Context, category string) ([]models.Question, error) {
	all, err := r.AllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Question
	for _, q := range all {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

// AllQuestions flattens the whole bank into the marathon question universe,
// preserving ticket order.
func (r *TicketRepository) AllQuestions(ctx context.Context) ([]models.Question, error) {
	tickets, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var questions []models.Question
	for _, t := range tickets {
		questions = append(questions, t.Questions...)
	}
	return questions, nil
}

// AllPracticeQuestions flattens the bank keeping each question's ticket
// number, for random-practice sampling.
func (r *TicketRepository) AllPracticeQuestions(ctx context.Context) ([]models.PracticeQuestion, error) {
	tickets, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var questions []models.PracticeQuestion
	for _, t := range tickets {
		for _, q := range t.Questions {
			questions = append(questions, models.PracticeQuestion{Question: q, TicketNumber: t.Number})
		}
	}
	return questions, nil
}
