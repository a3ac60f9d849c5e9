package service

import (
	"context"

	"exam-service/internal/models"
	"exam-service/internal/selection"
)

// bankSource adapts the ticket store plus the sampler into the engine's
// remediation question source.
type bankSource struct {
	tickets TicketStore
	sampler *selection.Sampler
}

func (b *bankSource) ByCategory(ctx context.Context, category string, exclude map[string]struct{}, n int) ([]models.Question, error) {
	pool, err := b.tickets.QuestionsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return b.sampler.Any(pool, exclude, n), nil
}

func (b *bankSource) SampleExcluding(ctx context.Context, category string, exclude map[string]struct{}, n int) ([]models.Question, error) {
	all, err := b.tickets.AllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return b.sampler.Excluding(all, category, exclude, n), nil
}
