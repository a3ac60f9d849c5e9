package repository

import (
	"context"
	"errors"

	"exam-service/internal/apperr"
	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RandomSessionRepository struct {
	Col *mongo.Collection
}

func NewRandomSessionRepository(db *mongo.Database) *RandomSessionRepository {
	return &RandomSessionRepository{Col: db.Collection("random_sessions")}
}

func (r *RandomSessionRepository) Create(ctx context.Context, session *models.RandomQuestionSession) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *RandomSessionRepository) FindByID(ctx context.Context, id string) (*models.RandomQuestionSession, error) {
	var session models.RandomQuestionSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("practice session %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
