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

type MarathonRepository struct {
	Col *mongo.Collection
}

func NewMarathonRepository(db *mongo.Database) *MarathonRepository {
	return &MarathonRepository{Col: db.Collection("marathon_exams")}
}

func (r *MarathonRepository) FindByID(ctx context.Context, id string) (*models.MarathonExam, error) {
	var exam models.MarathonExam
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("marathon exam %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindInProgressByUser returns the user's active marathon, or nil when none
// exists. Callers treat nil as a valid, non-error state.
func (r *MarathonRepository) FindInProgressByUser(ctx context.Context, userID string) (*models.MarathonExam, error) {
	var exam models.MarathonExam
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "status": models.StatusInProgress}).Decode(&exam)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *MarathonRepository) Create(ctx context.Context, exam *models.MarathonExam) error {
	if exam.ID == "" {
		exam.ID = primitive.NewObjectID().Hex()
	}
	exam.Version = 1
	_, err := r.Col.InsertOne(ctx, exam)
	return err
}

func (r *MarathonRepository) ReplaceVersioned(ctx context.Context, exam *models.MarathonExam) error {
	prev := exam.Version
	exam.Version = prev + 1
	res, err := r.Col.ReplaceOne(ctx, bson.M{"_id": exam.ID, "version": prev}, exam)
	if err != nil {
		exam.Version = prev
		return err
	}
	if res.MatchedCount == 0 {
		exam.Version = prev
		return apperr.Conflict("marathon exam %s was modified concurrently", exam.ID)
	}
	return nil
}
