package repository

import (
	"context"
	"errors"

	"exam-service/internal/apperr"
	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamRepository struct {
	Col *mongo.Collection
}

func NewExamRepository(db *mongo.Database) *ExamRepository {
	return &ExamRepository{Col: db.Collection("exams")}
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("exam %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = primitive.NewObjectID().Hex()
	}
	exam.Version = 1
	_, err := r.Col.InsertOne(ctx, exam)
	return err
}

// ReplaceVersioned saves the aggregate with a compare-and-swap on the version
// field. A lost race surfaces as a conflict instead of a silent last-write-wins.
func (r *ExamRepository) ReplaceVersioned(ctx context.Context, exam *models.Exam) error {
	prev := exam.Version
	exam.Version = prev + 1
	res, err := r.Col.ReplaceOne(ctx, bson.M{"_id": exam.ID, "version": prev}, exam)
	if err != nil {
		exam.Version = prev
		return err
	}
	if res.MatchedCount == 0 {
		exam.Version = prev
		return apperr.Conflict("exam %s was modified concurrently", exam.ID)
	}
	return nil
}

// FindLastTerminalByUser returns the user's most recently completed exam, or
// nil when they have none.
func (r *ExamRepository) FindLastTerminalByUser(ctx context.Context, userID string) (*models.Exam, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": []string{models.StatusPassed, models.StatusFailed}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	var exam models.Exam
	err := r.Col.FindOne(ctx, filter, opts).Decode(&exam)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}
