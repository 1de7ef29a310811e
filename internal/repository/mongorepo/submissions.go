package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

type submissionRepository struct {
	weekly  *mongo.Collection
	project *mongo.Collection
}

// NewSubmissionRepository stores weekly and final submissions in separate collections.
func NewSubmissionRepository(weekly, project *mongo.Collection) repository.SubmissionRepository {
	return &submissionRepository{weekly: weekly, project: project}
}

func upsertAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
}

func (r *submissionRepository) UpsertWeekly(ctx context.Context, submission *models.WeeklySubmission) (models.WeeklySubmission, error) {
	ts := now()
	update := bson.M{
		"$set": bson.M{
			"links":          submission.Links,
			"file":           submission.File,
			"comments":       submission.Comments,
			"mentorMarks":    submission.MentorMarks,
			"mentorComments": submission.MentorComments,
			"updatedAt":      ts,
		},
		"$setOnInsert": bson.M{"_id": newID(), "createdAt": ts},
	}

	var stored models.WeeklySubmission
	filter := bson.M{"studentId": submission.StudentID, "week": submission.Week}
	if err := r.weekly.FindOneAndUpdate(ctx, filter, update, upsertAfter()).Decode(&stored); err != nil {
		return models.WeeklySubmission{}, translate(err, "upsert weekly submission")
	}
	return stored, nil
}

func (r *submissionRepository) ListWeekly(ctx context.Context, studentID string) ([]models.WeeklySubmission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}})
	return findAll[models.WeeklySubmission](ctx, r.weekly, bson.M{"studentId": studentID}, opts, "list weekly submissions")
}

func (r *submissionRepository) UpsertProject(ctx context.Context, submission *models.ProjectSubmission) (models.ProjectSubmission, error) {
	ts := now()
	update := bson.M{
		"$set": bson.M{
			"links":     submission.Links,
			"file":      submission.File,
			"comments":  submission.Comments,
			"updatedAt": ts,
		},
		"$setOnInsert": bson.M{"_id": newID(), "createdAt": ts},
	}

	var stored models.ProjectSubmission
	if err := r.project.FindOneAndUpdate(ctx, bson.M{"studentId": submission.StudentID}, update, upsertAfter()).Decode(&stored); err != nil {
		return models.ProjectSubmission{}, translate(err, "upsert project submission")
	}
	return stored, nil
}

func (r *submissionRepository) FindProject(ctx context.Context, studentID string) (models.ProjectSubmission, error) {
	var submission models.ProjectSubmission
	if err := r.project.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&submission); err != nil {
		return models.ProjectSubmission{}, translate(err, "find project submission")
	}
	return submission, nil
}
