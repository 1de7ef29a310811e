package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

type assignmentRepository struct {
	coll *mongo.Collection
}

// NewAssignmentRepository stores project assignments in coll.
func NewAssignmentRepository(coll *mongo.Collection) repository.AssignmentRepository {
	return &assignmentRepository{coll: coll}
}

func (r *assignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ProjectAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[models.ProjectAssignment](ctx, r.coll, bson.M{"studentId": studentID}, opts, "list assignments")
}

func (r *assignmentRepository) FindByStudent(ctx context.Context, studentID string) (models.ProjectAssignment, error) {
	var assignment models.ProjectAssignment
	if err := r.coll.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&assignment); err != nil {
		return models.ProjectAssignment{}, translate(err, "find assignment")
	}
	return assignment, nil
}

// CreateIfAbsent upserts with $setOnInsert so an existing assignment is returned untouched.
// Two concurrent upserts can both miss and race on the unique index; the loser retries
// and then finds the winner's document.
func (r *assignmentRepository) CreateIfAbsent(ctx context.Context, assignment *models.ProjectAssignment) (models.ProjectAssignment, bool, error) {
	if assignment.ID == "" {
		assignment.ID = newID()
	}
	ts := now()
	assignment.CreatedAt, assignment.UpdatedAt = ts, ts

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": assignment}

	var stored models.ProjectAssignment
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.coll.FindOneAndUpdate(ctx, bson.M{"studentId": assignment.StudentID}, update, opts).Decode(&stored)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return models.ProjectAssignment{}, false, translate(err, "create assignment")
	}
	return stored, stored.ID == assignment.ID, nil
}

func (r *assignmentRepository) UpdateProject(ctx context.Context, studentID, projectID, projectName string) (models.ProjectAssignment, error) {
	set := bson.M{"projectId": projectID, "updatedAt": now()}
	if projectName != "" {
		set["projectName"] = projectName
	}

	var updated models.ProjectAssignment
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.ProjectAssignment{}, translate(err, "update assignment")
	}
	return updated, nil
}
