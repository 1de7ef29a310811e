// Package mongorepo implements the repository interfaces on MongoDB collections.
package mongorepo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/ictak-go-api/internal/repository"
)

// Collection names.
const (
	AccountsCollection           = "accounts"
	CoursesCollection            = "course_records"
	ProjectsCollection           = "projects"
	ReferencesCollection         = "project_references"
	AssignmentsCollection        = "project_assignments"
	WeeklySubmissionsCollection  = "weekly_submissions"
	ProjectSubmissionsCollection = "project_submissions"
	DiscussionsCollection        = "discussions"
)

// NewSet builds every repository over one database.
func NewSet(db *mongo.Database) repository.Set {
	return repository.Set{
		Accounts:    NewAccountRepository(db.Collection(AccountsCollection)),
		Courses:     NewCourseRepository(db.Collection(CoursesCollection)),
		Projects:    NewProjectRepository(db.Collection(ProjectsCollection), db.Collection(ReferencesCollection)),
		Assignments: NewAssignmentRepository(db.Collection(AssignmentsCollection)),
		Submissions: NewSubmissionRepository(db.Collection(WeeklySubmissionsCollection), db.Collection(ProjectSubmissionsCollection)),
		Discussions: NewDiscussionRepository(db.Collection(DiscussionsCollection)),
	}
}

// EnsureIndexes creates the unique keys the repositories rely on for upserts and
// insert-if-absent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		AccountsCollection:           {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		CoursesCollection:            {{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: unique}},
		ProjectsCollection:           {{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "course", Value: 1}}}},
		ReferencesCollection:         {{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: unique}},
		AssignmentsCollection:        {{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: unique}},
		WeeklySubmissionsCollection:  {{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "week", Value: 1}}, Options: unique}},
		ProjectSubmissionsCollection: {{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: unique}},
		DiscussionsCollection:        {{Keys: bson.D{{Key: "batch", Value: 1}}, Options: unique}},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", name)
		}
	}
	return nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// translate maps driver errors onto the repository sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return errors.Wrap(err, op)
	}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions, op string) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, op)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, translate(err, op)
	}
	return items, nil
}
