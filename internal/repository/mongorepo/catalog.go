package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

type projectRepository struct {
	projects   *mongo.Collection
	references *mongo.Collection
}

// NewProjectRepository reads the catalog from projects and reading lists from references.
func NewProjectRepository(projects, references *mongo.Collection) repository.ProjectRepository {
	return &projectRepository{projects: projects, references: references}
}

func (r *projectRepository) ListByCourse(ctx context.Context, course string) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "projectId", Value: 1}})
	return findAll[models.Project](ctx, r.projects, bson.M{"course": course}, opts, "list projects")
}

func (r *projectRepository) FindByProjectID(ctx context.Context, projectID string) (models.Project, error) {
	var project models.Project
	if err := r.projects.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&project); err != nil {
		return models.Project{}, translate(err, "find project")
	}
	return project, nil
}

func (r *projectRepository) FindReferences(ctx context.Context, projectID string) (models.ProjectReference, error) {
	var reference models.ProjectReference
	if err := r.references.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&reference); err != nil {
		return models.ProjectReference{}, translate(err, "find project references")
	}
	return reference, nil
}

func (r *projectRepository) UpsertProjects(ctx context.Context, projects []models.Project) (int64, error) {
	if len(projects) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(projects))
	for _, project := range projects {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"projectId": project.ProjectID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"name":             project.Name,
					"course":           project.Course,
					"description":      project.Description,
					"prerequisites":    project.Prerequisites,
					"jobOpportunities": project.JobOpportunities,
					"overview":         project.Overview,
				},
				"$setOnInsert": bson.M{"_id": newID()},
			}).
			SetUpsert(true))
	}
	return r.bulk(ctx, r.projects, writes, "upsert projects")
}

func (r *projectRepository) UpsertReferences(ctx context.Context, references []models.ProjectReference) (int64, error) {
	if len(references) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(references))
	for _, reference := range references {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"projectId": reference.ProjectID}).
			SetUpdate(bson.M{
				"$set":         bson.M{"materials": reference.Materials},
				"$setOnInsert": bson.M{"_id": newID()},
			}).
			SetUpsert(true))
	}
	return r.bulk(ctx, r.references, writes, "upsert project references")
}

func (r *projectRepository) bulk(ctx context.Context, coll *mongo.Collection, writes []mongo.WriteModel, op string) (int64, error) {
	result, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, translate(err, op)
	}
	return result.UpsertedCount + result.ModifiedCount, nil
}
