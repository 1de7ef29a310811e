package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

type discussionRepository struct {
	coll *mongo.Collection
}

// NewDiscussionRepository stores one document per batch with questions embedded.
func NewDiscussionRepository(coll *mongo.Collection) repository.DiscussionRepository {
	return &discussionRepository{coll: coll}
}

func (r *discussionRepository) FindByBatch(ctx context.Context, batch string) (models.Discussion, error) {
	var discussion models.Discussion
	if err := r.coll.FindOne(ctx, bson.M{"batch": batch}).Decode(&discussion); err != nil {
		return models.Discussion{}, translate(err, "find discussion")
	}
	return discussion, nil
}

// Save replaces the whole document, conditioned on the version read by the caller.
func (r *discussionRepository) Save(ctx context.Context, discussion *models.Discussion) error {
	ts := now()
	for i := range discussion.Questions {
		if discussion.Questions[i].ID == "" {
			discussion.Questions[i].ID = newID()
		}
		if discussion.Questions[i].Answers == nil {
			discussion.Questions[i].Answers = []string{}
		}
	}

	if discussion.ID == "" {
		discussion.ID = newID()
		discussion.Version = 1
		discussion.CreatedAt, discussion.UpdatedAt = ts, ts
		if _, err := r.coll.InsertOne(ctx, discussion); err != nil {
			discussion.ID = ""
			return translate(err, "create discussion")
		}
		return nil
	}

	expected := discussion.Version
	next := *discussion
	next.Version = expected + 1
	next.UpdatedAt = ts

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": discussion.ID, "version": expected}, next)
	if err != nil {
		return translate(err, "save discussion")
	}
	if result.MatchedCount == 0 {
		return repository.ErrStale
	}

	discussion.Version = next.Version
	discussion.UpdatedAt = ts
	return nil
}
