package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// DiscussionRepository loads and stores a batch's discussion as one aggregate.
type DiscussionRepository interface {
	FindByBatch(ctx context.Context, batch string) (models.Discussion, error)
	// Save persists the discussion and its questions in order. New questions receive
	// their identifiers here. A discussion modified since it was loaded yields ErrStale.
	Save(ctx context.Context, discussion *models.Discussion) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository constructs a GORM-backed repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) FindByBatch(ctx context.Context, batch string) (models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("batch = ?", batch).First(&discussion).Error; err != nil {
		return models.Discussion{}, translate(err, "find discussion")
	}
	return discussion, nil
}

func (r *discussionRepository) Save(ctx context.Context, discussion *models.Discussion) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if discussion.ID == "" {
			discussion.Version = 1
			if err := tx.Omit(clause.Associations).Create(discussion).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&models.Discussion{}).
				Where("id = ? AND version = ?", discussion.ID, discussion.Version).
				Updates(map[string]interface{}{
					"version":    discussion.Version + 1,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrStale
			}
			discussion.Version++
			discussion.UpdatedAt = now
		}

		keep := make([]string, 0, len(discussion.Questions))
		for i := range discussion.Questions {
			question := &discussion.Questions[i]
			question.DiscussionID = discussion.ID
			question.Position = i
			if question.ID == "" {
				if err := tx.Create(question).Error; err != nil {
					return err
				}
			} else if err := tx.Save(question).Error; err != nil {
				return err
			}
			keep = append(keep, question.ID)
		}

		cleanup := tx.Where("discussion_id = ?", discussion.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		return cleanup.Delete(&models.DiscussionQuestion{}).Error
	})
	return translate(err, "save discussion")
}
