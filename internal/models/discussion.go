package models

import (
	"time"

	"gorm.io/datatypes"
)

// Discussion is the single question board shared by a course batch. Version increases
// on every save and guards against concurrent writers overwriting each other.
type Discussion struct {
	ID        string               `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	Batch     string               `gorm:"size:128;uniqueIndex;not null" bson:"batch" json:"batch"`
	Questions []DiscussionQuestion `gorm:"foreignKey:DiscussionID;constraint:OnDelete:CASCADE" bson:"questions" json:"questions"`
	Version   int                  `gorm:"not null;default:0" bson:"version" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DiscussionQuestion is a question and its answers. Its ID is assigned when first stored.
type DiscussionQuestion struct {
	ID           string                      `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	DiscussionID string                      `gorm:"size:64;index;not null" bson:"-" json:"-"`
	Position     int                         `gorm:"not null;default:0" bson:"-" json:"-"`
	Question     string                      `gorm:"type:text;not null" bson:"question" json:"question"`
	Answers      datatypes.JSONSlice[string] `gorm:"type:json" bson:"answers" json:"answers"`
	CreatedAt    time.Time                   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time                   `bson:"updatedAt" json:"updatedAt"`
}

// AddQuestion appends an unanswered question and returns it.
func (d *Discussion) AddQuestion(text string, now time.Time) *DiscussionQuestion {
	d.Questions = append(d.Questions, DiscussionQuestion{
		Question:  text,
		Answers:   datatypes.JSONSlice[string]{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &d.Questions[len(d.Questions)-1]
}

// Question returns the question with the given id.
func (d *Discussion) Question(id string) (*DiscussionQuestion, bool) {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i], true
		}
	}
	return nil, false
}

// RemoveQuestion deletes the question with the given id, keeping the order of the rest.
func (d *Discussion) RemoveQuestion(id string) bool {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
			return true
		}
	}
	return false
}

// AddAnswer appends an answer to the question.
func (q *DiscussionQuestion) AddAnswer(answer string, now time.Time) {
	q.Answers = append(q.Answers, answer)
	q.UpdatedAt = now
}

// Edit replaces the question text.
func (q *DiscussionQuestion) Edit(text string, now time.Time) {
	q.Question = text
	q.UpdatedAt = now
}
