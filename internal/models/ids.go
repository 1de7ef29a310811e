package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID returns an identifier for records created through the relational store.
func NewID() string {
	return uuid.NewString()
}

func assignID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}

// BeforeCreate assigns the primary key.
func (a *Account) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (r *CourseRecord) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (p *Project) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (r *ProjectReference) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (a *ProjectAssignment) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (s *WeeklySubmission) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (s *ProjectSubmission) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// BeforeCreate assigns the primary key.
func (d *Discussion) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// BeforeCreate assigns the question identifier on first insert.
func (q *DiscussionQuestion) BeforeCreate(*gorm.DB) error {
	assignID(&q.ID)
	return nil
}
