package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a catalog entry students can pick for their final project.
type Project struct {
	ID               string                      `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	ProjectID        string                      `gorm:"size:64;uniqueIndex;not null" bson:"projectId" json:"projectId"`
	Name             string                      `gorm:"size:255;not null" bson:"name" json:"name"`
	Course           string                      `gorm:"size:128;index" bson:"course" json:"course"`
	Description      string                      `gorm:"type:text" bson:"description" json:"description"`
	Prerequisites    datatypes.JSONSlice[string] `gorm:"type:json" bson:"prerequisites" json:"prerequisites"`
	JobOpportunities datatypes.JSONSlice[string] `gorm:"type:json" bson:"jobOpportunities" json:"jobOpportunities"`
	Overview         string                      `gorm:"type:text" bson:"overview" json:"overview"`
}

// ProjectReference lists reading material attached to a catalog project.
type ProjectReference struct {
	ID        string                      `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	ProjectID string                      `gorm:"size:64;uniqueIndex;not null" bson:"projectId" json:"projectId"`
	Materials datatypes.JSONSlice[string] `gorm:"type:json" bson:"materials" json:"materials"`
}

// ProjectAssignment records the project a student selected. A student holds at most one.
type ProjectAssignment struct {
	ID          string    `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	StudentID   string    `gorm:"size:255;uniqueIndex;not null" bson:"studentId" json:"studentId"`
	StudentName string    `gorm:"size:255" bson:"studentName" json:"studentName"`
	ProjectID   string    `gorm:"size:64;not null" bson:"projectId" json:"projectId"`
	ProjectName string    `gorm:"size:255" bson:"projectName" json:"projectName"`
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
