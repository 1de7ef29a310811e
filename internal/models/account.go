package models

import "time"

// Account is a registered student login. Email is the key every other collection joins on.
type Account struct {
	ID           string    `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" bson:"passwordHash" json:"-"`
	Name         string    `gorm:"size:255;not null" bson:"name" json:"name"`
	Phone        string    `gorm:"size:32" bson:"phone" json:"phone"`
	Batch        string    `gorm:"size:128;index" bson:"batch" json:"batch"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
