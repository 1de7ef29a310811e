package models

import "time"

// Ungraded is stored in the mentor grading fields until a mentor reviews the submission.
const Ungraded = "Yet to be graded"

// SubmissionFile is the single file attached to a submission. Data holds the bytes when no
// external storage is configured; otherwise URL points at the stored object.
type SubmissionFile struct {
	Name string `gorm:"size:255" bson:"name" json:"name"`
	Type string `gorm:"size:128" bson:"type" json:"type"`
	Size int64  `bson:"size" json:"size"`
	URL  string `gorm:"size:512" bson:"url,omitempty" json:"url,omitempty"`
	Data []byte `bson:"data,omitempty" json:"-"`
}

// IsEmpty reports whether no file was attached.
func (f SubmissionFile) IsEmpty() bool {
	return f.Name == "" && f.Size == 0
}

// WeeklySubmission is a student's work for one course week. (StudentID, Week) is unique.
type WeeklySubmission struct {
	ID             string         `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	StudentID      string         `gorm:"size:255;not null;uniqueIndex:idx_weekly_student_week" bson:"studentId" json:"studentId"`
	Week           int            `gorm:"not null;uniqueIndex:idx_weekly_student_week" bson:"week" json:"week"`
	Links          string         `gorm:"type:text" bson:"links" json:"links"`
	File           SubmissionFile `gorm:"embedded;embeddedPrefix:file_" bson:"file" json:"file"`
	Comments       string         `gorm:"type:text" bson:"comments" json:"comments"`
	MentorMarks    string         `gorm:"size:64" bson:"mentorMarks" json:"mentorMarks"`
	MentorComments string         `gorm:"type:text" bson:"mentorComments" json:"mentorComments"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// ResetGrading discards any mentor grading so a fresh upload is reviewed again.
func (s *WeeklySubmission) ResetGrading() {
	s.MentorMarks = Ungraded
	s.MentorComments = Ungraded
}

// ProjectSubmission is a student's final project. One per student.
type ProjectSubmission struct {
	ID        string         `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	StudentID string         `gorm:"size:255;uniqueIndex;not null" bson:"studentId" json:"studentId"`
	Links     string         `gorm:"type:text" bson:"links" json:"links"`
	File      SubmissionFile `gorm:"embedded;embeddedPrefix:file_" bson:"file" json:"file"`
	Comments  string         `gorm:"type:text" bson:"comments" json:"comments"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}
