package models

// CourseRecord holds a student's course enrolment and the exit score that gates project selection.
type CourseRecord struct {
	ID        string `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	StudentID string `gorm:"size:255;uniqueIndex;not null" bson:"studentId" json:"studentId"`
	Name      string `gorm:"size:255" bson:"name" json:"name"`
	Course    string `gorm:"size:128;index" bson:"course" json:"course"`
	StartDate string `gorm:"size:64" bson:"startDate" json:"startDate"`
	Mentor    string `gorm:"size:255" bson:"mentor" json:"mentor"`
	Grade     string `gorm:"size:2" bson:"grade" json:"grade"`
	ExitScore int    `bson:"exitScore" json:"exitScore"`
}

// GradeForScore converts an exit score into its letter grade.
func GradeForScore(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "E"
	}
}
