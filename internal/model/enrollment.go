package model

import "time"

// Enrollment is a student's claim on a course, created pending and flipped
// to approved by an administrator. The composite unique index makes
// duplicate requests for the same (student, course) pair impossible at the
// storage layer, which the service relies on under concurrent requests.
type Enrollment struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course"`
	Approved    bool       `json:"approved" gorm:"default:false;index"`
	RequestedAt time.Time  `json:"requested_at" gorm:"autoCreateTime"`
	ApprovedAt  *time.Time `json:"approved_at"`

	// Relations
	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
