package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with progress.
// Progress is derived from ContentCompletion rows against the published
// content count and is recomputed on every mutation; it is never written
// from client input. At most one enrollment exists per (user, course).
type Enrollment struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"not null;uniqueIndex:uq_user_course"`
	CourseID          uint       `json:"course_id" gorm:"not null;uniqueIndex:uq_user_course"`
	Status            string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress          int        `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	CompletedContents int        `json:"completed_contents" gorm:"default:0"`
	TotalContents     int        `json:"total_contents" gorm:"default:0"`
	CompletedAt       *time.Time `json:"completed_at"`
	IsDeleted         bool       `gorm:"default:false"`
}
