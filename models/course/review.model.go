package course

import "gorm.io/gorm"

// CourseReview is a student's rating of a course, one per (user, course)
type CourseReview struct {
	gorm.Model
	UserID    uint   `gorm:"not null;uniqueIndex:uq_review_user_course"`
	CourseID  uint   `gorm:"not null;uniqueIndex:uq_review_user_course"`
	Rating    int    `gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1 to 5
	Comment   string `gorm:"type:text;default:''"`
	IsDeleted bool   `gorm:"default:false"`
}
