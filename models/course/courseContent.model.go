package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseContent represents a content item within a module, organized by day.
// Content is a top-level entity keyed back to its course; its ID is the unit
// counted toward completion.
type CourseContent struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Day         int    `json:"day" gorm:"default:1"` // Day number within module
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, MCQ, VIDEO, IMAGE
	TextContent string `json:"text_content" gorm:"type:text"`      // For TEXT type
	VideoURL    string `json:"video_url"`                          // For VIDEO type
	ImageURL    string `json:"image_url"`                          // For IMAGE type
	OrderIndex  int    `json:"order_index" gorm:"default:0"`       // Order within day
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// ContentCompletion tracks a user's completion of a content item.
// The composite unique index makes repeat completions a no-op at the
// storage layer, so marking the same item twice can never double-count.
type ContentCompletion struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_user_content"`
	CourseID        uint      `json:"course_id" gorm:"index;not null"`
	CourseContentID uint      `json:"course_content_id" gorm:"not null;uniqueIndex:uq_user_content"`
	Status          string    `json:"status" gorm:"default:'COMPLETED'"`
	CompletedAt     time.Time `json:"completed_at"`
	IsDeleted       bool      `gorm:"default:false"`
}
