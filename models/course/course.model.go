package course

import "gorm.io/gorm"

// Course is the top-level catalog entry students enroll in. Status tracks
// the admin lifecycle while IsPublished gates student visibility; only
// published, non-deleted courses accept enrollments. Rating is the rounded
// average of CourseReview rows, refreshed whenever a review lands.
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	Author       string `json:"author"`
	Duration     int64  `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	Rating       uint   `json:"rating" gorm:"default:0"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}
