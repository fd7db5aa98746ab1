package course

import "gorm.io/gorm"

// Module groups a course's content into ordered sections. Modules only
// organize the curriculum: completion is counted per content item, so a
// module itself is never marked complete. Deleting a module soft-deletes
// its content with it.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Module order in course
	IsDeleted   bool   `gorm:"default:false"`
}
