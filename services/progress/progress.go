package progress

import (
	"errors"
	"math"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCourseNotFound     = errors.New("course not found or not published")
	ErrContentNotFound    = errors.New("course content not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in this course")
)

// Compute returns the completion percentage for a course with totalContent
// published items given the completed content ids. Callers pass only ids
// drawn from the live published catalog, so the result never exceeds 100;
// there is no cap hiding a numerator that drifted out of the catalog.
// Duplicate ids never inflate the result. A course with no content is
// never complete.
func Compute(totalContent int, completedIDs []uint) int {
	if totalContent <= 0 {
		return 0
	}
	distinct := make(map[uint]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		distinct[id] = struct{}{}
	}
	return int(math.Round(float64(len(distinct)) * 100 / float64(totalContent)))
}

// lockForUpdate takes the row locks that serialize recomputes per enrollment.
// Without the lock, two transactions at READ COMMITTED can each read a
// completion snapshot missing the other's insert and the later commit stores
// a stale percentage. SQLite rejects FOR UPDATE; its single writer lock
// already serializes writers.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Service owns enrollment records and their derived progress
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Enroll creates an enrollment for the (user, course) pair. The composite
// unique index resolves duplicate enrollments, including concurrent ones.
func (s *Service) Enroll(userID, courseID uint) (*courseModels.Enrollment, error) {
	var crs courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&crs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   "ENROLLED",
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyEnrolled
	}

	return &enrollment, nil
}

// RecordCompletion marks a content item complete for the user's enrollment
// and recomputes progress from the full completion set, all inside one
// transaction. Completing the same item twice is a no-op: the insert hits
// the (user_id, course_content_id) unique index, affects zero rows and the
// stored progress is returned unchanged with wasNew=false.
func (s *Service) RecordCompletion(userID, courseID, contentID uint) (*courseModels.Enrollment, bool, error) {
	var enrollment courseModels.Enrollment
	wasNew := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var content courseModels.CourseContent
		if err := tx.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", contentID, courseID, false, true).First(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}

		// Lock the enrollment row first so the insert and the recompute run
		// after any concurrent completion has committed
		if err := lockForUpdate(tx).Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		completion := courseModels.ContentCompletion{
			UserID:          userID,
			CourseID:        courseID,
			CourseContentID: contentID,
			Status:          "COMPLETED",
			CompletedAt:     time.Now(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_content_id"}},
			DoNothing: true,
		}).Create(&completion)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already completed, nothing to recompute
			return nil
		}
		wasNew = true

		return s.refresh(tx, &enrollment)
	})
	if err != nil {
		return nil, false, err
	}

	return &enrollment, wasNew, nil
}

// refresh recomputes the enrollment's progress and persists the result.
// Both the numerator and the denominator are scoped to the live published,
// non-deleted content set: completions of since-unpublished items do not
// count, so progress can only reach 100 when every published item is done.
func (s *Service) refresh(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	publishedContent := tx.Model(&courseModels.CourseContent{}).
		Select("id").
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true)

	var totalContent int64
	if err := tx.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).
		Count(&totalContent).Error; err != nil {
		return err
	}

	var completedIDs []uint
	if err := tx.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", enrollment.UserID, enrollment.CourseID, false).
		Where("course_content_id IN (?)", publishedContent).
		Pluck("course_content_id", &completedIDs).Error; err != nil {
		return err
	}

	enrollment.TotalContents = int(totalContent)
	enrollment.CompletedContents = len(completedIDs)
	enrollment.Progress = Compute(int(totalContent), completedIDs)

	switch {
	case enrollment.Progress >= 100:
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	case enrollment.Progress > 0:
		enrollment.Status = "IN_PROGRESS"
		enrollment.CompletedAt = nil
	default:
		enrollment.Status = "ENROLLED"
		enrollment.CompletedAt = nil
	}

	return tx.Save(enrollment).Error
}

// RefreshCourse recomputes progress for every enrollment of a course. Used
// after the published content set changes, since adding or removing content
// shifts every student's percentage.
func (s *Service) RefreshCourse(courseID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var enrollments []courseModels.Enrollment
		if err := lockForUpdate(tx).Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&enrollments).Error; err != nil {
			return err
		}
		for i := range enrollments {
			if err := s.refresh(tx, &enrollments[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetProgress returns the user's enrollment with its completion records and
// the live published content count. Read-only: a missing enrollment is an
// error, never auto-created.
func (s *Service) GetProgress(userID, courseID uint) (*courseModels.Enrollment, []courseModels.ContentCompletion, int64, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, ErrEnrollmentNotFound
		}
		return nil, nil, 0, err
	}

	var completions []courseModels.ContentCompletion
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completions).Error; err != nil {
		return nil, nil, 0, err
	}

	var totalContent int64
	s.db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalContent)

	return &enrollment, completions, totalContent, nil
}
