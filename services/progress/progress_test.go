package progress

import (
	"fmt"
	"sync"
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Name: "Test Student", Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createPublishedCourse(t *testing.T, db *gorm.DB) *courseModels.Course {
	t.Helper()
	crs := courseModels.Course{Title: "Go Basics", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)
	return &crs
}

func createPublishedContent(t *testing.T, db *gorm.DB, courseID uint, n int) []courseModels.CourseContent {
	t.Helper()
	module := courseModels.Module{CourseID: courseID, Title: "Module 1"}
	require.NoError(t, db.Create(&module).Error)

	contents := make([]courseModels.CourseContent, n)
	for i := 0; i < n; i++ {
		contents[i] = courseModels.CourseContent{
			CourseID:    courseID,
			ModuleID:    module.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			ContentType: "TEXT",
			IsPublished: true,
		}
		require.NoError(t, db.Create(&contents[i]).Error)
	}
	return contents
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		totalContent int
		completedIDs []uint
		want         int
	}{
		{"no content", 0, nil, 0},
		{"no content with stale completions", 0, []uint{1, 2}, 0},
		{"nothing completed", 5, nil, 0},
		{"one of three rounds to 33", 3, []uint{1}, 33},
		{"two of three rounds to 67", 3, []uint{1, 2}, 67},
		{"all completed", 3, []uint{1, 2, 3}, 100},
		{"half", 2, []uint{1}, 50},
		{"duplicates never double count", 3, []uint{1, 1, 1}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.totalContent, tt.completedIDs))
		})
	}
}

func TestEnroll(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)

	enrollment, err := svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, "ENROLLED", enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)

	// Second enrollment for the same pair is rejected
	_, err = svc.Enroll(user.ID, crs.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, crs.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	draft := courseModels.Course{Title: "Draft", Status: "DRAFT", IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)

	_, err := svc.Enroll(user.ID, draft.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Enroll(user.ID, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestRecordCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 3)

	_, err := svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	enrollment, wasNew, err := svc.RecordCompletion(user.ID, crs.ID, contents[0].ID)
	require.NoError(t, err)
	assert.True(t, wasNew)
	assert.Equal(t, 33, enrollment.Progress)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)

	enrollment, wasNew, err = svc.RecordCompletion(user.ID, crs.ID, contents[1].ID)
	require.NoError(t, err)
	assert.True(t, wasNew)
	assert.Equal(t, 67, enrollment.Progress)

	enrollment, wasNew, err = svc.RecordCompletion(user.ID, crs.ID, contents[2].ID)
	require.NoError(t, err)
	assert.True(t, wasNew)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestRecordCompletionIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 2)

	_, err := svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	_, wasNew, err := svc.RecordCompletion(user.ID, crs.ID, contents[0].ID)
	require.NoError(t, err)
	assert.True(t, wasNew)

	// Completing the same item again must not change anything
	enrollment, wasNew, err := svc.RecordCompletion(user.ID, crs.ID, contents[0].ID)
	require.NoError(t, err)
	assert.False(t, wasNew)
	assert.Equal(t, 50, enrollment.Progress)

	var count int64
	db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_content_id = ?", user.ID, contents[0].ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordCompletionErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 1)

	// Not enrolled
	_, _, err := svc.RecordCompletion(user.ID, crs.ID, contents[0].ID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	_, err = svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	// Unknown content
	_, _, err = svc.RecordCompletion(user.ID, crs.ID, 9999)
	assert.ErrorIs(t, err, ErrContentNotFound)

	// Unpublished content does not count
	draft := courseModels.CourseContent{CourseID: crs.ID, ModuleID: contents[0].ModuleID, Title: "Draft", IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)
	_, _, err = svc.RecordCompletion(user.ID, crs.ID, draft.ID)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestRecordCompletionConcurrent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 4)

	_, err := svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	// Distinct items completed concurrently must all land
	var wg sync.WaitGroup
	for _, content := range contents {
		wg.Add(1)
		go func(contentID uint) {
			defer wg.Done()
			_, _, err := svc.RecordCompletion(user.ID, crs.ID, contentID)
			assert.NoError(t, err)
		}(content.ID)
	}
	wg.Wait()

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, "COMPLETED", enrollment.Status)
}

func TestRefreshCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 2)

	_, err := svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	for _, content := range contents {
		_, _, err := svc.RecordCompletion(user.ID, crs.ID, content.ID)
		require.NoError(t, err)
	}

	// Publishing new content shrinks everyone's percentage
	extra := courseModels.CourseContent{CourseID: crs.ID, ModuleID: contents[0].ModuleID, Title: "Lesson 3", IsPublished: true}
	require.NoError(t, db.Create(&extra).Error)
	require.NoError(t, svc.RefreshCourse(crs.ID))

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, 67, enrollment.Progress)
	assert.Equal(t, 3, enrollment.TotalContents)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestRefreshCourseIgnoresUnpublishedCompletions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 3)

	_, err := svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	for _, content := range contents[:2] {
		_, _, err := svc.RecordCompletion(user.ID, crs.ID, content.ID)
		require.NoError(t, err)
	}

	// Unpublishing a completed item removes it from both sides of the
	// ratio: 1 of 2 remaining published items is done, not 2 of 2
	require.NoError(t, db.Model(&courseModels.CourseContent{}).
		Where("id = ?", contents[1].ID).Update("is_published", false).Error)
	require.NoError(t, svc.RefreshCourse(crs.ID))

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, 50, enrollment.Progress)
	assert.Equal(t, 2, enrollment.TotalContents)
	assert.Equal(t, 1, enrollment.CompletedContents)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)

	// Soft-deleted content drops out the same way
	require.NoError(t, db.Model(&courseModels.CourseContent{}).
		Where("id = ?", contents[0].ID).Update("is_deleted", true).Error)
	require.NoError(t, svc.RefreshCourse(crs.ID))

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Equal(t, "ENROLLED", enrollment.Status)
}

func TestRecordCompletionLocksEnrollmentRow(t *testing.T) {
	// On drivers with row locks the enrollment read must carry FOR UPDATE,
	// otherwise two concurrent completions recompute from snapshots that
	// miss each other's insert and the later commit stores a stale
	// percentage.
	dry, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var enrollment courseModels.Enrollment
	stmt := lockForUpdate(dry).Where("user_id = ? AND course_id = ?", 1, 2).Find(&enrollment).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")

	// SQLite has no FOR UPDATE syntax; its single writer serializes instead
	sq := setupTestDB(t)
	stmt2 := lockForUpdate(sq.Session(&gorm.Session{DryRun: true})).Where("user_id = ?", 1).Find(&enrollment).Statement
	assert.NotContains(t, stmt2.SQL.String(), "FOR UPDATE")
}

func TestGetProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := createUser(t, db, "student@test.com")
	crs := createPublishedCourse(t, db)
	contents := createPublishedContent(t, db, crs.ID, 3)

	// No enrollment is an error, never auto-created
	_, _, _, err := svc.GetProgress(user.ID, crs.ID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	_, err = svc.Enroll(user.ID, crs.ID)
	require.NoError(t, err)

	_, _, err = svc.RecordCompletion(user.ID, crs.ID, contents[0].ID)
	require.NoError(t, err)

	enrollment, completions, total, err := svc.GetProgress(user.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, enrollment.Progress)
	assert.Len(t, completions, 1)
	assert.EqualValues(t, 3, total)
}
