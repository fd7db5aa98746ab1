package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/certificate"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mcqFixture struct {
	db      *gorm.DB
	app     *fiber.App
	user    *models.User
	course  *courseModels.Course
	content *courseModels.CourseContent
	correct *courseModels.MCQOption
}

func setupMCQTest(t *testing.T) *mcqFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	database.RunMigrations(db)
	database.Database.Db = db

	Setup(
		progress.NewService(db),
		certificate.NewService(db, certificate.NewHTMLRenderer(), certificate.NewLocalStore(t.TempDir(), "/uploads"), "LMS Academy"),
	)

	user := models.User{Name: "Test Student", Email: "student@test.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	crs := courseModels.Course{Title: "Go Basics", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)
	module := courseModels.Module{CourseID: crs.ID, Title: "Module 1"}
	require.NoError(t, db.Create(&module).Error)

	// Two published items so a single completion lands at 50 percent
	lesson := courseModels.CourseContent{CourseID: crs.ID, ModuleID: module.ID, Title: "Lesson 1", ContentType: "TEXT", IsPublished: true}
	require.NoError(t, db.Create(&lesson).Error)
	quiz := courseModels.CourseContent{CourseID: crs.ID, ModuleID: module.ID, Title: "Quiz 1", ContentType: "MCQ", IsPublished: true}
	require.NoError(t, db.Create(&quiz).Error)

	correct := courseModels.MCQOption{ContentID: quiz.ID, OptionText: "Right", IsCorrect: true}
	require.NoError(t, db.Create(&correct).Error)
	wrong := courseModels.MCQOption{ContentID: quiz.ID, OptionText: "Wrong", IsCorrect: false}
	require.NoError(t, db.Create(&wrong).Error)

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: crs.ID, Status: "ENROLLED"}
	require.NoError(t, db.Create(&enrollment).Error)

	app := fiber.New()
	app.Post("/course/:course_id/mcq/:content_id/submit", func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("courseID", int(crs.ID))
		c.Locals("contentID", int(quiz.ID))
		return c.Next()
	}, SubmitMCQAnswer)

	return &mcqFixture{db: db, app: app, user: &user, course: &crs, content: &quiz, correct: &correct}
}

func (f *mcqFixture) submit(t *testing.T, optionIDs []uint) (int, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(fiber.Map{"selected_option_ids": optionIDs})
	require.NoError(t, err)

	target := fmt.Sprintf("/course/%d/mcq/%d/submit", f.course.ID, f.content.ID)
	req := httptest.NewRequest("POST", target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestSubmitMCQAnswerCorrectUpdatesProgress(t *testing.T) {
	f := setupMCQTest(t)

	status, body := f.submit(t, []uint{f.correct.ID})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_correct"])
	assert.EqualValues(t, 50, data["progress"])
	assert.Equal(t, false, data["certificate_pending"])

	var enrollment courseModels.Enrollment
	require.NoError(t, f.db.Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).First(&enrollment).Error)
	assert.Equal(t, 50, enrollment.Progress)
}

func TestSubmitMCQAnswerCompletionFailureIsSurfaced(t *testing.T) {
	f := setupMCQTest(t)

	// A correct answer whose completion write fails must not report
	// success with a stale percentage
	require.NoError(t, f.db.Migrator().DropTable(&courseModels.ContentCompletion{}))

	status, body := f.submit(t, []uint{f.correct.ID})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["status"])

	var enrollment courseModels.Enrollment
	require.NoError(t, f.db.Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
}
