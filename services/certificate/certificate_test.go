package certificate

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (r *fakeRenderer) Render(data TemplateData) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail {
		return nil, errors.New("renderer down")
	}
	return []byte("<html>" + data.StudentName + "</html>"), nil
}

type fakeStore struct {
	mu   sync.Mutex
	puts []string
	fail bool
}

func (s *fakeStore) Put(name string, artifact []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("store down")
	}
	s.puts = append(s.puts, name)
	return "/uploads/certificates/" + name, nil
}

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

func seedCompletedEnrollment(t *testing.T, db *gorm.DB, progress int) (*models.User, *courseModels.Course) {
	t.Helper()

	user := models.User{Name: "Test Student", Email: fmt.Sprintf("s%d@test.com", time.Now().UnixNano()), Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	crs := courseModels.Course{Title: "Go Basics", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)

	status := "IN_PROGRESS"
	var completedAt *time.Time
	if progress >= 100 {
		status = "COMPLETED"
		now := time.Now()
		completedAt = &now
	}
	enrollment := courseModels.Enrollment{
		UserID:      user.ID,
		CourseID:    crs.ID,
		Status:      status,
		Progress:    progress,
		CompletedAt: completedAt,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return &user, &crs
}

func TestGetOrIssue(t *testing.T) {
	db := setupTestDB(t)
	renderer := &fakeRenderer{}
	store := &fakeStore{}
	svc := NewService(db, renderer, store, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	cert, err := svc.GetOrIssue(user.ID, crs.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.CertificateNumber)
	assert.Contains(t, cert.CertificateURL, cert.CertificateNumber)
	assert.Len(t, store.puts, 1)

	// Second request returns the same certificate without re-rendering
	again, err := svc.GetOrIssue(user.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, again.CertificateNumber)
	assert.Len(t, store.puts, 1)
}

func TestGetOrIssueRequiresCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeRenderer{}, &fakeStore{}, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 67)

	_, err := svc.GetOrIssue(user.ID, crs.ID)
	assert.ErrorIs(t, err, ErrCourseNotCompleted)

	// Not enrolled at all
	_, err = svc.GetOrIssue(user.ID, crs.ID+100)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestGetOrIssueRendererDown(t *testing.T) {
	db := setupTestDB(t)
	renderer := &fakeRenderer{fail: true}
	store := &fakeStore{}
	svc := NewService(db, renderer, store, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	_, err := svc.GetOrIssue(user.ID, crs.ID)
	assert.ErrorIs(t, err, ErrArtifactUnavailable)

	// No partial certificate row left behind
	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// Renderer recovers, issuance succeeds
	renderer.fail = false
	cert, err := svc.GetOrIssue(user.ID, crs.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.CertificateNumber)
}

func TestGetOrIssueStoreDown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeRenderer{}, &fakeStore{fail: true}, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	_, err := svc.GetOrIssue(user.ID, crs.ID)
	assert.ErrorIs(t, err, ErrArtifactUnavailable)
}

func TestGetOrIssueConcurrent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeRenderer{}, &fakeStore{}, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	// Concurrent requests must all see the same certificate
	results := make([]string, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, err := svc.GetOrIssue(user.ID, crs.ID)
			if assert.NoError(t, err) {
				results[i] = cert.CertificateNumber
			}
		}(i)
	}
	wg.Wait()

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, crs.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	for _, number := range results[1:] {
		assert.Equal(t, results[0], number)
	}
}

func TestSweepPending(t *testing.T) {
	db := setupTestDB(t)
	renderer := &fakeRenderer{fail: true}
	svc := NewService(db, renderer, &fakeStore{}, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	job := courseModels.CertificateJob{UserID: user.ID, CourseID: crs.ID, Status: "PENDING"}
	require.NoError(t, db.Create(&job).Error)

	// Renderer down: job stays pending, attempt and error are recorded
	svc.SweepPending()

	var got courseModels.CertificateJob
	require.NoError(t, db.First(&got, job.ID).Error)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.NotEmpty(t, got.LastError)

	// Renderer recovers: next sweep issues the certificate
	renderer.fail = false
	svc.SweepPending()

	require.NoError(t, db.First(&got, job.ID).Error)
	assert.Equal(t, "ISSUED", got.Status)
	assert.Equal(t, 2, got.Attempts)
	assert.Empty(t, got.LastError)

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&cert).Error)
	assert.NotEmpty(t, cert.CertificateNumber)
}

func TestDispatchDedupes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeRenderer{}, &fakeStore{}, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	svc.Dispatch(user.ID, crs.ID)
	svc.Dispatch(user.ID, crs.ID)

	var count int64
	db.Model(&courseModels.CertificateJob{}).
		Where("user_id = ? AND course_id = ?", user.ID, crs.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestVerify(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeRenderer{}, &fakeStore{}, "LMS Academy")

	user, crs := seedCompletedEnrollment(t, db, 100)

	cert, err := svc.GetOrIssue(user.ID, crs.ID)
	require.NoError(t, err)

	result, err := svc.Verify(cert.CertificateNumber)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, user.Name, result.StudentName)
	assert.Equal(t, crs.Title, result.CourseTitle)

	result, err = svc.Verify("no-such-number")
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestHTMLRenderer(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.Render(TemplateData{
		StudentName:       "Jane Doe",
		CourseTitle:       "Go Basics",
		CertificateNumber: "abc-123",
		Issuer:            "LMS Academy",
		IssuedAt:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Go Basics")
	assert.Contains(t, html, "abc-123")
	assert.Contains(t, html, "14 March 2026")
}
