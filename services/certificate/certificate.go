package certificate

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrCourseNotCompleted  = errors.New("course not completed")
	ErrCertificateNotFound = errors.New("certificate not found")
	// ErrArtifactUnavailable marks renderer/storage failures. Issuance is
	// retried later; the caller's completion state is already durable.
	ErrArtifactUnavailable = errors.New("certificate artifact service unavailable")
)

// Service issues completion certificates at most once per (user, course).
// The only state transition is none -> issued; there is no revocation.
type Service struct {
	db       *gorm.DB
	renderer Renderer
	store    Store
	issuer   string
	onIssued func(email, userName, courseTitle, certificateURL string) error
}

func NewService(db *gorm.DB, renderer Renderer, store Store, issuer string) *Service {
	return &Service{db: db, renderer: renderer, store: store, issuer: issuer}
}

// SetNotifier registers a callback invoked after a certificate is first
// issued, used to send the congratulation email
func (s *Service) SetNotifier(fn func(email, userName, courseTitle, certificateURL string) error) {
	s.onIssued = fn
}

// GetOrIssue returns the existing certificate for the pair, or renders and
// creates one when the enrollment has reached 100% progress. Concurrent
// issuance races are settled by the (user_id, course_id) unique index: the
// losing insert affects zero rows and the winner's record is returned.
func (s *Service) GetOrIssue(userID, courseID uint) (*courseModels.Certificate, error) {
	var existing courseModels.Certificate
	err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.Progress < 100 {
		return nil, ErrCourseNotCompleted
	}

	var user models.User
	if err := s.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, err
	}
	var crs courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return nil, err
	}

	number := uuid.NewString()
	issuedAt := time.Now()

	artifact, err := s.renderer.Render(TemplateData{
		StudentName:       user.Name,
		CourseTitle:       crs.Title,
		CertificateNumber: number,
		Issuer:            s.issuer,
		IssuedAt:          issuedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrArtifactUnavailable, err)
	}

	fileURL, err := s.store.Put(fmt.Sprintf("certificate-%s.html", number), artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: store: %v", ErrArtifactUnavailable, err)
	}

	cert := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: number,
		CertificateURL:    fileURL,
		IssuedAt:          issuedAt,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&cert)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race; the winner's certificate is the certificate
		var winner courseModels.Certificate
		if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&winner).Error; err != nil {
			return nil, err
		}
		return &winner, nil
	}

	if s.onIssued != nil {
		go func() {
			if err := s.onIssued(user.Email, user.Name, crs.Title, cert.CertificateURL); err != nil {
				log.Printf("[CERTIFICATE] Failed to send issuance email to %s: %v", user.Email, err)
			}
		}()
	}

	return &cert, nil
}

// Dispatch enqueues certificate issuance for a completed enrollment and
// kicks off an immediate attempt in the background. Called after the
// progress update has committed, so a renderer outage can only delay the
// certificate, never the completion itself.
func (s *Service) Dispatch(userID, courseID uint) {
	job := courseModels.CertificateJob{
		UserID:   userID,
		CourseID: courseID,
		Status:   "PENDING",
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&job)
	if result.Error != nil {
		log.Printf("[CERTIFICATE] Failed to enqueue job for user %d course %d: %v", userID, courseID, result.Error)
		return
	}

	go s.process(userID, courseID)
}

// SweepPending retries issuance for all PENDING jobs. Run from the cron
// scheduler.
func (s *Service) SweepPending() {
	var jobs []courseModels.CertificateJob
	if err := s.db.Where("status = ? AND is_deleted = ?", "PENDING", false).Find(&jobs).Error; err != nil {
		log.Printf("[CERTIFICATE] Failed to fetch pending jobs: %v", err)
		return
	}

	for _, job := range jobs {
		s.process(job.UserID, job.CourseID)
	}
}

func (s *Service) process(userID, courseID uint) {
	cert, err := s.GetOrIssue(userID, courseID)

	updates := map[string]interface{}{"attempts": gorm.Expr("attempts + 1")}
	if err != nil {
		updates["last_error"] = err.Error()
		log.Printf("[CERTIFICATE] Issuance pending for user %d course %d: %v", userID, courseID, err)
	} else {
		updates["status"] = "ISSUED"
		updates["last_error"] = ""
		log.Printf("[CERTIFICATE] Issued certificate %s for user %d course %d", cert.CertificateNumber, userID, courseID)
	}

	if err := s.db.Model(&courseModels.CertificateJob{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Updates(updates).Error; err != nil {
		log.Printf("[CERTIFICATE] Failed to update job for user %d course %d: %v", userID, courseID, err)
	}
}

// VerificationResult is the public view of an issued certificate
type VerificationResult struct {
	Valid       bool      `json:"valid"`
	StudentName string    `json:"student_name,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	IssuedAt    time.Time `json:"issued_at,omitempty"`
}

// Verify looks up a certificate by its public number
func (s *Service) Verify(certificateNumber string) (*VerificationResult, error) {
	var cert courseModels.Certificate
	if err := s.db.Where("certificate_number = ? AND is_deleted = ?", certificateNumber, false).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{Valid: false}, nil
		}
		return nil, err
	}

	var user models.User
	var crs courseModels.Course
	s.db.Where("id = ?", cert.UserID).First(&user)
	s.db.Where("id = ?", cert.CourseID).First(&crs)

	return &VerificationResult{
		Valid:       true,
		StudentName: user.Name,
		CourseTitle: crs.Title,
		IssuedAt:    cert.IssuedAt,
	}, nil
}
