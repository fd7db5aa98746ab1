package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the issued proof of course completion. The composite
// unique index enforces at-most-once issuance per (user, course); when two
// concurrent issuance attempts race, the insert of the loser affects zero
// rows and the winner's record is returned instead.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_cert_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:uq_cert_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	CertificateURL    string    `json:"certificate_url"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}

// CertificateJob queues certificate rendering decoupled from the request
// that completed the course. The completion commit enqueues a job; a
// background sweep retries PENDING jobs until rendering succeeds, so an
// unavailable renderer never fails progress tracking.
type CertificateJob struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:uq_certjob_user_course"`
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:uq_certjob_user_course"`
	Status    string `json:"status" gorm:"default:'PENDING'"` // PENDING, ISSUED
	Attempts  int    `json:"attempts" gorm:"default:0"`
	LastError string `json:"last_error"`
	IsDeleted bool   `gorm:"default:false"`
}
