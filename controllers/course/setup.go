package controllers

import (
	"lms/services/certificate"
	"lms/services/progress"
)

var (
	progressService    *progress.Service
	certificateService *certificate.Service
)

// Setup injects the domain services used by the course handlers
func Setup(ps *progress.Service, cs *certificate.Service) {
	progressService = ps
	certificateService = cs
}
