package utils

import (
	"lms/services/certificate"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CERT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartCertificateScheduler retries pending certificate issuance every
// minute. Jobs stay PENDING while the renderer or artifact store is down
// and are picked up again on the next sweep.
func StartCertificateScheduler(svc *certificate.Service) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("* * * * *", func() {
		svc.SweepPending()
	})
	if err != nil {
		logScheduler("Failed to register pending-certificate sweep: " + err.Error())
		return c
	}

	c.Start()
	logScheduler("Certificate scheduler started")
	return c
}
