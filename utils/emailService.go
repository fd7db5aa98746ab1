package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid
func SendEmail(to, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("Skipping email to %s (%s): SendGrid not configured", to, subject)
		return nil
	}

	from := mail.NewEmail("LMS Academy", config.AppConfig.EmailSender)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", to, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid rejected email, code: %d", resp.StatusCode)
	}
	return nil
}

// HTML wrapper shared by all transactional emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.otp { text-align: center; color: #d7b56d; font-size: 40px; margin: 20px 0; letter-spacing: 6px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">This is an automated message. Please do not reply.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendOTPEmail sends the verification OTP
func SendOTPEmail(otp, email string) error {
	body := fmt.Sprintf(`
		<h2>Verification Code</h2>
		<p>Your One Time Password (OTP) is:</p>
		<div class="otp">%s</div>
		<p>The code expires in 5 minutes. Do not share it with anyone.</p>
	`, otp)

	return SendEmail(email, "", "OTP Verification Code", getEmailTemplate("LMS Academy", body))
}

// SendEnrollmentEmail notifies a user about a successful course enrollment
func SendEnrollmentEmail(email, userName, courseName string) error {
	body := fmt.Sprintf(`
		<h2>Welcome aboard, %s!</h2>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Head over to your dashboard to start learning.</p>
	`, userName, courseName)

	return SendEmail(email, userName, "Course Enrollment Confirmation", getEmailTemplate("LMS Academy", body))
}

// SendCertificateEmail notifies a user that their certificate is ready
func SendCertificateEmail(email, userName, courseName, certificateURL string) error {
	body := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You have completed <strong>%s</strong> and your certificate has been issued.</p>
		<a class="btn" href="%s">View Certificate</a>
	`, userName, courseName, certificateURL)

	return SendEmail(email, userName, "Your Certificate Is Ready", getEmailTemplate("LMS Academy", body))
}
