package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCompletionNotice(toEmail, participantName, participantID string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
	}
}

// SendCompletionNotice tells the researcher a participant finished the
// full survey, so data collection progress is visible without opening the
// dashboard.
func (s *emailService) SendCompletionNotice(toEmail, participantName, participantID string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Survey Completed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A participant completed the survey</h2>
			<p>Participant: <strong>%s</strong></p>
			<p>Participant ID: %s</p>
			<p>Full conversation transcripts and ratings are available in the admin dashboard.</p>
		</div>
	`, participantName, participantID)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send completion notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Completion notice sent to %s\n", toEmail)
	return nil
}
