package services

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"

	"smarthire/internal/models"
)

// Notifier delivers the hiring decision to the candidate. Sending happens
// before the decision is recorded; a send failure must block the status
// transition, so implementations fail loudly instead of silently skipping.
type Notifier interface {
	Notify(ctx context.Context, candidate *models.Candidate, outcome models.InterviewStatus, positionTitle string) error
}

type smtpNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPNotifier(host string, port int, username, password, from string) Notifier {
	return &smtpNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Notify implements Notifier.
func (n *smtpNotifier) Notify(ctx context.Context, candidate *models.Candidate, outcome models.InterviewStatus, positionTitle string) error {
	if n.host == "" {
		return fmt.Errorf("smtp notifier not configured")
	}

	subject, body := decisionMessage(candidate.FullName, outcome, positionTitle)
	if subject == "" {
		return fmt.Errorf("no notification template for outcome %q", outcome)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(candidate.Email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(n.port)}
	if n.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.username),
			mail.WithPassword(n.password),
		)
	}

	client, err := mail.NewClient(n.host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", outcome, err)
	}

	log.Printf("✅ Decision email (%s) sent to %s\n", outcome, candidate.Email)
	return nil
}

func decisionMessage(candidateName string, outcome models.InterviewStatus, positionTitle string) (string, string) {
	switch outcome {
	case models.InterviewAccepted:
		subject := fmt.Sprintf("Congratulations! Job Offer - %s", positionTitle)
		body := fmt.Sprintf(`Dear %s,

Thank you for taking the time to interview for the %s position. We enjoyed getting to know you and were impressed by your skills and experience.

We are pleased to inform you that we would like to offer you the %s position at our company!

We believe your past experience and strong technical skills will be an asset to our organization.

Next Steps:
- Please respond to this email within 7 days to confirm your acceptance
- Our HR team will reach out with more details about the onboarding process

If you have any questions, please don't hesitate to reach out.

We look forward to welcoming you to our team!

Best regards,
Human Resources Team
SmartHire
`, candidateName, positionTitle, positionTitle)
		return subject, body

	case models.InterviewRejected:
		subject := fmt.Sprintf("Your Application to SmartHire - %s", positionTitle)
		body := fmt.Sprintf(`Dear %s,

Thank you for taking the time to interview for the %s position at SmartHire. We appreciate your interest in joining our team.

After careful consideration, we have decided to move forward with another candidate whose experience more closely aligns with our current needs.

This was a difficult decision as we were impressed by your qualifications. We encourage you to apply for future openings that match your skills and experience.

We will keep your resume on file and may reach out if a suitable position becomes available.

We wish you all the best in your job search and future career endeavors.

Warm regards,
Human Resources Team
SmartHire
`, candidateName, positionTitle)
		return subject, body
	}

	return "", ""
}
