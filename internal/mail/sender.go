package mail

import (
	"fmt"

	"github.com/go-gomail/gomail"

	"github.com/peerassist/backend/internal/outbox"
)

// Sender delivers outbox messages over SMTP.
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send renders and delivers a single message.
func (s *Sender) Send(msg outbox.Message) error {
	subject, body, err := render(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return dialer.DialAndSend(m)
}

func render(msg outbox.Message) (subject, body string, err error) {
	switch msg.Kind {
	case outbox.KindAcceptance:
		subject = fmt.Sprintf("You were selected for %q", msg.TaskTitle)
		body = fmt.Sprintf("Good news! The poster of %q accepted your application. Check your scheduled tasks for details.", msg.TaskTitle)
	case outbox.KindCompletionCode:
		subject = fmt.Sprintf("Completion code for %q", msg.TaskTitle)
		body = fmt.Sprintf("A worker marked %q as done. Confirm with code %s.%s", msg.TaskTitle, msg.Code, expiryNote(msg))
	case outbox.KindPasswordReset:
		subject = "Your password reset code"
		body = fmt.Sprintf("Use code %s to reset your password.%s If you did not request this, ignore this mail.", msg.Code, expiryNote(msg))
	default:
		return "", "", fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	return subject, body, nil
}

func expiryNote(msg outbox.Message) string {
	if msg.ExpiresAt.IsZero() {
		return ""
	}
	return fmt.Sprintf(" The code expires at %s.", msg.ExpiresAt.UTC().Format("15:04 UTC on 2 Jan 2006"))
}
