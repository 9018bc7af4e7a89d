package mailer

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/wneessen/go-mail"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(PasswordResetSubject)
	msg.SetBodyString(mail.TypeTextHTML, PasswordResetBody(resetLink))

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// LogMailer writes the reset link to the log instead of sending it. Used when
// no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	log.Printf("Password reset requested for %s: %s", to, resetLink)
	return nil
}

const PasswordResetSubject = "Password Reset Request"

func PasswordResetBody(resetLink string) string {
	link := html.EscapeString(resetLink)
	return fmt.Sprintf(`<h1>You have requested a password reset</h1>
<p>Please go to this link to reset your password:</p>
<a href="%s" clicktracking=off>%s</a>
<p>This link expires in 15 minutes.</p>`, link, link)
}
