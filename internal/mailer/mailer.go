// Package mailer delivers account emails over SMTP. Callers treat delivery
// as best-effort: failures are logged by the caller and never roll back the
// flow that requested the email.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Config is the outbound-mail configuration, loaded once at startup.
type Config struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	FrontendURL string
}

// Mailer sends confirmation and password-reset emails.
type Mailer struct {
	client      *mail.Client
	from        string
	frontendURL string
}

// New builds a Mailer from cfg.
func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = "Taskly <admin@taskly.com>"
	}

	return &Mailer{client: client, from: from, frontendURL: cfg.FrontendURL}, nil
}

// SendConfirmation emails the account-confirmation code.
func (m *Mailer) SendConfirmation(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf(`<p>Hi %s, you've created your Taskly account, and you're almost ready to go. You just need to confirm your account.</p>
<p>Go to this link:</p>
<a href="%s/auth/confirm-account">Confirm Account</a>
<p>And add this code: <b>%s</b></p>
<p>This code expires in 10 minutes</p>`, name, m.frontendURL, code)

	return m.send(ctx, email, "Taskly - Confirm your account", body)
}

// SendPasswordReset emails the password-reset code.
func (m *Mailer) SendPasswordReset(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf(`<p>Hi %s, you have requested to reset your password.</p>
<p>Go to this link:</p>
<a href="%s/auth/new-password">Reset Password</a>
<p>And add this code: <b>%s</b></p>
<p>This code expires in 10 minutes</p>`, name, m.frontendURL, code)

	return m.send(ctx, email, "Taskly - Reset your password", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
