package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/service"
)

// SMTPMailer delivers transactional mail over SMTP.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

var _ service.Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// SendWelcome greets a freshly signed-up account and points it at the
// account page.
func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name, url string) error {
	body, err := renderMail(mailContent{
		Title:    "Welcome to the Trailbound family!",
		Name:     firstName(name),
		Lines:    []string{"We're glad to have you on board.", "Upload a profile photo and tell us a bit about yourself so guides can get to know you."},
		CTALabel: "Visit your account",
		CTAURL:   url,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Welcome to the Trailbound family!", body)
}

// SendPasswordReset mails the single-use reset link. The link expires
// shortly after issue, so the copy says so.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	body, err := renderMail(mailContent{
		Title:    "Your password reset token (valid for only 10 minutes)",
		Name:     firstName(name),
		Lines:    []string{"Forgot your password? Submit a new password using the button below.", "If you didn't forget your password, please ignore this email."},
		CTALabel: "Reset your password",
		CTAURL:   resetURL,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Your password reset token (valid for only 10 minutes)", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.fromName, m.from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type mailContent struct {
	Title    string
	Name     string
	Lines    []string
	CTALabel string
	CTAURL   string
}

var mailTemplate = template.Must(template.New("mail").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;color:#333;max-width:600px;margin:0 auto;padding:20px;">
  <h2>{{.Title}}</h2>
  <p>Hi {{.Name}},</p>
  {{range .Lines}}<p>{{.}}</p>
  {{end}}<p style="margin-top:24px;">
    <a href="{{.CTAURL}}" style="display:inline-block;padding:12px 24px;text-decoration:none;border-radius:5px;background-color:#55c57a;color:#fff;">{{.CTALabel}}</a>
  </p>
  <p>If the button does not work, copy this link into your browser: {{.CTAURL}}</p>
  <p>- The Trailbound Team</p>
</body>
</html>`))

func renderMail(content mailContent) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplate.Execute(&buf, content); err != nil {
		return "", fmt.Errorf("render mail: %w", err)
	}
	return buf.String(), nil
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}
