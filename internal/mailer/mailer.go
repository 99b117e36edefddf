// Package mailer sends outbound email through SendGrid. Delivery is best
// effort from the platform's point of view: callers treat failures as soft
// and never roll back business state over a lost email.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendVerificationCode(ctx context.Context, toEmail, toName, code string) error
	SendNewCode(ctx context.Context, toEmail, toName, code string) error
}

// SendGridMailer implements Mailer over the SendGrid v3 API with an
// enforced per-send timeout.
type SendGridMailer struct {
	client   *sendgrid.Client
	from     *mail.Email
	timeout  time.Duration
	validity time.Duration
}

var _ Mailer = (*SendGridMailer)(nil)

// New creates a SendGrid-backed mailer.
func New(apiKey, fromEmail, fromName string, timeout, codeValidity time.Duration) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromEmail),
		timeout:  timeout,
		validity: codeValidity,
	}
}

// SendVerificationCode sends the signup welcome email with the code.
func (m *SendGridMailer) SendVerificationCode(ctx context.Context, toEmail, toName, code string) error {
	subject := "Welcome to Vantage Lingua Hub – Verify Your Account"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Thank you for signing up for Vantage Lingua Hub!\n\n"+
			"To complete your registration, please enter the 6-digit verification code below:\n\n"+
			"%s\n\n"+
			"This code expires in %d minutes.\n\n"+
			"If you did not create this account, you may safely ignore this email.\n\n"+
			"Warm regards,\nVantage Lingua Hub Team",
		greeting(toName), code, int(m.validity.Minutes()))
	return m.send(ctx, toEmail, toName, subject, body)
}

// SendNewCode sends a re-issued code after a resend request.
func (m *SendGridMailer) SendNewCode(ctx context.Context, toEmail, toName, code string) error {
	subject := "Vantage Lingua Hub – Your New Verification Code"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Here is your new 6-digit verification code:\n\n"+
			"%s\n\n"+
			"This code expires in %d minutes.\n\n"+
			"If you did not request this code, you may safely ignore this email.\n\n"+
			"Warm regards,\nVantage Lingua Hub Team",
		greeting(toName), code, int(m.validity.Minutes()))
	return m.send(ctx, toEmail, toName, subject, body)
}

func (m *SendGridMailer) send(ctx context.Context, toEmail, toName, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	msg := mail.NewSingleEmailPlainText(m.from, subject, mail.NewEmail(toName, toEmail), body)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func greeting(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
