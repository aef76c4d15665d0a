package smtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/hr-compass/internal/domain"
)

const otpSubject = "Your HR Bot verification code"

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #f0f0f0; border-radius: 5px;">
  <h1 style="color: #333; text-align: center;">HR Bot Verification</h1>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 4px; text-align: center; margin: 20px 0;">
    <p style="margin-bottom: 10px; font-size: 16px;">Your verification code is:</p>
    <h2 style="color: #0066cc; letter-spacing: 2px; font-size: 32px; margin: 10px 0;">{{.Code}}</h2>
    <p style="color: #666; font-size: 14px;">This code will expire in {{.Minutes}} minutes.</p>
  </div>
  <p style="color: #888; text-align: center; font-size: 12px; margin-top: 20px;">
    If you didn't request this code, please ignore this email.
  </p>
</div>
`))

// OTPNotifier delivers verification codes by email.
type OTPNotifier struct {
	mailer Mailer
}

func NewOTPNotifier(m Mailer) *OTPNotifier {
	return &OTPNotifier{mailer: m}
}

// SendCode mails code to email. A missing mail credential is reported as
// domain.ErrMailNotConfigured; any other failure is returned as is.
func (n *OTPNotifier) SendCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	err := otpTemplate.Execute(&body, struct {
		Code    string
		Minutes int
	}{code, int(math.Ceil(ttl.Minutes()))})
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	err = n.mailer.SendHTML(email, otpSubject, body.String())
	if errors.Is(err, ErrNotConfigured) {
		return domain.ErrMailNotConfigured
	}
	return err
}
