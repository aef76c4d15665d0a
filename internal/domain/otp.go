package domain

import "time"

// Otp is one issued passcode. At most one row exists per email.
type Otp struct {
	OtpID     string    `json:"id" dynamodbav:"otp_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	CodeHash  string    `json:"-" dynamodbav:"code_hash"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

// Active reports whether the code can still be redeemed at now.
func (o *Otp) Active(now time.Time) bool {
	return o.ExpiresAt.After(now)
}

// Intent is the caller-declared purpose of an issuance or redemption.
type Intent string

const (
	IntentNone        Intent = ""
	IntentSignup      Intent = "signup"
	IntentLogin       Intent = "login"
	IntentVerifyLogin Intent = "verify-login"
)

type IssueOTPRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action" validate:"omitempty,oneof=signup verify-login"`
}

type RedeemOTPRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	Action      string `json:"action"`
	CallbackURL string `json:"callback_url,omitempty"`
}
