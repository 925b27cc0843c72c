package domain

import "time"

// EmailVerification is the single verification record kept per email address.
// PK: email. A resend overwrites the item in place.
type EmailVerification struct {
	VerificationID string     `json:"id" dynamodbav:"verification_id"`
	Email          string     `json:"email" dynamodbav:"email"`
	SecretCode     string     `json:"-" dynamodbav:"secret_code"` // base64 AES-GCM ciphertext
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	IsSend         bool       `json:"is_send" dynamodbav:"is_send"`
	SentAt         time.Time  `json:"sent_at" dynamodbav:"sent_at"`
	Confirmation   bool       `json:"confirmation" dynamodbav:"confirmation"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty" dynamodbav:"confirmed_at"`
}

// Expired reports whether the code issued at CreatedAt is no longer usable at now.
func (v *EmailVerification) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(v.CreatedAt) > window
}

// SendCodeRequest is the body of a code issuance request.
type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmCodeRequest is the body of a code confirmation request.
type ConfirmCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}
