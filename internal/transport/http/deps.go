package http

import (
	"log/slog"

	"github.com/email-verify-api/internal/application/verification"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo verification.Store
	UserRepo         verification.AccountChecker
	Mailer           verification.Mailer
	Cipher           verification.Cipher
	ResendLimiter    verification.ResendLimiter
	Reporter         verification.ErrorReporter
	Logger           *slog.Logger
}
