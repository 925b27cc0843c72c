package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/email-verify-api/internal/domain"
	"github.com/email-verify-api/internal/pkg/id"
)

const (
	codeMin   = 100000
	codeRange = 900000 // codes fall in [codeMin, codeMin+codeRange)
)

// Store persists one verification record per email.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*domain.EmailVerification, error)
	Save(ctx context.Context, v *domain.EmailVerification) error
	// Confirm marks v confirmed at the given time only if the stored code and
	// issue time still match v. Returns domain.ErrConflict otherwise.
	Confirm(ctx context.Context, v *domain.EmailVerification, at time.Time) error
}

// AccountChecker answers whether an account already uses an email.
type AccountChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Mailer delivers the code to the user.
type Mailer interface {
	Send(to, subject, body, from string) error
}

// Cipher encrypts codes at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ResendLimiter consumes one issuance from a client's counter token.
type ResendLimiter interface {
	Next(token string) (next string, count int, err error)
}

// ErrorReporter ships internal faults to an error tracker.
type ErrorReporter interface {
	Capture(ctx context.Context, err error, attrs ...any)
}

type Service interface {
	IssueAndSend(ctx context.Context, email, resendToken string) (string, error)
	VerifyForSignup(ctx context.Context, email, code string) (bool, error)
	VerifyForReset(ctx context.Context, email, code string) (bool, error)
	ConfirmCode(ctx context.Context, email, code string) (bool, error)
}

// ServiceDeps groups the collaborators of the verification service.
type ServiceDeps struct {
	Store            Store
	Accounts         AccountChecker
	Mailer           Mailer
	Cipher           Cipher
	Limiter          ResendLimiter
	Reporter         ErrorReporter
	Logger           *slog.Logger
	ExpirationWindow time.Duration
	MailFrom         string
	MailSubject      string
	Now              func() time.Time
}

type service struct {
	store    Store
	accounts AccountChecker
	mailer   Mailer
	cipher   Cipher
	limiter  ResendLimiter
	reporter ErrorReporter
	log      *slog.Logger
	window   time.Duration
	from     string
	subject  string
	now      func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{
		store:    d.Store,
		accounts: d.Accounts,
		mailer:   d.Mailer,
		cipher:   d.Cipher,
		limiter:  d.Limiter,
		reporter: d.Reporter,
		log:      d.Logger,
		window:   d.ExpirationWindow,
		from:     d.MailFrom,
		subject:  d.MailSubject,
		now:      d.Now,
	}
	if s.reporter == nil {
		s.reporter = NopReporter{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// IssueAndSend generates a new code for email, stores it encrypted and mails it.
// The returned token must be handed back to the client for its next request.
func (s *service) IssueAndSend(ctx context.Context, email, resendToken string) (string, error) {
	next, _, err := s.limiter.Next(resendToken)
	if err != nil {
		return "", err
	}

	code, err := generateCode()
	if err != nil {
		return "", s.internal(ctx, "generate verification code", err, "email", email)
	}
	encrypted, err := s.cipher.Encrypt(code)
	if err != nil {
		return "", s.internal(ctx, "encrypt verification code", err, "email", email)
	}

	now := s.now().UTC()
	v, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		v = &domain.EmailVerification{VerificationID: id.New(), Email: email}
	case err != nil:
		return "", fmt.Errorf("load verification: %w", err)
	}
	v.SecretCode = encrypted
	v.CreatedAt = now
	v.IsSend = true
	v.SentAt = now
	v.Confirmation = false
	v.ConfirmedAt = nil
	if err := s.store.Save(ctx, v); err != nil {
		return "", fmt.Errorf("save verification: %w", err)
	}

	body := "Your email verification code is: " + code
	if err := s.mailer.Send(email, s.subject, body, s.from); err != nil {
		return "", fmt.Errorf("send verification email: %w", err)
	}
	return next, nil
}

// VerifyForSignup checks a code for an email that has no account yet.
func (s *service) VerifyForSignup(ctx context.Context, email, code string) (bool, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	if exists {
		return false, fmt.Errorf("account already registered: %w", domain.ErrDuplicateEmail)
	}
	return s.ConfirmCode(ctx, email, code)
}

// VerifyForReset checks a code for an email that belongs to an existing account.
func (s *service) VerifyForReset(ctx context.Context, email, code string) (bool, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("no account for email: %w", domain.ErrInvalidEmail)
	}
	return s.ConfirmCode(ctx, email, code)
}

// ConfirmCode reports whether code is the live code for email and, if so,
// marks the record confirmed. Wrong, expired or missing codes yield false.
func (s *service) ConfirmCode(ctx context.Context, email, code string) (bool, error) {
	v, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load verification: %w", err)
	}

	now := s.now().UTC()
	if v.Expired(now, s.window) {
		return false, nil
	}

	stored, err := s.cipher.Decrypt(v.SecretCode)
	if err != nil {
		return false, s.internal(ctx, "decrypt verification code", err, "email", email)
	}
	if stored != code {
		return false, nil
	}

	// Already-confirmed records are confirmed again while the window is open.
	if err := s.store.Confirm(ctx, v, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.log.Info("verification reissued during confirm", "email", email)
			return false, nil
		}
		return false, fmt.Errorf("confirm verification: %w", err)
	}
	return true, nil
}

// internal reports err, logs it and returns an opaque internal error.
func (s *service) internal(ctx context.Context, msg string, err error, attrs ...any) error {
	s.reporter.Capture(ctx, err, attrs...)
	s.log.ErrorContext(ctx, msg, append(attrs, "err", err)...)
	return fmt.Errorf("%s: %w", msg, domain.ErrInternal)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
