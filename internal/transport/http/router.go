package http

import (
	"net/http"

	"github.com/email-verify-api/internal/application/verification"
	"github.com/email-verify-api/internal/config"
	"github.com/email-verify-api/internal/transport/http/handler"
	appmiddleware "github.com/email-verify-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true, // the resend counter rides in a cookie
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 per IP.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	verifySvc := verification.NewService(verification.ServiceDeps{
		Store:            deps.VerificationRepo,
		Accounts:         deps.UserRepo,
		Mailer:           deps.Mailer,
		Cipher:           deps.Cipher,
		Limiter:          deps.ResendLimiter,
		Reporter:         deps.Reporter,
		Logger:           deps.Logger,
		ExpirationWindow: cfg.ExpirationWindow,
		MailFrom:         cfg.MailFrom,
		MailSubject:      cfg.MailSubject,
	})

	emailH := handler.NewEmailHandler(verifySvc, handler.CookieConfig{
		Domain: cfg.CookieDomain,
		MaxAge: cfg.ResendWindow,
		Secure: cfg.AppEnv == "production",
	})

	r.Route("/v1/email", func(r chi.Router) {
		r.Use(sensitiveRL.Limit)
		r.Post("/send", emailH.Send)
		r.Post("/verify", emailH.Verify)
		r.Post("/reset-verify", emailH.ResetVerify)
	})

	return r
}
