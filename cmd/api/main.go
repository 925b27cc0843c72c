package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/email-verify-api/internal/application/ratelimit"
	"github.com/email-verify-api/internal/application/verification"
	"github.com/email-verify-api/internal/config"
	"github.com/email-verify-api/internal/infrastructure/awsconf"
	"github.com/email-verify-api/internal/infrastructure/codec"
	"github.com/email-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/email-verify-api/internal/infrastructure/jwt"
	s3infra "github.com/email-verify-api/internal/infrastructure/s3"
	"github.com/email-verify-api/internal/infrastructure/smtp"
	"github.com/email-verify-api/internal/infrastructure/sns"
	transporthttp "github.com/email-verify-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logger := newLogger(cfg.AppEnv)
	slog.SetDefault(logger)

	ctx := context.Background()
	awsCfg, err := awsconf.Load(ctx, cfg, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	secret, err := loadCodeKey(ctx, cfg, awsCfg)
	if err != nil {
		log.Fatalf("code encryption key: %v", err)
	}
	cipher, err := codec.New(secret)
	if err != nil {
		log.Fatalf("code encryption key: %v", err)
	}

	resendSecret := []byte(cfg.ResendSecret)
	if len(resendSecret) == 0 {
		// Forged counters only bypass a soft throttle; reuse the code key material.
		logger.Warn("RESEND_TOKEN_SECRET not set, reusing code key")
		resendSecret = secret
	}
	counterTokens, err := jwtinfra.NewProvider(resendSecret, nil)
	if err != nil {
		log.Fatalf("counter token provider: %v", err)
	}

	// SNS error reporter is optional; without a topic errors are only logged.
	var reporter verification.ErrorReporter = verification.LogReporter{Logger: logger}
	if cfg.ErrorTopicARN != "" {
		snsCfg, err := awsconf.Load(ctx, cfg, cfg.SNSRegion)
		if err != nil {
			logger.Warn("SNS reporter not available", "err", err)
		} else {
			reporter = sns.NewReporter(sns.NewClient(snsCfg), cfg.ErrorTopicARN, "email-verify-api", cfg.AppEnv)
		}
	}

	deps := &transporthttp.Deps{
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.EmailVerifications),
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		Mailer:           smtp.NewMailer(cfg),
		Cipher:           cipher,
		ResendLimiter:    ratelimit.NewLimiter(counterTokens, cfg.ResendLimit, cfg.ResendWindow),
		Reporter:         reporter,
		Logger:           logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	logger.Info("server stopped")
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadCodeKey returns the inline key if configured, otherwise reads it from S3.
func loadCodeKey(ctx context.Context, cfg *config.Config, awsCfg aws.Config) ([]byte, error) {
	if cfg.KeyFromS3() {
		client := s3infra.NewClient(awsCfg, cfg.AWSEndpointURL)
		return s3infra.NewKeySource(client, cfg.CodeKeyS3Bucket, cfg.CodeKeyS3Object).Key(ctx)
	}
	if cfg.CodeEncryptionKey == "" {
		return nil, fmt.Errorf("set CODE_ENCRYPTION_KEY or CODE_KEY_S3_BUCKET and CODE_KEY_S3_OBJECT")
	}
	return s3infra.DecodeKey(cfg.CodeEncryptionKey)
}
