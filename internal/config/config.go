package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// Code encryption key: either inline (base64) or read from a private S3 object.
	CodeEncryptionKey string
	CodeKeyS3Bucket   string
	CodeKeyS3Object   string

	ExpirationWindow time.Duration
	CookieDomain     string
	ResendLimit      int
	ResendWindow     time.Duration
	ResendSecret     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailSubject  string

	SNSRegion      string
	ErrorTopicARN  string // empty disables SNS error reporting
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users              string
	EmailVerifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:              getEnv("DYNAMO_TABLE_USERS", "users"),
			EmailVerifications: getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verifications"),
		},
		CodeEncryptionKey: getEnv("CODE_ENCRYPTION_KEY", ""),
		CodeKeyS3Bucket:   getEnv("CODE_KEY_S3_BUCKET", ""),
		CodeKeyS3Object:   getEnv("CODE_KEY_S3_OBJECT", ""),
		ExpirationWindow:  time.Duration(getEnvInt("AUTH_CODE_EXPIRATION_MILLIS", 300000)) * time.Millisecond,
		CookieDomain:      getEnv("COOKIE_DOMAIN", "localhost"),
		ResendLimit:       getEnvInt("RESEND_LIMIT", 5),
		ResendWindow:      time.Duration(getEnvInt("RESEND_WINDOW_MINUTES", 30)) * time.Minute,
		ResendSecret:      getEnv("RESEND_TOKEN_SECRET", ""),
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          getEnvInt("SMTP_PORT", 1025),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		MailFrom:          getEnv("MAIL_FROM", "4Q <no-reply@qqqq.world>"),
		MailSubject:       getEnv("MAIL_SUBJECT", "Your email verification code"),
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),
		ErrorTopicARN:     getEnv("ERROR_TOPIC_ARN", ""),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// KeyFromS3 reports whether the code encryption key must be fetched from S3.
func (c *Config) KeyFromS3() bool {
	return c.CodeEncryptionKey == "" && c.CodeKeyS3Bucket != "" && c.CodeKeyS3Object != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
