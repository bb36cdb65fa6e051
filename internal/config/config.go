package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSRegion      string

	JWTSecret string // empty means "generate one for this process"
	TokenTTL  time.Duration

	OTPTTL time.Duration

	OTPRateWindow   time.Duration
	OTPRateMax      int
	LoginRateWindow time.Duration
	LoginRateMax    int

	PendingRetention     time.Duration
	PendingSweepInterval time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Organizations string
	Managers      string
	SecurityStaff string
	Vessels       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Organizations: getEnv("DYNAMO_TABLE_ORGANIZATIONS", "organizations"),
			Managers:      getEnv("DYNAMO_TABLE_MANAGERS", "managers"),
			SecurityStaff: getEnv("DYNAMO_TABLE_SECURITY", "security_staff"),
			Vessels:       getEnv("DYNAMO_TABLE_VESSELS", "vessels"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "fleetdesk-files"),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		OTPTTL: time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,

		OTPRateWindow:   time.Duration(getEnvInt("OTP_RATE_WINDOW_MINUTES", 60)) * time.Minute,
		OTPRateMax:      getEnvInt("OTP_RATE_MAX", 5),
		LoginRateWindow: time.Duration(getEnvInt("LOGIN_RATE_WINDOW_MINUTES", 60)) * time.Minute,
		LoginRateMax:    getEnvInt("LOGIN_RATE_MAX", 5),

		PendingRetention:     time.Duration(getEnvInt("PENDING_RETENTION_MINUTES", 10)) * time.Minute,
		PendingSweepInterval: time.Duration(getEnvInt("PENDING_SWEEP_MINUTES", 5)) * time.Minute,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether the app runs in production. OTP codes are
// dispatched over SNS only in production; elsewhere they are logged.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
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
