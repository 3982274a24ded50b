package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MySQLDSN  string
	RedisURL  string
	JWTSecret string
	Port      string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	S3Bucket   string
	S3Region   string
	S3Endpoint string

	AdminEmail string
	AdminName  string

	RateLimit  int
	RateWindow time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getenvOptional(key string) string { return os.Getenv(key) }

func Load() Config {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	smtpPort, _ := strconv.Atoi(getenv("SMTP_PORT", "587"))
	rate, _ := strconv.Atoi(getenv("RATE_LIMIT", "10"))
	windowSec, _ := strconv.Atoi(getenv("RATE_WINDOW", "60"))

	return Config{
		MySQLDSN:  getenv("MYSQL_DSN", "grievance:grievance@tcp(127.0.0.1:3306)/grievance?parseTime=true"),
		RedisURL:  getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret: getenv("JWT_SECRET", ""),
		Port:      getenv("PORT", "8080"),

		SMTPHost: getenv("SMTP_HOST", "localhost"),
		SMTPPort: smtpPort,
		SMTPUser: getenvOptional("SMTP_USER"),
		SMTPPass: getenvOptional("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "Complaint Portal <no-reply@localhost>"),

		S3Bucket:   getenvOptional("S3_BUCKET"),
		S3Region:   getenv("S3_REGION", "us-east-1"),
		S3Endpoint: getenvOptional("S3_ENDPOINT"),

		AdminEmail: getenvOptional("ADMIN_EMAIL"),
		AdminName:  getenv("ADMIN_NAME", "Portal Admin"),

		RateLimit:  rate,
		RateWindow: time.Duration(windowSec) * time.Second,
	}
}
