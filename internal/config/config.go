package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	MigrationsDir string
	AttachmentDir string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	GoogleCredentials string
	GoogleCalendarID  string
	MeetTimeZone      string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		zap.L().Warn("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "backoffice_user"),
		DBPassword: getEnv("DB_PASSWORD", "backoffice_pass"),
		DBName:     getEnv("DB_NAME", "backoffice_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		AttachmentDir: getEnv("ATTACHMENT_DIR", "storage"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@backoffice.local"),

		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCalendarID:  getEnv("GOOGLE_CALENDAR_ID", "primary"),
		MeetTimeZone:      getEnv("MEET_TIMEZONE", "Asia/Jakarta"),
	}
}

// DSN is the keyword/value form gorm's postgres driver takes.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// DatabaseURL is the URL form golang-migrate takes.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}
