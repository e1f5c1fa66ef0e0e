package config

import (
	"os"
)

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	SendGridAPIKey string
	EmailFrom      string
	Port           string
	GinMode        string
}

func Load() *Config {
	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskuser"),
		DBPassword:     getEnv("DB_PASSWORD", "taskpassword"),
		DBName:         getEnv("DB_NAME", "task_manager"),
		JWTSecret:      getEnv("JWT_SECRET", "default-secret-key-change-me"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@task-manager.local"),
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
