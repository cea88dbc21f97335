package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string // sqlite file, used when DBDriver == "sqlite"

	JWTSecret string

	OpenAIKey   string
	OpenAIModel string

	Port int
}

func Load() *Config {

	portStr := os.Getenv("DB_PORT")
	dbPort, err := strconv.Atoi(portStr)
	if err != nil {
		dbPort = 5432 // fallback
	}

	driver := os.Getenv("DB_DRIVER")
	if driver != "sqlite" {
		driver = "postgres"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "study_planner.db"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	httpPort, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		httpPort = 8080
	}

	return &Config{
		DBDriver:   driver,
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPath:     dbPath,

		JWTSecret: secret,

		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: model,

		Port: httpPort,
	}
}

func (c *Config) ConnString() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
