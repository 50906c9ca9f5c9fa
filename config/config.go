package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings resolved once at startup.
type Config struct {
	Port      string
	MongoURI  string
	DBName    string
	JWTSecret string
}

// LoadEnv loads environment variables from a .env file
func LoadEnv() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Load builds the application configuration from the environment.
func Load() *Config {
	return &Config{
		Port:      GetEnv("PORT", "5000"),
		MongoURI:  GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:    GetEnv("DB_NAME", "order_management"),
		JWTSecret: GetEnv("JWT_SECRET", ""),
	}
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
