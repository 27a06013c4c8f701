package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the environment, falling back to whatever the
// process already has.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file, using existing environment: %v", err)
	}
}

// GetEnv returns an environment variable.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault returns an environment variable or a default.
func GetEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SpaceLocation returns the zone used to stamp hour slots. Every space
// shares one zone, the region the platform operates in.
func SpaceLocation() *time.Location {
	name := GetEnvDefault("SPACE_TZ", "America/Sao_Paulo")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: unknown zone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// ReservationsTable returns the DynamoDB reservations table name.
func ReservationsTable() string {
	return GetEnvDefault("RESERVATIONS_TABLE", "reservation")
}

// SpacesTable returns the DynamoDB coworking-spaces table name.
func SpacesTable() string {
	return GetEnvDefault("SPACES_TABLE", "coworking-spaces")
}

// UsersTable returns the DynamoDB users table name.
func UsersTable() string {
	return GetEnvDefault("USERS_TABLE", "users")
}
