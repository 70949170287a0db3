package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Config carries the runtime wiring for the service. Optional features
// (remote sync, at-rest encryption) are represented by empty-vs-set fields
// rather than probed from the environment at use sites.
type Config struct {
	Port string

	DB *sql.DB

	// JWTSecret signs session tokens.
	JWTSecret string
	// PasswordHash is the bcrypt hash of the single operator password.
	PasswordHash string

	// RemoteURL/RemoteToken configure the remote backup endpoint. An empty
	// URL means remote sync is unconfigured and degrades to local-only.
	RemoteURL   string
	RemoteToken string
	// BackupKey, when set, enables at-rest encryption of backup payloads.
	BackupKey string
	// SyncInterval > 0 enables the periodic background push.
	SyncInterval time.Duration
}

var AppConfig *Config

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Load reads the environment and, unless LOCAL_ONLY=true, opens the
// Postgres connection.
func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "3000"),
		JWTSecret:   getEnv("JWT_SECRET", "duty-roster-dev-secret"),
		RemoteURL:   getEnv("BACKUP_REMOTE_URL", ""),
		RemoteToken: getEnv("BACKUP_REMOTE_TOKEN", ""),
		BackupKey:   getEnv("BACKUP_KEY", ""),
	}

	if raw := getEnv("SYNC_INTERVAL", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Invalid SYNC_INTERVAL %q, background sync disabled: %v", raw, err)
		} else {
			cfg.SyncInterval = d
		}
	}

	// The operator password may be supplied pre-hashed or plain; a plain
	// password is hashed once at boot so comparisons always go through
	// bcrypt.
	cfg.PasswordHash = getEnv("APP_PASSWORD_HASH", "")
	if cfg.PasswordHash == "" {
		plain := getEnv("APP_PASSWORD", "admin")
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), 14)
		if err != nil {
			log.Fatal("Failed to hash operator password:", err)
		}
		cfg.PasswordHash = string(hash)
	}

	if getEnv("LOCAL_ONLY", "") != "true" {
		cfg.DB = openDB()
	}

	AppConfig = cfg
	return cfg
}

func openDB() *sql.DB {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "dutyroster"),
		getEnv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Printf("Database connection failed: %v", err)
		log.Println("Set LOCAL_ONLY=true to run against the in-memory store")
		log.Fatal("Cannot establish database connection")
	}

	log.Println("Database connected successfully")
	return db
}

// RemoteConfigured reports whether the remote backup endpoint is set up.
func (c *Config) RemoteConfigured() bool {
	return c.RemoteURL != ""
}
