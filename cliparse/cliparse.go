package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AIPersonaID     string
	AIPersonaName   string
	NotifyQueueSize int
}

// ParseFlags validates flags and fills in defaults. A .env file in the
// working directory is loaded first; explicit environment variables and
// flags both win over it.
func ParseFlags(args []string) (Config, error) {
	// Missing .env is fine; it is a dev convenience only
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("sayso", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// AI persona identity
	fs.StringVar(&cfg.AIPersonaID, "ai-id", "", "AI persona user id")
	fs.StringVar(&cfg.AIPersonaName, "ai-name", "", "AI persona display name")

	// Notification fan-out
	fs.IntVar(&cfg.NotifyQueueSize, "notify-queue", 0, "Notification queue size")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.AIPersonaID == "" {
		cfg.AIPersonaID = os.Getenv("AI_PERSONA_ID")
		if cfg.AIPersonaID == "" {
			cfg.AIPersonaID = "sage"
		}
	}
	if cfg.AIPersonaName == "" {
		cfg.AIPersonaName = os.Getenv("AI_PERSONA_NAME")
		if cfg.AIPersonaName == "" {
			cfg.AIPersonaName = "Sage"
		}
	}

	if cfg.NotifyQueueSize == 0 {
		if qs := os.Getenv("NOTIFY_QUEUE_SIZE"); qs != "" {
			n, err := strconv.Atoi(qs)
			if err != nil {
				return Config{}, errors.New("invalid NOTIFY_QUEUE_SIZE env variable")
			}
			cfg.NotifyQueueSize = n
		} else {
			cfg.NotifyQueueSize = 256
		}
	}

	return cfg, nil
}
