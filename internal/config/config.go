package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Sheet     SheetConfig
	Media     MediaConfig
}

// SheetConfig holds the spreadsheet backend configuration.
// CredentialsJSON is the service-account blob used by the write path;
// when it is empty the write path refuses to operate (the read path
// only needs the spreadsheet ID, since it goes through the public
// CSV export).
type SheetConfig struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	SnapshotTTL     time.Duration
	TabGIDs         map[string]string
}

// MediaConfig holds the Cloudinary credentials for attachment uploads
type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Table gid environment overrides. Defaults live in the sheetdb registry.
var gidEnvVars = map[string]string{
	"REGISTRO_DEVOLUCOES": "GID_REGISTRO_DEVOLUCOES",
	"REGISTRO_ITENS":      "GID_REGISTRO_ITENS",
	"REGISTRO_MENSAGENS":  "GID_REGISTRO_MENSAGENS",
	"USUARIOS":            "GID_USUARIOS",
	"DATABASE_X3":         "GID_DATABASE_X3",
	"DATABASE_OC":         "GID_DATABASE_OC",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	sheetID := os.Getenv("SHEET_ID")
	if sheetID == "" {
		return nil, fmt.Errorf("SHEET_ID is required")
	}

	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	ttl := 30 * time.Second
	if v := os.Getenv("SNAPSHOT_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	gids := make(map[string]string)
	for table, envVar := range gidEnvVars {
		if v := os.Getenv(envVar); v != "" {
			gids[table] = v
		}
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		JWTSecret: jwtSecret,
		Sheet: SheetConfig{
			SpreadsheetID:   sheetID,
			CredentialsJSON: creds,
			SnapshotTTL:     ttl,
			TabGIDs:         gids,
		},
		Media: MediaConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
	}, nil
}

// loadCredentials reads the service-account JSON either inline or from a
// file. An absent credential is not an error here: the API still serves
// reads, and every mutation fails closed instead.
func loadCredentials() ([]byte, error) {
	if inline := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); inline != "" {
		return []byte(inline), nil
	}
	if path := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
