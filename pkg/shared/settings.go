package shared

import (
	"fmt"
	"strings"
	"time"
)

const (
	StorageInscriber = "inscriber"
	StorageS3        = "s3"
)

// Settings holds the non-credential knobs shared by the example programs and the CLI.
type Settings struct {
	TokenID        string
	SupplyKey      string
	Storage        string
	S3Bucket       string
	S3Endpoint     string
	S3Region       string
	S3PublicURL    string
	S3Prefix       string
	S3AccessKeyID  string
	S3SecretKey    string
	LogLevel       string
	LogJSON        bool
	ConfirmTimeout time.Duration
}

// SettingsFromEnv reads MEDIAMINT_* variables. Unset values fall back to defaults.
func SettingsFromEnv() (Settings, error) {
	loadDotEnvIfPresent()

	settings := Settings{
		TokenID:     firstNonEmptyEnv("MEDIAMINT_TOKEN_ID"),
		SupplyKey:   firstNonEmptyEnv("MEDIAMINT_SUPPLY_KEY"),
		Storage:     strings.ToLower(firstNonEmptyEnv("MEDIAMINT_STORAGE")),
		S3Bucket:    firstNonEmptyEnv("MEDIAMINT_S3_BUCKET"),
		S3Endpoint:  firstNonEmptyEnv("MEDIAMINT_S3_ENDPOINT"),
		S3Region:    firstNonEmptyEnv("MEDIAMINT_S3_REGION", "AWS_REGION"),
		S3PublicURL: firstNonEmptyEnv("MEDIAMINT_S3_PUBLIC_URL"),
		S3Prefix:    firstNonEmptyEnv("MEDIAMINT_S3_PREFIX"),
		// Blank keys leave credential lookup to the AWS default chain.
		S3AccessKeyID: firstNonEmptyEnv("MEDIAMINT_S3_ACCESS_KEY_ID"),
		S3SecretKey:   firstNonEmptyEnv("MEDIAMINT_S3_SECRET_ACCESS_KEY"),
		LogLevel:      firstNonEmptyEnv("MEDIAMINT_LOG_LEVEL"),
		LogJSON:       strings.EqualFold(firstNonEmptyEnv("MEDIAMINT_LOG_FORMAT"), "json"),
	}

	if settings.Storage == "" {
		settings.Storage = StorageInscriber
	}
	if settings.Storage != StorageInscriber && settings.Storage != StorageS3 {
		return Settings{}, fmt.Errorf("MEDIAMINT_STORAGE must be %s or %s", StorageInscriber, StorageS3)
	}
	if settings.Storage == StorageS3 && settings.S3Bucket == "" {
		return Settings{}, fmt.Errorf("MEDIAMINT_S3_BUCKET is required for s3 storage")
	}
	if settings.S3Region == "" {
		settings.S3Region = "us-east-1"
	}
	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}

	if raw := firstNonEmptyEnv("MEDIAMINT_CONFIRM_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid MEDIAMINT_CONFIRM_TIMEOUT: %w", err)
		}
		settings.ConfirmTimeout = timeout
	}

	return settings, nil
}
