package shared

import (
	"testing"
	"time"
)

func TestSettingsFromEnvDefaults(t *testing.T) {
	resetOperatorEnv(t)

	settings, err := SettingsFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Storage != StorageInscriber {
		t.Fatalf("expected inscriber storage, got %q", settings.Storage)
	}
	if settings.S3Region != "us-east-1" {
		t.Fatalf("expected default region, got %q", settings.S3Region)
	}
	if settings.LogLevel != "info" {
		t.Fatalf("expected info log level, got %q", settings.LogLevel)
	}
	if settings.ConfirmTimeout != 0 {
		t.Fatalf("expected zero confirm timeout, got %s", settings.ConfirmTimeout)
	}
}

func TestSettingsFromEnvS3RequiresBucket(t *testing.T) {
	resetOperatorEnv(t)
	t.Setenv("MEDIAMINT_STORAGE", "S3")

	if _, err := SettingsFromEnv(); err == nil {
		t.Fatal("expected error for missing bucket")
	}

	t.Setenv("MEDIAMINT_S3_BUCKET", "nft-media")
	settings, err := SettingsFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Storage != StorageS3 || settings.S3Bucket != "nft-media" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

func TestSettingsFromEnvRejectsUnknownStorage(t *testing.T) {
	resetOperatorEnv(t)
	t.Setenv("MEDIAMINT_STORAGE", "ipfs")

	if _, err := SettingsFromEnv(); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestSettingsFromEnvConfirmTimeout(t *testing.T) {
	resetOperatorEnv(t)
	t.Setenv("MEDIAMINT_CONFIRM_TIMEOUT", "45s")

	settings, err := SettingsFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ConfirmTimeout != 45*time.Second {
		t.Fatalf("expected 45s, got %s", settings.ConfirmTimeout)
	}

	t.Setenv("MEDIAMINT_CONFIRM_TIMEOUT", "soon")
	if _, err := SettingsFromEnv(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}

	if _, err := NewLogger("loud", false); err == nil {
		t.Fatal("expected error for invalid level")
	}

	if LoggerOrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
}
