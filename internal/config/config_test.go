package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "key")
	t.Setenv("UNSPLASH_API_BASE_URL", "")
	t.Setenv("FOTOFLIX_DB_PATH", "")
	t.Setenv("FOTOFLIX_LOG_LEVEL", "")
	t.Setenv("FOTOFLIX_SESSION_TTL", "")
	os.Unsetenv("FOTOFLIX_SESSION_TTL")
	t.Setenv("FOTOFLIX_INLINE_IMAGE_PREVIEW", "")
	os.Unsetenv("FOTOFLIX_INLINE_IMAGE_PREVIEW")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.DBPath != "fotoflix.db" {
		t.Fatalf("unexpected DB path: %s", cfg.DBPath)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected session TTL: %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if !cfg.InlineImagePreview {
		t.Fatal("expected inline image preview on by default")
	}
	if err := cfg.ValidateAPI(); err != nil {
		t.Fatalf("ValidateAPI returned error: %v", err)
	}
}

func TestLoadFromEnv_ReadsOverrides(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "key")
	t.Setenv("UNSPLASH_PER_PAGE", "30")
	t.Setenv("FOTOFLIX_SESSION", "work")
	t.Setenv("FOTOFLIX_SESSION_TTL", "90m")
	t.Setenv("FOTOFLIX_INLINE_IMAGE_PREVIEW", "false")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.PerPage != 30 || cfg.SessionID != "work" || cfg.SessionTTL != 90*time.Minute || cfg.InlineImagePreview {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("FOTOFLIX_SESSION_TTL", "soon")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected parse error for session TTL")
	}
}

func TestValidateAPI_MissingAccessKey(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if err := cfg.ValidateAPI(); err == nil {
		t.Fatal("expected error for missing access key")
	}
}

func TestValidateAPI_APIBaseURLTrailingSlash(t *testing.T) {
	cfg := Config{
		AccessKey:  "key",
		APIBaseURL: "https://api.unsplash.com/",
		DBPath:     "fotoflix.db",
		LogPath:    "fotoflix.log",
		LogLevel:   "info",
	}
	if err := cfg.ValidateAPI(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateAPI_PerPageRange(t *testing.T) {
	cfg := Config{AccessKey: "key", APIBaseURL: defaultAPIBaseURL, PerPage: 31}
	if err := cfg.ValidateAPI(); err == nil {
		t.Fatal("expected validation error for per page")
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Config{DBPath: "fotoflix.db", LogPath: "fotoflix.log", LogLevel: "nope"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for log level")
	}
}

func TestLoadFromEnv_IsolatedFromHostEnvironment(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "")
	os.Unsetenv("UNSPLASH_API_BASE_URL")
	os.Unsetenv("FOTOFLIX_DB_PATH")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.ValidateAPI() == nil {
		t.Fatal("expected error when the access key is missing")
	}
}
