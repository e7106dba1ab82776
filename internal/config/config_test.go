package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set required environment variable
	os.Setenv("JWT_SECRET", "test-secret-key-that-is-at-least-32-characters-long")
	defer os.Unsetenv("JWT_SECRET")

	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Test default values
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected Server.Port to be '8080', got '%s'", cfg.Server.Port)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected Server.Host to be '0.0.0.0', got '%s'", cfg.Server.Host)
	}

	if cfg.Server.ReadTimeout.Duration != 15*time.Second {
		t.Errorf("Expected Server.ReadTimeout to be 15s, got %v", cfg.Server.ReadTimeout.Duration)
	}

	if cfg.Postgres.Host != "localhost" {
		t.Errorf("Expected Postgres.Host to be 'localhost', got '%s'", cfg.Postgres.Host)
	}

	if cfg.Redis.Host != "localhost" {
		t.Errorf("Expected Redis.Host to be 'localhost', got '%s'", cfg.Redis.Host)
	}

	if cfg.JWT.TokenExpiry.Duration != time.Hour {
		t.Errorf("Expected JWT.TokenExpiry to be 1h, got %v", cfg.JWT.TokenExpiry.Duration)
	}

	if cfg.Security.BCryptCost != 12 {
		t.Errorf("Expected Security.BCryptCost to be 12, got %d", cfg.Security.BCryptCost)
	}

	if cfg.FrontendURL != "http://localhost:5173" {
		t.Errorf("Expected FrontendURL to be 'http://localhost:5173', got '%s'", cfg.FrontendURL)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be 'development', got '%s'", cfg.Env)
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("Expected CORS.AllowedOrigins to have at least one value")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Expected error when JWT_SECRET is not set")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "too-short")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Expected error when JWT_SECRET is shorter than 32 characters")
	}
}

func TestLoad_OAuthProviders(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-that-is-at-least-32-characters-long")
	os.Setenv("OAUTH_GOOGLE_CLIENT_ID", "google-client")
	os.Setenv("OAUTH_GOOGLE_CLIENT_SECRET", "google-secret")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("OAUTH_GOOGLE_CLIENT_ID")
		os.Unsetenv("OAUTH_GOOGLE_CLIENT_SECRET")
	}()

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.OAuth.Google.Enabled() {
		t.Error("Expected Google OAuth to be enabled")
	}

	if cfg.OAuth.GitHub.Enabled() {
		t.Error("Expected GitHub OAuth to be disabled without credentials")
	}
}

func TestDurationDays(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("7d")); err != nil {
		t.Fatalf("Failed to parse duration: %v", err)
	}
	if d.Duration != 7*24*time.Hour {
		t.Errorf("Expected 7d to be %v, got %v", 7*24*time.Hour, d.Duration)
	}
}
