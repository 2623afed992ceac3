package config

import (
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad(t *testing.T) {
	configContent := `
server:
  port: 9090
  max_upload_size: 10485760
store:
  driver: "mongo"
mongo:
  uri: "mongodb://localhost:27017"
  database: "contracts-test"
files:
  driver: "minio"
  dir: "data/uploads"
minio:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "test-bucket"
  use_ssl: false
openai:
  api_key: "sk-test"
  default_model: "gpt-4.1"
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
log:
  level: "debug"
  format: "json"
`
	cfg, err := Load(writeTempConfig(t, configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadSize != 10485760 {
		t.Errorf("Expected max_upload_size 10485760, got %d", cfg.Server.MaxUploadSize)
	}
	if cfg.Store.Driver != "mongo" {
		t.Errorf("Expected store driver mongo, got %s", cfg.Store.Driver)
	}
	if cfg.Mongo.Database != "contracts-test" {
		t.Errorf("Expected database contracts-test, got %s", cfg.Mongo.Database)
	}
	if cfg.Files.Driver != "minio" {
		t.Errorf("Expected files driver minio, got %s", cfg.Files.Driver)
	}
	if cfg.Minio.Endpoint != "localhost:9000" {
		t.Errorf("Expected endpoint localhost:9000, got %s", cfg.Minio.Endpoint)
	}
	if cfg.OpenAI.DefaultModel != "gpt-4.1" {
		t.Errorf("Expected default_model gpt-4.1, got %s", cfg.OpenAI.DefaultModel)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}
}

func TestLoadDefaults(t *testing.T) {
	configContent := `
auth:
  jwt_secret: "test-secret"
`
	cfg, err := Load(writeTempConfig(t, configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadSize != 20<<20 {
		t.Errorf("Expected default max_upload_size 20MB, got %d", cfg.Server.MaxUploadSize)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Expected default store driver memory, got %s", cfg.Store.Driver)
	}
	if cfg.Files.Driver != "local" {
		t.Errorf("Expected default files driver local, got %s", cfg.Files.Driver)
	}
	if cfg.Files.Dir != "uploads" {
		t.Errorf("Expected default files dir uploads, got %s", cfg.Files.Dir)
	}
	if cfg.OpenAI.DefaultModel != "gpt-4.1-mini" {
		t.Errorf("Expected default model gpt-4.1-mini, got %s", cfg.OpenAI.DefaultModel)
	}
	if cfg.Auth.TokenExpireHours != 168 {
		t.Errorf("Expected default token_expire_hours 168, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env")

	configContent := `
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
`
	cfg, err := Load(writeTempConfig(t, configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Expected jwt_secret from-env, got %s", cfg.Auth.JWTSecret)
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeTempConfig(t, "invalid: yaml: content:"))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
