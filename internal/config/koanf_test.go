// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}

	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want 3858", cfg.Server.Port)
	}
	if cfg.Data.DuplicatePolicy != "last_write_wins" {
		t.Errorf("Data.DuplicatePolicy = %q, want last_write_wins", cfg.Data.DuplicatePolicy)
	}
	if cfg.Data.RatingMin != 0.5 || cfg.Data.RatingMax != 5.0 {
		t.Errorf("Data rating range = [%v, %v], want [0.5, 5]", cfg.Data.RatingMin, cfg.Data.RatingMax)
	}
	if cfg.Recommend.Algorithm != "item_knn" {
		t.Errorf("Recommend.Algorithm = %q, want item_knn", cfg.Recommend.Algorithm)
	}
	if cfg.Recommend.DefaultTopN != 10 {
		t.Errorf("Recommend.DefaultTopN = %d, want 10", cfg.Recommend.DefaultTopN)
	}
	if cfg.Recommend.RequestTimeout != 5*time.Second {
		t.Errorf("Recommend.RequestTimeout = %v, want 5s", cfg.Recommend.RequestTimeout)
	}
	if cfg.Recommend.Weighting != "tfidf" {
		t.Errorf("Recommend.Weighting = %q, want tfidf", cfg.Recommend.Weighting)
	}
	if cfg.Database.Path != "/data/reelrec.duckdb" {
		t.Errorf("Database.Path = %q, want /data/reelrec.duckdb", cfg.Database.Path)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"MOVIES_PATH", "data.movies_path"},
		{"RATINGS_PATH", "data.ratings_path"},
		{"RATINGS_DUPLICATE_POLICY", "data.duplicate_policy"},
		{"DUCKDB_PATH", "database.path"},
		{"RECOMMEND_ALGORITHM", "recommend.algorithm"},
		{"RECOMMEND_KNN_NEIGHBORS", "recommend.knn.neighbors"},
		{"RECOMMEND_ALS_FACTORS", "recommend.als.factors"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"SUPERVISOR_SHUTDOWN_TIMEOUT", "supervisor.shutdown_timeout"},
		{"log_format", "logging.format"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile tests config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}

		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("RATINGS_PATH", "/srv/ratings_small.csv")
	t.Setenv("RATINGS_DUPLICATE_POLICY", "reject")
	t.Setenv("RECOMMEND_ALGORITHM", "als")
	t.Setenv("RECOMMEND_ALS_FACTORS", "16")
	t.Setenv("RECOMMEND_TRAIN_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Data.RatingsPath != "/srv/ratings_small.csv" {
		t.Errorf("Data.RatingsPath = %q", cfg.Data.RatingsPath)
	}
	if cfg.Data.DuplicatePolicy != "reject" {
		t.Errorf("Data.DuplicatePolicy = %q, want reject", cfg.Data.DuplicatePolicy)
	}
	if cfg.Recommend.Algorithm != "als" || cfg.Recommend.ALS.Factors != 16 {
		t.Errorf("Recommend = %s/%d, want als/16", cfg.Recommend.Algorithm, cfg.Recommend.ALS.Factors)
	}
	if cfg.Recommend.TrainInterval != 6*time.Hour {
		t.Errorf("Recommend.TrainInterval = %v, want 6h", cfg.Recommend.TrainInterval)
	}
	if want := []string{"http://a.example", "http://b.example"}; !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Defaults still apply for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.KNN.Neighbors != 50 {
		t.Errorf("Recommend.KNN.Neighbors = %d, want 50 (default)", cfg.Recommend.KNN.Neighbors)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	configContent := `
server:
  port: 8888
  host: "127.0.0.1"

data:
  movies_path: "/srv/movies.csv"
  metadata_path: "/srv/credits.csv"

recommend:
  weighting: "tf"
  knn:
    neighbors: 20

logging:
  level: "warn"
`
	configPath := filepath.Join(tmpDir, "reelrec.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// From file
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1 (from file)", cfg.Server.Host)
	}
	if cfg.Data.MoviesPath != "/srv/movies.csv" || cfg.Data.MetadataPath != "/srv/credits.csv" {
		t.Errorf("Data = %+v, want paths from file", cfg.Data)
	}
	if cfg.Recommend.Weighting != "tf" || cfg.Recommend.KNN.Neighbors != 20 {
		t.Errorf("Recommend = %s/%d, want tf/20 (from file)", cfg.Recommend.Weighting, cfg.Recommend.KNN.Neighbors)
	}

	// Env overrides file
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env override)", cfg.Logging.Level)
	}

	// Defaults survive both layers
	if cfg.Recommend.KNN.Shrinkage != 10 {
		t.Errorf("Recommend.KNN.Shrinkage = %v, want 10 (default)", cfg.Recommend.KNN.Shrinkage)
	}
}

// TestLoadWithKoanfValidation tests that validation failures surface from Load
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "invalid port",
			envVars: map[string]string{"HTTP_PORT": "70000"},
			errMsg:  "HTTP_PORT",
		},
		{
			name:    "unknown duplicate policy",
			envVars: map[string]string{"RATINGS_DUPLICATE_POLICY": "average"},
			errMsg:  "RATINGS_DUPLICATE_POLICY",
		},
		{
			name:    "inverted rating range",
			envVars: map[string]string{"RATINGS_MIN": "5", "RATINGS_MAX": "1"},
			errMsg:  "RATINGS_MIN",
		},
		{
			name:    "unknown algorithm",
			envVars: map[string]string{"RECOMMEND_ALGORITHM": "svd"},
			errMsg:  "RECOMMEND_ALGORITHM",
		},
		{
			name:    "default top n above max",
			envVars: map[string]string{"RECOMMEND_DEFAULT_TOP_N": "50", "RECOMMEND_MAX_TOP_N": "20"},
			errMsg:  "RECOMMEND_DEFAULT_TOP_N",
		},
		{
			name:    "invalid log level",
			envVars: map[string]string{"LOG_LEVEL": "verbose"},
			errMsg:  "LOG_LEVEL",
		},
		{
			name:    "missing movies path",
			envVars: map[string]string{"MOVIES_PATH": " "},
			errMsg:  "MOVIES_PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("LoadWithKoanf() error = %v, want mention of %s", err, tt.errMsg)
			}
		})
	}
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with zero rate limit = nil, want error")
	}

	cfg.Security.RateLimitDisabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with rate limit disabled = %v, want nil", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 3858}
	if got := s.Addr(); got != "127.0.0.1:3858" {
		t.Errorf("Addr() = %q, want 127.0.0.1:3858", got)
	}
}
