// Package config loads service configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Store   StoreConfig
	Whisper WhisperConfig
	Align   AlignConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        // default 8080
	ReadTimeout    time.Duration // default 15s
	WriteTimeout   time.Duration // default 2m, transcription is slow
	IdleTimeout    time.Duration // default 60s
	CORSOrigins    []string      // default ["*"]
	RateLimitRPS   float64       // per client IP, 0 disables
	RateLimitBurst int
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	DataPath string // directory holding alignments.db
}

// DatabasePath is the SQLite file inside DataPath.
func (s StoreConfig) DatabasePath() string {
	return filepath.Join(s.DataPath, "alignments.db")
}

// WhisperConfig holds transcription service configuration.
type WhisperConfig struct {
	URL      string
	Timeout  time.Duration
	Language string
	RPS      float64
}

// AlignConfig holds alignment tuning.
type AlignConfig struct {
	StartLookahead  int
	TokenWindow     int
	MaxConcurrent   int
	FallbackEnabled bool
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("listenup-narration", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 2m)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")

	dataPath := fs.String("data-path", "", "Directory for the alignment database")

	whisperURL := fs.String("whisper-url", "", "Transcription service URL (default: http://localhost:8005)")
	whisperTimeout := fs.String("whisper-timeout", "", "Transcription request timeout (default: 5m)")
	whisperLanguage := fs.String("whisper-language", "", "Default transcription language (default: en)")

	maxConcurrent := fs.String("max-concurrent", "", "Segments aligned in parallel by batch requests (default: 2)")
	fallback := fs.String("fallback", "", "Distribute sentences evenly when alignment is invalid (default: true)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins:    splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
			RateLimitRPS:   getFloatConfigValue("", "RATE_LIMIT_RPS", 20),
			RateLimitBurst: getIntConfigValue("", "RATE_LIMIT_BURST", 40),
		},
		Store: StoreConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Whisper: WhisperConfig{
			URL:      strings.TrimRight(getConfigValue(*whisperURL, "WHISPER_URL", "http://localhost:8005"), "/"),
			Language: getConfigValue(*whisperLanguage, "WHISPER_LANGUAGE", "en"),
			RPS:      getFloatConfigValue("", "WHISPER_RPS", 2),
		},
		Align: AlignConfig{
			StartLookahead:  getIntConfigValue("", "ALIGN_START_LOOKAHEAD", 10),
			TokenWindow:     getIntConfigValue("", "ALIGN_TOKEN_WINDOW", 5),
			MaxConcurrent:   getIntConfigValue(*maxConcurrent, "ALIGN_MAX_CONCURRENT", 2),
			FallbackEnabled: getBoolConfigValue(*fallback, "FALLBACK_ENABLED", true),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "2m"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Whisper.Timeout, err = getDurationConfigValue(*whisperTimeout, "WHISPER_TIMEOUT", "5m"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Whisper.URL == "" {
		return errors.New("WHISPER_URL is required")
	}
	if c.Align.StartLookahead <= 0 {
		return fmt.Errorf("ALIGN_START_LOOKAHEAD must be positive, got %d", c.Align.StartLookahead)
	}
	if c.Align.TokenWindow <= 0 {
		return fmt.Errorf("ALIGN_TOKEN_WINDOW must be positive, got %d", c.Align.TokenWindow)
	}
	if c.Align.MaxConcurrent <= 0 {
		return fmt.Errorf("ALIGN_MAX_CONCURRENT must be positive, got %d", c.Align.MaxConcurrent)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS cannot be negative, got %g", c.Server.RateLimitRPS)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults to ~/ListenUp/narration.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "ListenUp", "narration")

	expanded, err := expandPath(c.Store.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue falls back to the default on unparsable input.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return n
}

// getFloatConfigValue falls back to the default on unparsable input.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getDurationConfigValue rejects unparsable durations instead of guessing.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
