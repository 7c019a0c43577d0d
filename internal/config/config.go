package config

import (
	"fmt"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the application configuration, read from the environment.
type Config struct {
	DataDir      string `env:"TALEFORGE_DATA_DIR" env-default:".taleforge"`
	DBFile       string `env:"TALEFORGE_DB_FILE" env-default:"saves.db"`
	LegacyFile   string `env:"TALEFORGE_LEGACY_FILE" env-default:"saves.json"`
	LogFile      string `env:"TALEFORGE_LOG_FILE" env-default:"taleforge.log"`
	GeminiAPIKey string `env:"GEMINI_API_KEY" env-required:"true"`
	UserAPIKeys  string `env:"USER_API_KEYS" env-default:""`
	ImportDir    string `env:"TALEFORGE_IMPORT_DIR" env-default:"import"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// DBPath is the full path of the save database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// LegacyPath is the full path of the pre-database flat save list.
func (c *Config) LegacyPath() string {
	return filepath.Join(c.DataDir, c.LegacyFile)
}

// LogPath is the full path of the log file. The TUI owns stdout, so logs
// go to a file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}

// ImportPath is the directory scanned for uploaded save files.
func (c *Config) ImportPath() string {
	return filepath.Join(c.DataDir, c.ImportDir)
}
