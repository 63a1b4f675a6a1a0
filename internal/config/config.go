package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// SlotsPerJudge holds the number of competitor slots one judge covers
// in each event category
type SlotsPerJudge struct {
	Speech int `yaml:"speech" validate:"required,min=1"`
	LD     int `yaml:"ld" validate:"required,min=1"`
	PF     int `yaml:"pf" validate:"required,min=1"`
}

// TournamentSeries defines a recurring tournament schedule to expand
// into individual tournament records
type TournamentSeries struct {
	Name           string `yaml:"name" validate:"required"`
	RRule          string `yaml:"rrule" validate:"required"`
	SignupDeadline int    `yaml:"signupDeadlineDays,omitempty" validate:"omitempty,min=0"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL      string             `yaml:"databaseURL" validate:"required"`
	TournamentWeight float64            `yaml:"tournamentWeight" validate:"required"`
	EffortWeight     float64            `yaml:"effortWeight" validate:"required"`
	SlotsPerJudge    SlotsPerJudge      `yaml:"slotsPerJudge"`
	TournamentSeries []TournamentSeries `yaml:"tournamentSeries,omitempty" validate:"dive"`
	GmailUserID      string             `yaml:"gmailUserID,omitempty"`
	GmailSender      string             `yaml:"gmailSender,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in slot counts for categories the file omits
func applyDefaults(cfg *Config) {
	if cfg.SlotsPerJudge.Speech == 0 {
		cfg.SlotsPerJudge.Speech = 6
	}
	if cfg.SlotsPerJudge.LD == 0 {
		cfg.SlotsPerJudge.LD = 2
	}
	if cfg.SlotsPerJudge.PF == 0 {
		cfg.SlotsPerJudge.PF = 4
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, series := range cfg.TournamentSeries {
		if _, err := rrule.StrToRRule(series.RRule); err != nil {
			return fmt.Errorf("invalid rrule in tournamentSeries[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for roster_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "roster_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
