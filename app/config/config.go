package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    Log    `yaml:"log"`
	Memory Memory `yaml:"memory"`
	Fetch  Fetch  `yaml:"fetch"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type Memory struct {
	// Path to the JSONL memory file, relative paths resolve against the working directory
	FilePath string `yaml:"file_path" example:"data/memory.jsonl" validate:"required"`
}

type Fetch struct {
	// User-Agent header sent with fetch_url requests
	UserAgent string `yaml:"user_agent" example:"memograph/1.0" validate:"required"`
	// Request timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"30" validate:"gt=0"`
	// Upper bound on returned content size in bytes
	MaxContentSize int `yaml:"max_content_size" example:"1048576" validate:"gt=0"`
}

// Load reads config.yaml from the working directory. A missing file is not
// an error: the server runs on defaults with zero configuration.
func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil && !os.IsNotExist(err) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if result.Memory.FilePath == "" {
		result.Memory.FilePath = filepath.Join("data", "memory.jsonl")
	}
	if result.Fetch.UserAgent == "" {
		result.Fetch.UserAgent = "memograph/1.0"
	}
	if result.Fetch.TimeoutSeconds == 0 {
		result.Fetch.TimeoutSeconds = 30
	}
	if result.Fetch.MaxContentSize == 0 {
		result.Fetch.MaxContentSize = 1024 * 1024
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
