package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill DrillConfig `toml:"drill"`
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`
}

// DrillConfig maps drill settings. Nil fields keep their defaults.
type DrillConfig struct {
	Type          *string  `toml:"type"`
	Range         *int     `toml:"range"`
	QuestionCount *int     `toml:"question_count"`
	TimeLimit     *int     `toml:"time_limit"`
	BorrowRatio   *float64 `toml:"borrow_ratio"`
	Strict        *bool    `toml:"strict"`
}

// StoreConfig maps storage settings.
type StoreConfig struct {
	Backend  *string `toml:"backend"`
	Path     *string `toml:"path"`
	RedisURL *string `toml:"redis_url"`
	Prefix   *string `toml:"prefix"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
