package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	SessionHours int    `toml:"session_hours"`
	AdminEmail   string `toml:"admin_email"` // grants access to the admin dashboard
}

type AssistantConfig struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"` // empty disables the assistant
	Model    string `toml:"model"`
}

type I18nConfig struct {
	DefaultLanguage string `toml:"default_language"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Auth      AuthConfig      `toml:"auth"`
	Assistant AssistantConfig `toml:"assistant"`
	I18n      I18nConfig      `toml:"i18n"`
}

func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Set default values
	config.Server.Port = 3000
	config.Storage.DataDir = "./data"
	config.Auth.SessionHours = 24
	config.Assistant.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	config.Assistant.Model = "gemini-2.5-flash"
	config.I18n.DefaultLanguage = "id"

	// Load config file
	_, err := toml.DecodeFile(filepath, &config)
	if err != nil {
		return nil, err
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &config, nil
}
