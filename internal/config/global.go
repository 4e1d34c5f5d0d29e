package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings holds credentials and client tuning, loaded from the global
// config file with environment variables taking precedence. A .env file
// in the working directory is folded into the environment first.
type Settings struct {
	OpenAlexMailto string `yaml:"openalex_mailto,omitempty"`
	SciteAPIKey    string `yaml:"scite_api_key,omitempty"`
	OpenAIAPIKey   string `yaml:"openai_api_key,omitempty"`
	OpenAIBaseURL  string `yaml:"openai_base_url,omitempty"`
	Model          string `yaml:"model,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citegraph"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citegraph/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadSettings loads the global configuration file and applies
// environment overrides. A missing file is not an error.
func LoadSettings() (*Settings, error) {
	// Credentials are commonly kept per-project; ignore a missing .env.
	_ = godotenv.Load()

	var cfg Settings
	path := GlobalConfigPath()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		}
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"OPENALEX_MAILTO", &cfg.OpenAlexMailto},
		{"SCITE_API_KEY", &cfg.SciteAPIKey},
		{"OPENAI_API_KEY", &cfg.OpenAIAPIKey},
		{"OPENAI_BASE_URL", &cfg.OpenAIBaseURL},
		{"CITEGRAPH_MODEL", &cfg.Model},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	return &cfg, nil
}

// HelpfulConfigMessage explains how to provide a missing credential.
func HelpfulConfigMessage(key, env string) string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Missing credential: %s

Tip: set the %s environment variable (a .env file works too), or add
  %s: <value>
to %s`, key, env, key, configPath)
}
