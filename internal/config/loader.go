package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"kubeautogpt/pkg/logging"
)

const (
	userConfigDir  = ".config/kube-autogpt"
	configFileName = "config.yaml"
)

// lookupEnv is swapped in tests.
var lookupEnv = os.LookupEnv

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig reads config.yaml from configPath on top of the defaults, applies
// environment overrides and validates the result. A missing file is not an
// error.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, &ConfigurationError{FilePath: configFilePath, ErrorType: ErrorTypeIO, Message: err.Error()}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, &ConfigurationError{
				FilePath:  configFilePath,
				ErrorType: ErrorTypeParse,
				Message:   err.Error(),
			}
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnv(&config)

	if err := Validate(config); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: ErrorTypeValidation,
			Message:   err.Error(),
			Err:       err,
		}
	}
	return config, nil
}

func applyEnv(config *Config) {
	if v, ok := lookupEnv(EnvModel); ok && v != "" {
		config.Model = v
	}
	if v, ok := lookupEnv(EnvBaseURL); ok && v != "" {
		config.APIBaseURL = v
	}
}

// APIKey returns the API key from the environment variable named by APIKeyEnv.
func (c Config) APIKey() (string, error) {
	v, ok := lookupEnv(c.APIKeyEnv)
	if !ok || v == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.APIKeyEnv)
	}
	return v, nil
}
