package config

import "time"

const (
	DefaultModel     = "gpt-4"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"

	// Environment variables read by LoadConfig.
	EnvModel   = "GPT_MODEL"
	EnvBaseURL = "OPENAI_BASE_URL"
)

// GetDefaultConfig returns the configuration used when no file is present.
func GetDefaultConfig() Config {
	return Config{
		Model:                  DefaultModel,
		APIKeyEnv:              DefaultAPIKeyEnv,
		FieldManager:           "kube-autogpt",
		DefaultNamespace:       "default",
		RetryDelay:             60 * time.Second,
		MaxRepairAttempts:      5,
		SkipUnchanged:          true,
		Mode:                   ModeKubernetes,
		WorkerCount:            1,
		MetricsBindAddress:     ":8080",
		HealthProbeBindAddress: ":8081",
		LogFormat:              "text",
		LogLevel:               "info",
	}
}
