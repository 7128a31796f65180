// Package config loads the kube-autogpt configuration.
//
// Configuration is read from config.yaml in a single directory, by default
// ~/.config/kube-autogpt, selected with the --config-path flag. Missing keys
// keep their defaults and a missing file yields the defaults.
//
// After the file, the GPT_MODEL and OPENAI_BASE_URL environment variables
// override the model and endpoint. The API key is never stored in the file:
// it is read from the environment variable named by apiKeyEnv
// (OPENAI_API_KEY by default).
//
// Example config.yaml:
//
//	model: gpt-4
//	mode: filesystem
//	recordsDir: ./records
//	retryDelay: 30s
//	maxRepairAttempts: 3
//	logFormat: json
//
// The loaded configuration is validated; failures are reported as a
// ConfigurationError wrapping ValidationErrors.
package config
