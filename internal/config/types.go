package config

import "time"

// Mode selects where records are read from.
type Mode string

const (
	// ModeKubernetes watches KubeAutoGpts resources in a cluster.
	ModeKubernetes Mode = "kubernetes"
	// ModeFilesystem reads records from YAML files in RecordsDir.
	ModeFilesystem Mode = "filesystem"
)

// Config is the top-level configuration of kube-autogpt.
type Config struct {
	// Model is the chat model identifier sent with every synthesis call.
	Model string `yaml:"model" validate:"required"`

	// APIBaseURL overrides the chat-completions endpoint. Empty uses the
	// library default.
	APIBaseURL string `yaml:"apiBaseURL,omitempty" validate:"omitempty,url"`

	// APIKeyEnv names the environment variable holding the API key. The key
	// itself is never read from the config file.
	APIKeyEnv string `yaml:"apiKeyEnv" validate:"required"`

	FieldManager     string `yaml:"fieldManager" validate:"required"`
	DefaultNamespace string `yaml:"defaultNamespace" validate:"required"`
	ForceConflicts   bool   `yaml:"forceConflicts,omitempty"`

	RetryDelay        time.Duration `yaml:"retryDelay" validate:"duration_min=1s"`
	MaxRepairAttempts int32         `yaml:"maxRepairAttempts" validate:"min=0"`
	SkipUnchanged     bool          `yaml:"skipUnchanged"`

	Mode           Mode   `yaml:"mode" validate:"oneof=kubernetes filesystem"`
	WatchNamespace string `yaml:"watchNamespace,omitempty"`
	RecordsDir     string `yaml:"recordsDir,omitempty" validate:"required_if=Mode filesystem"`
	WorkerCount    int    `yaml:"workerCount" validate:"min=1,max=64"`

	MetricsBindAddress     string `yaml:"metricsBindAddress,omitempty"`
	HealthProbeBindAddress string `yaml:"healthProbeBindAddress,omitempty"`
	LeaderElection         bool   `yaml:"leaderElection,omitempty"`
	InstallCRD             bool   `yaml:"installCRD,omitempty"`

	LogFormat string `yaml:"logFormat" validate:"oneof=text json"`
	LogLevel  string `yaml:"logLevel" validate:"oneof=debug info warn error"`
}
