package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"kubeautogpt/internal/config"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

var (
	// configPath is the directory holding config.yaml.
	configPath string

	// debug forces debug logging regardless of the configured level.
	debug bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kube-autogpt",
	Short: "Turn plain-language descriptions into Kubernetes objects",
	Long: `kube-autogpt watches KubeAutoGpts records, asks a language model to turn
each record's description into Kubernetes manifests, applies them and feeds
apply errors back to the model until the record converges.

Records are read from the cluster (mode: kubernetes) or from a directory of
YAML files (mode: filesystem).`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kube-autogpt version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
