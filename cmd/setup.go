package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"kubeautogpt/internal/apply"
	kubeclient "kubeautogpt/internal/client"
	"kubeautogpt/internal/config"
	"kubeautogpt/internal/reconciler"
	"kubeautogpt/internal/synth"
	"kubeautogpt/pkg/logging"
)

// synthesisTimeout bounds one call to the generator.
const synthesisTimeout = 5 * time.Minute

// loadConfig loads the configuration and initializes logging from it.
// Short-lived commands always log text to stderr.
func loadConfig(forCLI bool) (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, err
	}
	if forCLI {
		logging.InitForCLI(level, os.Stderr)
	} else {
		logging.Init(level, logging.Format(cfg.LogFormat), os.Stderr)
	}
	return cfg, nil
}

func newSynthesizer(cfg config.Config) (*synth.Synthesizer, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	completer := synth.NewOpenAICompleter(key, cfg.APIBaseURL, &http.Client{Timeout: synthesisTimeout})
	return synth.New(completer, cfg.Model), nil
}

func newApplier(cfg config.Config, cluster apply.Cluster) *apply.Engine {
	return apply.NewEngine(cluster, apply.Options{
		FieldManager:     cfg.FieldManager,
		DefaultNamespace: cfg.DefaultNamespace,
	})
}

func newKubeCluster(cfg config.Config, c client.Client) *apply.KubeCluster {
	return apply.NewKubeCluster(c, apply.ClusterOptions{ForceConflicts: cfg.ForceConflicts})
}

func newMachine(cfg config.Config, synthesizer reconciler.Synthesizer, applier reconciler.Applier) *reconciler.Machine {
	return reconciler.NewMachine(synthesizer, applier, reconciler.MachineConfig{
		RetryDelay:        cfg.RetryDelay,
		MaxRepairAttempts: cfg.MaxRepairAttempts,
		SkipUnchanged:     cfg.SkipUnchanged,
	})
}

// clusterClient connects to the cluster selected by the usual kubeconfig rules.
func clusterClient() (*rest.Config, client.Client, error) {
	restCfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	c, err := kubeclient.New(restCfg)
	if err != nil {
		return nil, nil, err
	}
	return restCfg, c, nil
}

// recordClient returns the record store for the configured mode.
func recordClient(cfg config.Config) (kubeclient.RecordClient, error) {
	if cfg.Mode == config.ModeFilesystem {
		return kubeclient.NewFilesystemClient(cfg.RecordsDir), nil
	}
	_, c, err := clusterClient()
	if err != nil {
		return nil, err
	}
	return kubeclient.NewKubernetesClient(c), nil
}
