package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	crd "kubeautogpt/config/crd"
	"kubeautogpt/internal/apply"
	kubeclient "kubeautogpt/internal/client"
	"kubeautogpt/internal/config"
	"kubeautogpt/internal/manifest"
	"kubeautogpt/internal/reconciler"
	"kubeautogpt/pkg/logging"
)

var (
	serveMode       string
	serveRecordsDir string
	serveWorkers    int
	serveInstallCRD bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the controller",
	Long: `Runs the controller until interrupted.

In kubernetes mode KubeAutoGpts resources are watched through the API server.
Metrics and health probes are served on the configured addresses, and the CRD
can be installed on start with --install-crd.

In filesystem mode every *.yaml file in the records directory is one record.
Results are written back into the file. Objects are still applied to the
cluster from the current kubeconfig; without one only dry-run records
converge.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	synthesizer, err := newSynthesizer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("Serve", "Starting in %s mode with model %s", cfg.Mode, cfg.Model)

	if cfg.Mode == config.ModeFilesystem {
		return serveFilesystem(ctx, cfg, synthesizer)
	}
	return serveKubernetes(ctx, cfg, synthesizer)
}

// applyServeFlags lets explicitly set flags win over the config file.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = config.Mode(serveMode)
	}
	if flags.Changed("records-dir") {
		cfg.RecordsDir = serveRecordsDir
	}
	if flags.Changed("workers") {
		cfg.WorkerCount = serveWorkers
	}
	if flags.Changed("install-crd") {
		cfg.InstallCRD = serveInstallCRD
	}
}

func serveKubernetes(ctx context.Context, cfg config.Config, synthesizer reconciler.Synthesizer) error {
	restCfg, err := ctrl.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	if cfg.InstallCRD {
		c, err := kubeclient.New(restCfg)
		if err != nil {
			return err
		}
		if err := installCRD(ctx, cfg, c); err != nil {
			return err
		}
	}

	opts := ctrl.Options{
		Scheme:                 kubeclient.NewScheme(),
		Logger:                 logging.Logr(),
		Metrics:                metricsserver.Options{BindAddress: cfg.MetricsBindAddress},
		HealthProbeBindAddress: cfg.HealthProbeBindAddress,
		LeaderElection:         cfg.LeaderElection,
		LeaderElectionID:       "kube-autogpt.kubeautogpt.io",
	}
	if cfg.WatchNamespace != "" {
		opts.Cache = cache.Options{DefaultNamespaces: map[string]cache.Config{cfg.WatchNamespace: {}}}
	}

	mgr, err := ctrl.NewManager(restCfg, opts)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return err
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return err
	}

	applier := newApplier(cfg, newKubeCluster(cfg, mgr.GetClient()))
	events := kubeclient.NewKubernetesClient(mgr.GetClient())
	controller := reconciler.NewController(mgr.GetClient(), events, newMachine(cfg, synthesizer, applier), cfg.WorkerCount)
	if err := controller.SetupWithManager(mgr); err != nil {
		return fmt.Errorf("failed to set up controller: %w", err)
	}

	logging.Info("Serve", "Starting manager")
	return mgr.Start(ctx)
}

// installCRD applies the embedded CustomResourceDefinition.
func installCRD(ctx context.Context, cfg config.Config, c client.Client) error {
	objs, err := manifest.Decode(crd.KubeAutoGpts)
	if err != nil {
		return fmt.Errorf("embedded CRD is invalid: %w", err)
	}
	res, err := newApplier(cfg, newKubeCluster(cfg, c)).Apply(ctx, objs, false)
	if err != nil {
		return fmt.Errorf("failed to install CRD: %w", err)
	}
	for _, obj := range res.Objects {
		logging.Info("Serve", "CRD %s %s", obj.Name, obj.Action)
	}
	return nil
}

func serveFilesystem(ctx context.Context, cfg config.Config, synthesizer reconciler.Synthesizer) error {
	var cluster apply.Cluster = apply.DisconnectedCluster{}
	if _, c, err := clusterClient(); err != nil {
		logging.Warn("Serve", "No cluster available, only dry-run records will converge: %v", err)
	} else {
		cluster = newKubeCluster(cfg, c)
	}

	store := kubeclient.NewFilesystemClient(cfg.RecordsDir)
	driver := reconciler.NewFileDriver(store, cfg.RecordsDir, newMachine(cfg, synthesizer, newApplier(cfg, cluster)),
		reconciler.FileDriverOptions{
			Workers: cfg.WorkerCount,
			Watch:   true,
		})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return driver.Run(gctx)
	})
	if cfg.MetricsBindAddress != "" && cfg.MetricsBindAddress != "0" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsBindAddress)
		})
	}
	return g.Wait()
}

// serveMetrics exposes the controller-runtime registry until ctx is done.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Info("Serve", "Serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveMode, "mode", string(config.ModeKubernetes), "Record source: kubernetes or filesystem")
	serveCmd.Flags().StringVar(&serveRecordsDir, "records-dir", "", "Directory of record files (filesystem mode)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 1, "Number of records reconciled concurrently")
	serveCmd.Flags().BoolVar(&serveInstallCRD, "install-crd", false, "Install the KubeAutoGpts CRD on start (kubernetes mode)")
}
