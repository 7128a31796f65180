package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"kubeautogpt/internal/config"
	"kubeautogpt/internal/reconciler"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
	kstrings "kubeautogpt/pkg/strings"
)

var (
	listNamespace  string
	listMode       string
	listRecordsDir string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List records and their state",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = config.Mode(listMode)
	}
	if cmd.Flags().Changed("records-dir") {
		cfg.RecordsDir = listRecordsDir
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	records, err := recordClient(cfg)
	if err != nil {
		return err
	}
	items, err := records.ListRecords(cmd.Context(), listNamespace)
	if err != nil {
		return err
	}

	renderRecords(cmd.OutOrStdout(), items, cfg.MaxRepairAttempts, records.IsKubernetesMode())
	return nil
}

// renderRecords prints records as a table. Record files all live in one
// namespace, so the column is only shown for cluster records.
func renderRecords(w io.Writer, items []v1.KubeAutoGpts, maxRepairAttempts int32, showNamespace bool) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s\n", text.FgYellow.Sprint("No records found"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	header := table.Row{"NAME", "STATE", "DRY RUN", "ATTEMPTS", "OBJECTS", "COMMENTS", "ERROR"}
	if showNamespace {
		header = append(table.Row{"NAMESPACE"}, header...)
	}
	t.AppendHeader(header)

	for _, item := range items {
		state := reconciler.StateOf(item.Spec, item.Status, maxRepairAttempts)
		row := table.Row{
			item.Name,
			colorState(state),
			strconv.FormatBool(item.Spec.DryRun),
			item.Status.RepairAttempts,
			len(item.Status.CreatedObjects),
			len(item.Status.Comments),
			kstrings.OneLine(errorColumn(item.Status), kstrings.DefaultColumnWidth),
		}
		if showNamespace {
			row = append(table.Row{item.Namespace}, row...)
		}
		t.AppendRow(row)
	}
	t.Render()
}

// errorColumn falls back to the generator failure, which is reported only
// through the Synthesized condition.
func errorColumn(status v1.KubeAutoGptsStatus) string {
	if status.Error != "" {
		return status.Error
	}
	c := meta.FindStatusCondition(status.Conditions, v1.ConditionSynthesized)
	if c != nil && c.Status == metav1.ConditionFalse && c.Reason == reconciler.ReasonTransportError {
		return "generator unavailable: " + c.Message
	}
	return ""
}

func colorState(state reconciler.State) string {
	switch state {
	case reconciler.StateConverged:
		return text.FgGreen.Sprint(state)
	case reconciler.StateFailed:
		return text.FgYellow.Sprint(state)
	case reconciler.StateExhausted:
		return text.FgRed.Sprint(state)
	}
	return string(state)
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listNamespace, "namespace", "n", "", "Only list records in this namespace")
	listCmd.Flags().StringVar(&listMode, "mode", string(config.ModeKubernetes), "Record source: kubernetes or filesystem")
	listCmd.Flags().StringVar(&listRecordsDir, "records-dir", "", "Directory of record files (filesystem mode)")
}
