package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"kubeautogpt/internal/manifest"
	"kubeautogpt/internal/synth"
)

var generateQuiet bool

var generateCmd = &cobra.Command{
	Use:   "generate DESCRIPTION...",
	Short: "Generate manifests for a description without applying them",
	Long: `Asks the model for manifests matching the description and prints them.
Nothing is applied and no record is created. Advisory comments returned by
the model are printed as YAML comments after the manifests.

Example:
  kube-autogpt generate "an nginx deployment with 2 replicas and a service"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	synthesizer, err := newSynthesizer(cfg)
	if err != nil {
		return err
	}

	var s *spinner.Spinner
	if !generateQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = fmt.Sprintf(" Asking %s...", synthesizer.Model())
		s.Start()
	}

	answer, err := synthesizer.Synthesize(cmd.Context(), synth.Request{
		Mode:        synth.ModeGenerate,
		Description: strings.Join(args, " "),
	})

	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	return printGenerated(cmd.OutOrStdout(), answer)
}

// printGenerated writes the manifests of a generator answer followed by its
// comments.
func printGenerated(w io.Writer, answer string) error {
	objs, err := manifest.Decode(answer)
	if err != nil {
		return err
	}
	objs, comments, _ := manifest.SplitComments(objs)
	if err := manifest.Validate(objs); err != nil {
		return err
	}

	if len(objs) == 0 {
		fmt.Fprintln(os.Stderr, text.FgYellow.Sprint("The model returned no manifests"))
	} else {
		out, err := manifest.Encode(objs)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	}

	for _, c := range comments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Do not show a spinner")
}
