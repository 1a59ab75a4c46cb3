package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rjweaver/cronsched/internal/crontab"
)

// ImportCommand wraps cobra.Command with import-specific flags.
type ImportCommand struct {
	*cobra.Command
	output string
}

func newImportCommand() *ImportCommand {
	ic := &ImportCommand{}
	ic.Command = &cobra.Command{
		Use:   "import <crontab-file>",
		Short: "Turn an OS crontab file into a starter registration YAML",
		Long: `Read an existing crontab file and emit a registration YAML list this
scheduler can run, surfacing any line this scheduler's strict POSIX parser
would reject (legacy step/range syntax is expanded; unsupported macros like
@reboot are reported but dropped).

Each generated task is named imported-line-N after its line number in the
crontab file, and its command is left as written.

Examples:
  cronsched import /etc/crontab
  cronsched import mycrontab --output registrations.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: ic.runImport,
	}

	ic.Flags().StringVarP(&ic.output, "output", "o", "", "Write YAML to this path instead of stdout")

	return ic
}

func init() {
	rootCmd.AddCommand(newImportCommand().Command)
}

func (ic *ImportCommand) runImport(_ *cobra.Command, args []string) error {
	reader := crontab.NewReader()
	jobs, err := reader.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read crontab file: %w", err)
	}

	cfg := Config{}
	var rejected []string

	for _, job := range jobs {
		if !job.Valid {
			rejected = append(rejected, fmt.Sprintf("line %d: %s (%s)", job.LineNumber, job.Expression, job.Error))
			continue
		}
		cfg.Tasks = append(cfg.Tasks, TaskConfig{
			Name:    fmt.Sprintf("imported-line-%d", job.LineNumber),
			Cron:    job.Strict,
			Command: job.Command,
		})
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	w := ic.OutOrStdout()
	if ic.output != "" {
		if err := writeFile(ic.output, out); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %d task(s) to %s\n", len(cfg.Tasks), ic.output)
	} else {
		w.Write(out)
	}

	for _, r := range rejected {
		fmt.Fprintf(ic.ErrOrStderr(), "skipped: %s\n", r)
	}

	return nil
}
