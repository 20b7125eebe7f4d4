package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/runcal/internal/planner"
)

func (a *App) planCmd() *cobra.Command {
	var (
		model   string
		retries int
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "plan <request>",
		Short: "Draft production runs from a natural language request",
		Long: `Ask the configured LLM to turn a request into production runs.

Drafts are checked against the plant calendar before they are shown:
runs must parse, must not start in the past and must not end before
they start. Runs on non-workdays are shown with a warning.

After a draft is shown you can:
  [a]ccept  save the runs
  [m]odify  describe a change and draft again
  [c]ancel  exit without saving`,
		Example: `  runcal plan "1250 kg granola base mix tomorrow, three shifts"
  runcal plan "oat bars on Monday and Tuesday, 800 kg each" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if model == "" {
				model = a.config.LLM.Model
			}
			client, err := a.newClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			ctx := context.Background()
			out := cmd.OutOrStdout()
			p := planner.New(client, a.config, a.repo, a.logger())

			fmt.Fprintln(out, "Drafting runs...")
			result, err := p.Plan(ctx, strings.Join(args, " "), retries)
			if err != nil {
				return fmt.Errorf("planning: %w", err)
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				printPlan(out, result)
				if dryRun {
					fmt.Fprintln(out, formatMuted("(dry run, nothing saved)"))
					return nil
				}

				fmt.Fprint(out, "\n[a]ccept / [m]odify / [c]ancel: ")
				choice, err := readLine(reader)
				if err != nil {
					return err
				}

				switch strings.ToLower(choice) {
				case "a", "accept":
					if result.HasErrors() {
						fmt.Fprintln(out, "Cannot save: the draft still has errors. [m]odify or [c]ancel.")
						continue
					}
					if err := p.Save(ctx, result); err != nil {
						return fmt.Errorf("saving runs: %w", err)
					}
					fmt.Fprintf(out, "Saved %d run(s)\n", len(result.Runs))
					return nil

				case "m", "modify":
					fmt.Fprint(out, "What should change? ")
					feedback, err := readLine(reader)
					if err != nil {
						return err
					}
					if feedback == "" {
						continue
					}
					fmt.Fprintln(out, "Drafting runs...")
					if result, err = p.Continue(ctx, feedback, retries); err != nil {
						return fmt.Errorf("planning: %w", err)
					}

				case "c", "cancel":
					fmt.Fprintln(out, "Planning cancelled")
					return nil

				default:
					fmt.Fprintln(out, "Please enter a, m or c.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().IntVar(&retries, "retries", planner.DefaultRetries, "Correction rounds when a draft fails validation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the draft without saving")
	return cmd
}

// readLine reads one trimmed line. EOF on an unterminated line returns
// what was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printPlan(w io.Writer, result *planner.Result) {
	fmt.Fprintln(w)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "%s\n", formatWarning("! "+warning))
	}

	if result.HasErrors() {
		fmt.Fprintf(w, "Draft rejected after %d attempt(s):\n", result.Attempts)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
		return
	}
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs proposed.")
		return
	}

	width := titleWidth(termWidth())
	for _, r := range result.Runs {
		printRunRow(w, r, width)
	}
}
