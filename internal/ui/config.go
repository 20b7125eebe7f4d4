package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/llm"
	"github.com/javiermolinar/runcal/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{r: reader, w: out}
	cfg.Calendar.DefaultView = p.choice("Default view", cfg.Calendar.DefaultView, viewNames())
	cfg.Calendar.StatusFilter = p.value("Status filter (empty for all)", cfg.Calendar.StatusFilter)
	cfg.Calendar.Workdays = p.slice("Workdays (comma-separated)", cfg.Calendar.Workdays)
	cfg.Calendar.ShiftStart = p.value("Shift start", cfg.Calendar.ShiftStart)
	cfg.Calendar.ShiftEnd = p.value("Shift end", cfg.Calendar.ShiftEnd)
	cfg.LLM.Provider = p.choice("LLM provider", cfg.LLM.Provider, llm.Providers())
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.choice("UI theme", cfg.UI.Theme, theme.Available())
	cfg.Log.File = p.value("Log file (empty to disable)", cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[calendar]")
	fmt.Fprintf(w, "  default_view     = %s\n", cfg.Calendar.DefaultView)
	if cfg.Calendar.StatusFilter != "" {
		fmt.Fprintf(w, "  status_filter    = %s\n", cfg.Calendar.StatusFilter)
	}
	fmt.Fprintf(w, "  workdays         = %s\n", strings.Join(cfg.Calendar.Workdays, ", "))
	fmt.Fprintf(w, "  shift_start      = %s\n", cfg.Calendar.ShiftStart)
	fmt.Fprintf(w, "  shift_end        = %s\n", cfg.Calendar.ShiftEnd)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
}

func viewNames() []string {
	var names []string
	for _, v := range calendar.Views() {
		names = append(names, v.String())
	}
	return names
}

// promptYesNo asks question and reports whether the answer was yes.
// in may be a *bufio.Reader shared with later prompts.
func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) slice(label string, current []string) []string {
	input := p.value(label, strings.Join(current, ", "))
	var result []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// choice re-prompts until the answer is one of options. It gives up and
// keeps current when input runs out.
func (p prompter) choice(label, current string, options []string) string {
	label = fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
	for range 5 {
		value := strings.ToLower(p.value(label, current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Fprintf(p.w, "  Invalid value %q. Available: %s\n", value, strings.Join(options, ", "))
	}
	return current
}
