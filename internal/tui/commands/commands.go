// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/summary"
)

// StatusTimeout is how long a status message stays in the footer.
const StatusTimeout = 4 * time.Second

// EffectDoneMsg carries the outcome of a board effect back into Update.
type EffectDoneMsg struct {
	Effect board.Effect
	Action board.Action
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// SummaryMsg is sent when a period summary is ready.
type SummaryMsg struct {
	Summary *summary.Summary
}

// Effects runs each effect against repo concurrently. Every result arrives
// as an EffectDoneMsg.
func Effects(repo run.Repository, effects []board.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		cmds = append(cmds, effect(repo, e))
	}
	return tea.Batch(cmds...)
}

func effect(repo run.Repository, e board.Effect) tea.Cmd {
	return func() tea.Msg {
		return EffectDoneMsg{
			Effect: e,
			Action: board.Execute(context.Background(), repo, e),
		}
	}
}

// ClearStatusAfter clears the status message after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// Summary builds the summary of the period shown by view around ref.
// The LLM insight is only requested when insight is set.
func Summary(cfg *config.Config, repo run.Repository, ref time.Time, view calendar.View, status run.Status, insight bool) tea.Cmd {
	return func() tea.Msg {
		s, err := summary.Build(context.Background(), repo, summary.BuildOptions{
			Reference:      ref,
			View:           view,
			Status:         status,
			IncludeInsight: insight,
			Provider:       cfg.LLM.Provider,
			Model:          cfg.LLM.Model,
			BaseURL:        cfg.LLM.BaseURL,
		})
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SummaryMsg{Summary: s}
	}
}
