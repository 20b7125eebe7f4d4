package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/run"
)

const reviewerSystemPrompt = `You are a production planner reviewing a plant schedule. Respond with JSON only, no markdown. Be concise and specific.`

const reviewerPromptTemplate = `Review this production schedule and respond with EXACTLY this JSON shape:

{
  "theme": "2-4 word summary of the period",
  "risks": ["one line per risk, at most 3"],
  "actions": ["one line per concrete scheduling change, at most 2"]
}

Look for:
- runs blocked by material shortage and what they delay
- overlapping runs on the same day
- runs still unconfirmed close to their start
- idle days between runs

Keep every line under 70 characters and cite run IDs and dates from the data.

Schedule:
%s`

// Review is the structured answer of the reviewer.
type Review struct {
	Theme   string   `json:"theme"`
	Risks   []string `json:"risks"`
	Actions []string `json:"actions"`
}

// String renders the review as plain text.
func (r Review) String() string {
	var sb strings.Builder
	if r.Theme != "" {
		fmt.Fprintf(&sb, "THEME: %s\n", r.Theme)
	}
	for _, risk := range r.Risks {
		fmt.Fprintf(&sb, "⚠  %s\n", risk)
	}
	if len(r.Actions) > 0 {
		sb.WriteString("\nNEXT:\n")
		for _, a := range r.Actions {
			fmt.Fprintf(&sb, "➜  %s\n", a)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Reviewer asks an LLM to point out risks in a production schedule.
type Reviewer struct {
	client Client
}

// NewReviewer creates a Reviewer backed by client.
func NewReviewer(client Client) *Reviewer {
	return &Reviewer{client: client}
}

// Review sends the runs between start and end to the LLM and returns its
// review as text.
func (r *Reviewer) Review(ctx context.Context, start, end time.Time, runs []*run.Run) (string, error) {
	var review Review
	err := r.client.ChatJSON(ctx, []Message{
		{Role: RoleSystem, Content: reviewerSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(reviewerPromptTemplate, FormatSchedule(start, end, runs))},
	}, &review)
	if err != nil {
		return "", err
	}
	return review.String(), nil
}

// FormatSchedule renders runs as the compact listing sent to the model:
//
//	#12 Mar 13 06:00 - Mar 15 14:00  Granola · Base mix  1250 kg  [Material Shortage]
func FormatSchedule(start, end time.Time, runs []*run.Run) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Period: %s - %s\n\n", start.Format("Mon Jan 2"), end.Format("Mon Jan 2, 2006"))
	if len(runs) == 0 {
		sb.WriteString("(no runs)\n")
		return sb.String()
	}
	for _, rn := range runs {
		if rn == nil {
			continue
		}
		fmt.Fprintf(&sb, "#%d %s - %s  %s  %s  [%s]\n",
			rn.ID,
			rn.StartDate.Format("Jan 2 15:04"),
			rn.EndDate.Format("Jan 2 15:04"),
			rn.Title(),
			rn.Quantity(),
			rn.Status)
	}
	return sb.String()
}
