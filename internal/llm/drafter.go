package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/run"
)

const drafterPromptTemplate = `You are a production planner for a food plant. Turn the request into production runs.

Context:
- Now: %s (%s)
- Shift hours: %s to %s
- Next workday: %s (%s)

%s

Rules:
1. Resolve every date; use "YYYY-MM-DD HH:MM" (24-hour, local time) for start and end
2. Never start a run before now
3. Start runs at shift start unless the request names a time
4. A run that needs several shifts spans several days; end must not precede start
5. Keep quantities and units exactly as requested; use 0 and "" when none is given
6. Add a warning for runs placed on non-workdays or next to existing runs of the same product

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "runs": [
    {
      "product": "string",
      "recipe": "string",
      "start": "YYYY-MM-DD HH:MM",
      "end": "YYYY-MM-DD HH:MM",
      "quantity": 0,
      "unit": "string",
      "notes": "string"
    }
  ],
  "warnings": ["string"]
}`

// DraftRequest is the context sent with a planning request.
type DraftRequest struct {
	Now         time.Time
	ShiftStart  string // "HH:MM"
	ShiftEnd    string // "HH:MM"
	NextWorkday time.Time
	Existing    []*run.Run
}

// DraftedRun is a run proposed by the model. Times are unparsed.
type DraftedRun struct {
	Product  string  `json:"product"`
	Recipe   string  `json:"recipe"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Notes    string  `json:"notes"`
}

// DraftResponse is the parsed answer of the model.
type DraftResponse struct {
	Runs     []DraftedRun `json:"runs"`
	Warnings []string     `json:"warnings"`
}

// Drafter asks an LLM to turn natural language into production runs.
type Drafter struct {
	client Client
}

// NewDrafter creates a Drafter backed by client.
func NewDrafter(client Client) *Drafter {
	return &Drafter{client: client}
}

// InitialMessages builds the conversation for a new planning request.
func (d *Drafter) InitialMessages(req DraftRequest, input string) []Message {
	existing := "Existing runs: None"
	if len(req.Existing) > 0 {
		end := req.Now.AddDate(0, 1, 0)
		existing = "Existing runs:\n" + FormatSchedule(req.Now, end, req.Existing)
	}

	shiftStart := cmpOr(req.ShiftStart, "06:00")
	shiftEnd := cmpOr(req.ShiftEnd, "22:00")
	prompt := fmt.Sprintf(drafterPromptTemplate,
		req.Now.Format("2006-01-02 15:04"), req.Now.Format("Monday"),
		shiftStart, shiftEnd,
		req.NextWorkday.Format("2006-01-02"), req.NextWorkday.Format("Monday"),
		strings.TrimRight(existing, "\n"),
	)

	return []Message{
		{Role: RoleSystem, Content: prompt},
		{Role: RoleUser, Content: input},
	}
}

// Draft sends the conversation and parses the proposed runs.
func (d *Drafter) Draft(ctx context.Context, messages []Message) (*DraftResponse, error) {
	var resp DraftResponse
	if err := d.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("drafting runs: %w", err)
	}
	return &resp, nil
}
