package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventide-app/eventide/internal/api"
	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/log"
	"github.com/eventide-app/eventide/internal/schedule"
)

// Sentinel responses the collaborator may return instead of a schedule.
// These are first-class successful outcomes, not errors.
const (
	SentinelPerfect       = "Perfect Schedule"
	SentinelEmpty         = "Empty Schedule Provided"
	StructuralErrorPrefix = "Incorrect JSON Object Structure"
	NoEventsSummary       = "No events scheduled for this date."
)

// Assistant orchestrates calls to the text-generation collaborator and
// reconciles its untrusted output with the persisted schedule.
type Assistant struct {
	provider api.Provider
	store    *schedule.Store
	model    config.ModelSettings
	now      func() time.Time
}

// New creates an Assistant over the given provider and store.
func New(provider api.Provider, store *schedule.Store, model config.ModelSettings) *Assistant {
	return &Assistant{
		provider: provider,
		store:    store,
		model:    model,
		now:      time.Now,
	}
}

// OptimizeResult is the outcome of an optimize operation: either a sentinel
// message passed through from the collaborator, or the reconciled schedule
// as persisted.
type OptimizeResult struct {
	Sentinel string
	Schedule []schedule.Item
}

// Optimize sends the schedule to the collaborator, validates whatever comes
// back, applies the user's modification grants per item, and commits the
// reconciled schedule in one transaction. Sentinel responses short-circuit
// with zero store writes, as does every failure path.
//
// items must already be validated and sanitized: ungranted fields revert to
// them and are persisted as-is.
func (a *Assistant) Optimize(ctx context.Context, items []schedule.Item, allowed []string) (*OptimizeResult, error) {
	if len(items) == 0 {
		return &OptimizeResult{Sentinel: SentinelEmpty}, nil
	}

	scheduleJSON, err := json.Marshal(map[string]any{"schedule": items})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schedule: %w", err)
	}

	text, err := a.complete(ctx, BuildOptimizerPrompt(allowed, string(scheduleJSON)))
	if err != nil {
		return nil, err
	}

	text = StripFence(text)
	if sentinel, ok := classifySentinel(text); ok {
		log.Debug("optimizer returned sentinel", "sentinel", sentinel)
		return &OptimizeResult{Sentinel: sentinel}, nil
	}

	proposed, err := parseScheduleEnvelope(text)
	if err != nil {
		return nil, err
	}

	var violations []*schedule.ValidationError
	parsed := make([]schedule.Item, 0, len(proposed))
	for _, fields := range proposed {
		it, vs := schedule.ParseItem(fields, schedule.ProfileOptimized)
		violations = append(violations, vs...)
		parsed = append(parsed, it)
	}
	if len(violations) > 0 {
		return nil, &schedule.BatchError{Violations: violations}
	}

	// The optimizer may only revise the existing id-set: an unknown
	// proposed id or a dropped original id is a structural error.
	byID := make(map[int64]schedule.Item, len(parsed))
	originals := make(map[int64]bool, len(items))
	for _, it := range items {
		originals[it.ID] = true
	}
	for _, it := range parsed {
		if !originals[it.ID] {
			return nil, &schedule.ValidationError{
				Kind:   schedule.KindStructural,
				ItemID: it.ID,
				Detail: "proposed item id not present in the original schedule",
			}
		}
		byID[it.ID] = it
	}

	grants := schedule.NewGrants(allowed)
	reconciled := make([]schedule.Item, 0, len(items))
	for _, original := range items {
		prop, ok := byID[original.ID]
		if !ok {
			return nil, &schedule.ValidationError{
				Kind:   schedule.KindStructural,
				ItemID: original.ID,
				Detail: "original item missing from the proposed schedule",
			}
		}
		merged, denied := schedule.Apply(original, prop, grants)
		if len(denied) > 0 {
			log.Debug("reverted ungranted changes", "item", original.ID, "fields", strings.Join(denied, ","))
		}
		reconciled = append(reconciled, merged)
	}

	if err := a.store.UpdateAll(reconciled); err != nil {
		return nil, fmt.Errorf("failed to commit optimized schedule: %w", err)
	}

	return &OptimizeResult{Schedule: reconciled}, nil
}

// GenerateEvent asks the collaborator for one random event, validates it
// against the generator constraint profile, and persists it.
func (a *Assistant) GenerateEvent(ctx context.Context) (*schedule.Item, error) {
	text, err := a.complete(ctx, BuildEventGeneratorPrompt(a.now()))
	if err != nil {
		return nil, err
	}

	proposed, err := parseScheduleEnvelope(StripFence(text))
	if err != nil {
		return nil, err
	}
	if len(proposed) == 0 {
		return nil, &schedule.ValidationError{Kind: schedule.KindStructural, Detail: "generated schedule is empty"}
	}

	// The id is store-assigned, never generator-supplied.
	delete(proposed[0], "id")

	item, violations := schedule.ParseItem(proposed[0], schedule.ProfileGenerated)
	if len(violations) > 0 {
		return nil, &schedule.BatchError{Violations: violations}
	}
	if item.Type != schedule.TypeEvent {
		return nil, &schedule.ValidationError{Kind: schedule.KindInvalidEnum, Field: "type", Detail: "generated event must be of type \"event\""}
	}

	created, err := a.store.Create(item)
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated event: %w", err)
	}
	log.Info("created AI-generated event", "id", created.ID, "title", created.Title)
	return created, nil
}

// GenerateSchedule asks the collaborator for a full schedule, validates
// every item, and atomically replaces the persisted schedule. A failure at
// any step leaves the prior schedule untouched.
func (a *Assistant) GenerateSchedule(ctx context.Context) ([]schedule.Item, error) {
	text, err := a.complete(ctx, BuildScheduleGeneratorPrompt(a.now()))
	if err != nil {
		return nil, err
	}

	proposed, err := parseScheduleEnvelope(StripFence(text))
	if err != nil {
		return nil, err
	}
	if len(proposed) == 0 {
		return nil, &schedule.ValidationError{Kind: schedule.KindStructural, Detail: "generated schedule is empty"}
	}

	var violations []*schedule.ValidationError
	items := make([]schedule.Item, 0, len(proposed))
	for _, fields := range proposed {
		delete(fields, "id")
		it, vs := schedule.ParseItem(fields, schedule.ProfileGenerated)
		violations = append(violations, vs...)
		items = append(items, it)
	}
	if len(violations) > 0 {
		return nil, &schedule.BatchError{Violations: violations}
	}

	created, err := a.store.ReplaceAll(items)
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated schedule: %w", err)
	}
	log.Info("replaced schedule with AI-generated items", "count", len(created))
	return created, nil
}

// Summarize produces a single-line natural-language summary of the given
// schedule. An empty schedule returns the fixed no-events message without a
// collaborator call.
func (a *Assistant) Summarize(ctx context.Context, items []schedule.Item) (string, error) {
	if len(items) == 0 {
		return NoEventsSummary, nil
	}

	scheduleJSON, err := json.Marshal(map[string]any{"schedule": items})
	if err != nil {
		return "", fmt.Errorf("failed to serialize schedule: %w", err)
	}

	text, err := a.complete(ctx, BuildSummarizerPrompt(string(scheduleJSON)))
	if err != nil {
		return "", err
	}

	summary := StripFence(text)
	// The summary contract is one line; collapse anything the model
	// slipped through.
	summary = strings.Join(strings.Fields(summary), " ")
	if summary == "" {
		return "", fmt.Errorf("collaborator returned an empty summary")
	}
	return summary, nil
}

// complete performs the single blocking collaborator call. No retry: any
// failure is terminal for the request.
func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.provider.SendMessage(ctx, api.MessageRequest{
		Messages:    []api.Message{{Role: "user", Content: prompt}},
		Model:       a.model.Name,
		MaxTokens:   a.model.MaxTokens,
		Temperature: a.model.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("collaborator request failed: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("collaborator returned an empty response")
	}
	return resp.Content, nil
}

// StripFence removes a wrapping markdown code fence, a textual convention
// of the collaborator rather than a protocol guarantee.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// classifySentinel matches the stripped text against the fixed sentinel
// strings. Text matching none of them is not a sentinel, whatever it is.
func classifySentinel(s string) (string, bool) {
	if s == SentinelPerfect || s == SentinelEmpty || strings.HasPrefix(s, StructuralErrorPrefix) {
		return s, true
	}
	return "", false
}

// parseScheduleEnvelope parses the collaborator text as a JSON document
// shaped {"schedule": [...]}. Invalid JSON is a parse error; valid JSON of
// the wrong shape is a structural error.
func parseScheduleEnvelope(text string) ([]map[string]any, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &schedule.ValidationError{Kind: schedule.KindStructural, Detail: "response is not a JSON object"}
		}
		return nil, &schedule.ValidationError{Kind: schedule.KindParse, Detail: snippet(text)}
	}

	raw, ok := top["schedule"]
	if !ok {
		return nil, &schedule.ValidationError{Kind: schedule.KindStructural, Detail: "missing \"schedule\" key"}
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &schedule.ValidationError{Kind: schedule.KindStructural, Detail: "\"schedule\" must be an array of objects"}
	}
	return items, nil
}

func snippet(s string) string {
	const max = 80
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "not valid JSON: " + s
}
