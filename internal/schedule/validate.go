package schedule

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Profile selects the required-field set and check strictness for a call
// site. Direct CRUD is lenient about generator-only policy bounds; items
// produced by the text-generation collaborator are not.
type Profile int

const (
	// ProfileCreate covers user-submitted creation payloads.
	ProfileCreate Profile = iota
	// ProfileUpdate covers user-submitted updates, which additionally
	// require urgency.
	ProfileUpdate
	// ProfileOptimized covers AI-optimized items: the full field set,
	// validated against the stored schema.
	ProfileOptimized
	// ProfileGenerated covers AI-generated items: the full field set plus
	// the generator policy bounds (duration, waking hours, text lengths).
	ProfileGenerated
)

var fullFieldSet = []string{"title", "startDate", "endDate", "start", "end", "description", "locked", "type", "urgency"}

func (p Profile) required() []string {
	switch p {
	case ProfileCreate:
		return []string{"title", "startDate", "endDate", "start", "end"}
	case ProfileUpdate:
		return []string{"title", "startDate", "endDate", "start", "end", "urgency"}
	default:
		return fullFieldSet
	}
}

// generated reports whether the generator-only policy bounds apply.
func (p Profile) generated() bool {
	return p == ProfileGenerated
}

// ParseItem builds an Item from the untrusted JSON object fields of one
// schedule entry, collecting every violation rather than stopping at the
// first. Free-text fields are sanitized; absent optional fields get their
// documented defaults. The returned Item is only meaningful when the
// violation list is empty.
func ParseItem(fields map[string]any, p Profile) (Item, []*ValidationError) {
	var violations []*ValidationError

	for _, name := range p.required() {
		if _, ok := fields[name]; !ok {
			violations = append(violations, missing(name))
		}
	}

	var it Item
	it.ID = intField(fields, "id", &violations)
	it.Title = stringField(fields, "title", &violations)
	it.Description = stringField(fields, "description", &violations)
	it.Type = stringField(fields, "type", &violations)
	it.StartDate = stringField(fields, "startDate", &violations)
	it.EndDate = stringField(fields, "endDate", &violations)
	it.Start = stringField(fields, "start", &violations)
	it.End = stringField(fields, "end", &violations)
	it.Urgency = stringField(fields, "urgency", &violations)
	it.Locked = boolField(fields, "locked", &violations)

	if it.Type == "" && !contains(p.required(), "type") {
		it.Type = TypeEvent
	}
	if it.Urgency == "" && !contains(p.required(), "urgency") {
		it.Urgency = UrgencyTrivial
	}

	it.Sanitize()

	violations = append(violations, checkItem(it, p)...)
	for _, v := range violations {
		v.ItemID = it.ID
	}
	return it, violations
}

// Validate checks an already-typed item against the profile, collecting
// every violation. Presence cannot be judged on a struct, so callers with
// raw JSON should prefer ParseItem.
func Validate(it Item, p Profile) []*ValidationError {
	vs := checkItem(it, p)
	for _, v := range vs {
		v.ItemID = it.ID
	}
	return vs
}

// ValidateBatch runs Validate over a full schedule and reports all
// violations across all items, or nil when every item passes.
func ValidateBatch(items []Item, p Profile) error {
	var all []*ValidationError
	for _, it := range items {
		all = append(all, Validate(it, p)...)
	}
	if len(all) > 0 {
		return &BatchError{Violations: all}
	}
	return nil
}

// checkItem runs the field-format and cross-field checks. Fields that are
// empty are skipped here: either they were reported missing already, or the
// profile treats them as optional.
func checkItem(it Item, p Profile) []*ValidationError {
	var vs []*ValidationError

	// Title is required by every profile; empty after sanitization is as
	// invalid as absent.
	if it.Title == "" {
		vs = append(vs, badFormat("title", "must not be empty"))
	} else {
		n := utf8.RuneCountInString(it.Title)
		if n > 20 {
			vs = append(vs, badFormat("title", "must be at most 20 characters"))
		} else if p.generated() && n < 5 {
			vs = append(vs, badFormat("title", "must be 5-20 characters"))
		}
	}

	if p.generated() && it.Description != "" {
		n := utf8.RuneCountInString(it.Description)
		if n < 10 || n > 50 {
			vs = append(vs, badFormat("description", "must be 10-50 characters"))
		}
	}

	if it.Type != "" && it.Type != TypeEvent && it.Type != TypeReminder {
		vs = append(vs, badEnum("type", fmt.Sprintf("%q is not %q or %q", it.Type, TypeEvent, TypeReminder)))
	}

	if it.Urgency != "" && !contains(Urgencies, it.Urgency) {
		vs = append(vs, badEnum("urgency", fmt.Sprintf("%q is not a valid urgency", it.Urgency)))
	}

	startDate, sdErr := time.Parse(DateLayout, it.StartDate)
	if it.StartDate != "" && sdErr != nil {
		vs = append(vs, badFormat("startDate", "use YYYY-MM-DD"))
	}
	endDate, edErr := time.Parse(DateLayout, it.EndDate)
	if it.EndDate != "" && edErr != nil {
		vs = append(vs, badFormat("endDate", "use YYYY-MM-DD"))
	}

	start, stErr := time.Parse(TimeLayout, it.Start)
	if it.Start != "" && stErr != nil {
		vs = append(vs, badFormat("start", "use HH:MM AM/PM"))
	}
	end, etErr := time.Parse(TimeLayout, it.End)
	if it.End != "" && etErr != nil {
		vs = append(vs, badFormat("end", "use HH:MM AM/PM"))
	}

	if sdErr == nil && edErr == nil && it.StartDate != "" && it.EndDate != "" {
		if endDate.Before(startDate) {
			vs = append(vs, &ValidationError{Kind: KindOrdering, Field: "endDate", Detail: "endDate cannot be before startDate"})
		}
	}

	if stErr == nil && etErr == nil && it.Start != "" && it.End != "" {
		if !end.After(start) {
			vs = append(vs, &ValidationError{Kind: KindOrdering, Field: "end", Detail: "end time must be after start time"})
		} else if p.generated() {
			d := end.Sub(start)
			if d < 30*time.Minute || d > 4*time.Hour {
				vs = append(vs, &ValidationError{Kind: KindDuration, Field: "end", Detail: "duration must be between 30 minutes and 4 hours"})
			}
			if start.Hour() < 8 || end.Hour() > 22 || (end.Hour() == 22 && end.Minute() > 0) {
				vs = append(vs, &ValidationError{Kind: KindDuration, Field: "start", Detail: "must fall within waking hours (8 AM-10 PM)"})
			}
		}
	}

	if it.Type == TypeReminder && it.StartDate != "" && it.EndDate != "" && it.StartDate != it.EndDate {
		vs = append(vs, &ValidationError{Kind: KindOrdering, Field: "endDate", Detail: "reminders must have the same startDate and endDate"})
	}

	return vs
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidClock reports whether s is a well-formed HH:MM AM/PM time of day.
func ValidClock(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

func stringField(fields map[string]any, name string, violations *[]*ValidationError) string {
	v, ok := fields[name]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		*violations = append(*violations, badFormat(name, "must be a string"))
		return ""
	}
	return s
}

func boolField(fields map[string]any, name string, violations *[]*ValidationError) bool {
	v, ok := fields[name]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		*violations = append(*violations, badFormat(name, "must be a boolean"))
		return false
	}
	return b
}

func intField(fields map[string]any, name string, violations *[]*ValidationError) int64 {
	v, ok := fields[name]
	if !ok {
		return 0
	}
	// encoding/json decodes numbers in an any as float64.
	f, ok := v.(float64)
	if !ok || f != float64(int64(f)) {
		*violations = append(*violations, badFormat(name, "must be an integer"))
		return 0
	}
	return int64(f)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
