package schedule

import (
	"errors"
	"testing"
)

func validFields() map[string]any {
	return map[string]any{
		"title":       "Project Meeting",
		"description": "Team meeting to discuss progress",
		"type":        "event",
		"startDate":   "2025-08-16",
		"endDate":     "2025-08-16",
		"start":       "9:00 AM",
		"end":         "11:00 AM",
		"locked":      false,
		"urgency":     "important",
	}
}

func hasViolation(vs []*ValidationError, kind ErrorKind, field string) bool {
	for _, v := range vs {
		if v.Kind == kind && v.Field == field {
			return true
		}
	}
	return false
}

func TestParseItem_Valid(t *testing.T) {
	for _, p := range []Profile{ProfileCreate, ProfileUpdate, ProfileOptimized} {
		_, vs := ParseItem(validFields(), p)
		if len(vs) != 0 {
			t.Errorf("profile %d: expected no violations, got %v", p, vs)
		}
	}
}

func TestParseItem_MissingFields(t *testing.T) {
	for _, field := range []string{"title", "startDate", "endDate", "start", "end"} {
		fields := validFields()
		delete(fields, field)
		_, vs := ParseItem(fields, ProfileCreate)
		if !hasViolation(vs, KindMissingField, field) {
			t.Errorf("expected missing_field for %s, got %v", field, vs)
		}
	}
}

func TestParseItem_UpdateRequiresUrgency(t *testing.T) {
	fields := validFields()
	delete(fields, "urgency")

	if _, vs := ParseItem(fields, ProfileCreate); len(vs) != 0 {
		t.Errorf("create should not require urgency, got %v", vs)
	}
	if _, vs := ParseItem(fields, ProfileUpdate); !hasViolation(vs, KindMissingField, "urgency") {
		t.Errorf("update should require urgency, got %v", vs)
	}
}

func TestParseItem_Defaults(t *testing.T) {
	fields := validFields()
	delete(fields, "type")
	delete(fields, "urgency")
	delete(fields, "locked")

	it, vs := ParseItem(fields, ProfileCreate)
	if len(vs) != 0 {
		t.Fatalf("expected no violations, got %v", vs)
	}
	if it.Type != TypeEvent {
		t.Errorf("expected type to default to event, got %q", it.Type)
	}
	if it.Urgency != UrgencyTrivial {
		t.Errorf("expected urgency to default to trivial, got %q", it.Urgency)
	}
	if it.Locked {
		t.Errorf("expected locked to default to false")
	}
}

func TestParseItem_DateOrdering(t *testing.T) {
	fields := validFields()
	fields["startDate"] = "2025-08-16"
	fields["endDate"] = "2025-08-15"
	_, vs := ParseItem(fields, ProfileCreate)
	if !hasViolation(vs, KindOrdering, "endDate") {
		t.Errorf("expected ordering_violation for endDate, got %v", vs)
	}

	// Equal dates are fine.
	fields["endDate"] = "2025-08-16"
	if _, vs := ParseItem(fields, ProfileCreate); len(vs) != 0 {
		t.Errorf("equal dates should be accepted, got %v", vs)
	}
}

func TestParseItem_TimeOrdering(t *testing.T) {
	fields := validFields()
	fields["start"] = "11:00 AM"
	fields["end"] = "9:00 AM"
	if _, vs := ParseItem(fields, ProfileCreate); !hasViolation(vs, KindOrdering, "end") {
		t.Errorf("expected ordering_violation for end before start, got %v", vs)
	}

	// Strict inequality: end == start rejects too.
	fields["end"] = "11:00 AM"
	if _, vs := ParseItem(fields, ProfileCreate); !hasViolation(vs, KindOrdering, "end") {
		t.Errorf("expected ordering_violation for end == start, got %v", vs)
	}
}

func TestParseItem_ReminderSameDay(t *testing.T) {
	fields := validFields()
	fields["type"] = "reminder"
	fields["startDate"] = "2025-08-16"
	fields["endDate"] = "2025-08-17"
	if _, vs := ParseItem(fields, ProfileCreate); !hasViolation(vs, KindOrdering, "endDate") {
		t.Errorf("reminder spanning days should be rejected, got %v", vs)
	}

	// An event may span days.
	fields["type"] = "event"
	if _, vs := ParseItem(fields, ProfileCreate); len(vs) != 0 {
		t.Errorf("multi-day event should be accepted, got %v", vs)
	}
}

func TestParseItem_Formats(t *testing.T) {
	cases := []struct {
		field string
		value any
	}{
		{"startDate", "16-08-2025"},
		{"endDate", "2025/08/16"},
		{"start", "9am"},
		{"end", "25:00 PM"},
		{"locked", "yes"},
		{"title", 42.0},
	}
	for _, tc := range cases {
		fields := validFields()
		fields[tc.field] = tc.value
		if _, vs := ParseItem(fields, ProfileCreate); !hasViolation(vs, KindInvalidFormat, tc.field) {
			t.Errorf("expected invalid_format for %s=%v, got %v", tc.field, tc.value, vs)
		}
	}
}

func TestParseItem_Enums(t *testing.T) {
	fields := validFields()
	fields["urgency"] = "very-urgent"
	if _, vs := ParseItem(fields, ProfileUpdate); !hasViolation(vs, KindInvalidEnum, "urgency") {
		t.Errorf("expected invalid_enum for urgency, got %v", vs)
	}

	fields = validFields()
	fields["type"] = "appointment"
	if _, vs := ParseItem(fields, ProfileOptimized); !hasViolation(vs, KindInvalidEnum, "type") {
		t.Errorf("expected invalid_enum for type, got %v", vs)
	}
}

func TestParseItem_GeneratedBounds(t *testing.T) {
	// 15-minute event: too short for the generator profile, fine for CRUD.
	fields := validFields()
	fields["start"] = "9:00 AM"
	fields["end"] = "9:15 AM"
	if _, vs := ParseItem(fields, ProfileCreate); len(vs) != 0 {
		t.Errorf("short event should pass direct CRUD, got %v", vs)
	}
	if _, vs := ParseItem(fields, ProfileGenerated); !hasViolation(vs, KindDuration, "end") {
		t.Errorf("expected duration_violation for generated short event, got %v", vs)
	}

	// Five-hour event: too long.
	fields["end"] = "2:00 PM"
	if _, vs := ParseItem(fields, ProfileGenerated); !hasViolation(vs, KindDuration, "end") {
		t.Errorf("expected duration_violation for generated long event, got %v", vs)
	}

	// Outside waking hours.
	fields = validFields()
	fields["start"] = "5:00 AM"
	fields["end"] = "6:00 AM"
	if _, vs := ParseItem(fields, ProfileGenerated); !hasViolation(vs, KindDuration, "start") {
		t.Errorf("expected waking-hours violation, got %v", vs)
	}

	// Short title and description.
	fields = validFields()
	fields["title"] = "Gym"
	fields["description"] = "short"
	_, vs := ParseItem(fields, ProfileGenerated)
	if !hasViolation(vs, KindInvalidFormat, "title") {
		t.Errorf("expected title length violation, got %v", vs)
	}
	if !hasViolation(vs, KindInvalidFormat, "description") {
		t.Errorf("expected description length violation, got %v", vs)
	}
}

func TestParseItem_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "<b></b>", "<script></script>"} {
		fields := validFields()
		fields["title"] = title
		if _, vs := ParseItem(fields, ProfileCreate); !hasViolation(vs, KindInvalidFormat, "title") {
			t.Errorf("title %q should be rejected as empty, got %v", title, vs)
		}
	}
}

func TestParseItem_TitleTooLong(t *testing.T) {
	fields := validFields()
	fields["title"] = "An Extremely Long Meeting Title"
	if _, vs := ParseItem(fields, ProfileCreate); !hasViolation(vs, KindInvalidFormat, "title") {
		t.Errorf("expected title length violation, got %v", vs)
	}
}

func TestParseItem_Sanitizes(t *testing.T) {
	fields := validFields()
	fields["title"] = "<b>Gym</b> Session"
	fields["description"] = "<script>alert(1)</script>weekly workout"

	it, _ := ParseItem(fields, ProfileCreate)
	if it.Title != "Gym Session" {
		t.Errorf("expected markup stripped from title, got %q", it.Title)
	}
	if it.Description != "weekly workout" {
		t.Errorf("expected script stripped from description, got %q", it.Description)
	}
}

func TestValidateBatch_CollectsAll(t *testing.T) {
	good := Item{ID: 1, Title: "Meeting", Type: TypeEvent, StartDate: "2025-08-16", EndDate: "2025-08-16",
		Start: "9:00 AM", End: "10:00 AM", Description: "x", Urgency: UrgencyTrivial}
	badUrgency := good
	badUrgency.ID = 2
	badUrgency.Urgency = "panic"
	badDate := good
	badDate.ID = 3
	badDate.StartDate = "not-a-date"

	err := ValidateBatch([]Item{good, badUrgency, badDate}, ProfileOptimized)
	if err == nil {
		t.Fatal("expected batch error")
	}
	var batch *BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected *BatchError, got %T", err)
	}
	if len(batch.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(batch.Violations), batch)
	}
	ids := map[int64]bool{}
	for _, v := range batch.Violations {
		ids[v.ItemID] = true
	}
	if !ids[2] || !ids[3] {
		t.Errorf("expected violations tagged with items 2 and 3, got %v", batch)
	}
}

func TestValidHelpers(t *testing.T) {
	if !ValidDate("2025-01-01") || ValidDate("01-01-2025") {
		t.Error("ValidDate misclassified input")
	}
	if !ValidClock("6:00 AM") || !ValidClock("12:30 PM") || ValidClock("18:00") {
		t.Error("ValidClock misclassified input")
	}
}
