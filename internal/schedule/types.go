package schedule

import "github.com/microcosm-cc/bluemonday"

// Item types.
const (
	TypeEvent    = "event"
	TypeReminder = "reminder"
)

// Urgency levels, from least to most pressing.
const (
	UrgencyTrivial   = "trivial"
	UrgencyOngoing   = "ongoing"
	UrgencyAttention = "attention-needed"
	UrgencyImportant = "important"
	UrgencyCritical  = "critical"
)

// Urgencies lists every valid urgency value.
var Urgencies = []string{
	UrgencyTrivial,
	UrgencyOngoing,
	UrgencyAttention,
	UrgencyImportant,
	UrgencyCritical,
}

// Field categories the user may grant the optimizer permission to change.
const (
	PermTimes       = "times"
	PermDates       = "dates"
	PermLocked      = "locked"
	PermName        = "name"
	PermDescription = "description"
	PermUrgency     = "urgency"
)

// Permissions lists every grantable modification category.
var Permissions = []string{
	PermTimes,
	PermDates,
	PermLocked,
	PermName,
	PermDescription,
	PermUrgency,
}

// Wire formats for dates and times of day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "3:04 PM"
)

// Item is one event or reminder. The JSON field names are the wire shape
// shared by the HTTP API, the stored event_info blob, and the prompts sent
// to the text-generation collaborator.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Locked      bool   `json:"locked"`
	Urgency     string `json:"urgency"`
}

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips markup from the free-text fields. Called at every boundary
// that accepts untrusted input (HTTP payloads, console input, AI output).
func (it *Item) Sanitize() {
	it.Title = sanitizer.Sanitize(it.Title)
	it.Description = sanitizer.Sanitize(it.Description)
}
