package schedule

// Grants is the set of field categories the user allows the optimizer to
// change. Anything outside the set is advisory only: the proposed value is
// discarded and the original kept.
type Grants map[string]bool

// NewGrants builds a Grants set from the caller's allowed_modifications
// list. Unknown names are ignored.
func NewGrants(allowed []string) Grants {
	g := make(Grants, len(allowed))
	for _, a := range allowed {
		if contains(Permissions, a) {
			g[a] = true
		}
	}
	return g
}

// Has reports whether the category is granted.
func (g Grants) Has(perm string) bool {
	return g[perm]
}

// Apply merges a proposed revision into the original item under the granted
// permissions. Ungranted categories are forced back to the original's
// values. A locked original is pinned verbatim unless the "locked" category
// itself was granted. The id and type are never modifiable.
//
// The returned slice names the fields the proposal tried to change without a
// grant; callers log these as permission violations, they are not failures.
func Apply(original, proposed Item, grants Grants) (Item, []string) {
	if original.Locked && !grants.Has(PermLocked) {
		return original, diffFields(original, proposed)
	}

	out := original
	var denied []string

	if grants.Has(PermTimes) {
		out.Start = proposed.Start
		out.End = proposed.End
	} else if proposed.Start != original.Start || proposed.End != original.End {
		denied = append(denied, "start", "end")
	}

	if grants.Has(PermDates) {
		out.StartDate = proposed.StartDate
		out.EndDate = proposed.EndDate
	} else if proposed.StartDate != original.StartDate || proposed.EndDate != original.EndDate {
		denied = append(denied, "startDate", "endDate")
	}

	if grants.Has(PermLocked) {
		out.Locked = proposed.Locked
	} else if proposed.Locked != original.Locked {
		denied = append(denied, "locked")
	}

	if grants.Has(PermName) {
		out.Title = proposed.Title
	} else if proposed.Title != original.Title {
		denied = append(denied, "title")
	}

	if grants.Has(PermDescription) {
		out.Description = proposed.Description
	} else if proposed.Description != original.Description {
		denied = append(denied, "description")
	}

	if grants.Has(PermUrgency) {
		out.Urgency = proposed.Urgency
	} else if proposed.Urgency != original.Urgency {
		denied = append(denied, "urgency")
	}

	return out, denied
}

// diffFields names every field where proposed differs from original.
func diffFields(original, proposed Item) []string {
	var diff []string
	if proposed.Title != original.Title {
		diff = append(diff, "title")
	}
	if proposed.Description != original.Description {
		diff = append(diff, "description")
	}
	if proposed.StartDate != original.StartDate {
		diff = append(diff, "startDate")
	}
	if proposed.EndDate != original.EndDate {
		diff = append(diff, "endDate")
	}
	if proposed.Start != original.Start {
		diff = append(diff, "start")
	}
	if proposed.End != original.End {
		diff = append(diff, "end")
	}
	if proposed.Locked != original.Locked {
		diff = append(diff, "locked")
	}
	if proposed.Urgency != original.Urgency {
		diff = append(diff, "urgency")
	}
	return diff
}
