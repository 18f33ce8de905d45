package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMultipleActive   ConflictType = "multiple_active"
	ConflictEndBeforeStart   ConflictType = "end_before_start"
	ConflictEmptyProject     ConflictType = "empty_project"
	ConflictOverlapping      ConflictType = "overlapping_entries"
	ConflictFutureStart      ConflictType = "future_start"
	ConflictNegativeRate     ConflictType = "negative_rate"
	ConflictDuplicateProject ConflictType = "duplicate_project"
)

// Conflict represents a detected problem in stored entries or projects
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Project names involved
	EntryIDs    []int64  // IDs of entries involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored data for states the application never writes
// itself but that concurrent processes or hand edits can produce.
type Validator struct {
	now func() time.Time
}

func New() *Validator {
	return &Validator{now: time.Now}
}

// NewWithClock judges "future" against now instead of the wall clock.
func NewWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// ValidateEntries checks entries for integrity problems.
func (v *Validator) ValidateEntries(entries []models.Entry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	now := v.now()

	var active []int64
	for _, e := range entries {
		if e.IsActive() {
			active = append(active, e.ID)
		}

		if strings.TrimSpace(e.Project) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyProject,
				Description: fmt.Sprintf("Entry #%d has no project", e.ID),
				EntryIDs:    []int64{e.ID},
			})
		}

		if e.End != nil && e.End.Before(e.Start) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictEndBeforeStart,
				Description: fmt.Sprintf("Entry #%d ends (%s) before it starts (%s)",
					e.ID, e.End.Format(constants.EntryTimeFormat), e.Start.Format(constants.EntryTimeFormat)),
				Items:    []string{e.Project},
				EntryIDs: []int64{e.ID},
			})
		}

		if e.Start.After(now) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureStart,
				Description: fmt.Sprintf("Entry #%d starts in the future (%s)", e.ID, e.Start.Format(constants.EntryTimeFormat)),
				Items:       []string{e.Project},
				EntryIDs:    []int64{e.ID},
			})
		}
	}

	if len(active) > 1 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictMultipleActive,
			Description: fmt.Sprintf("%d timers are running at once (IDs: %v)", len(active), active),
			EntryIDs:    active,
		})
	}

	result.Conflicts = append(result.Conflicts, overlaps(entries, now)...)
	return result
}

// overlaps reports completed or running entries whose spans intersect.
// O(n log n) sort then a sweep against the furthest end seen so far.
func overlaps(entries []models.Entry, now time.Time) []Conflict {
	spans := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.End != nil && e.End.Before(e.Start) {
			continue
		}
		spans = append(spans, e)
	}
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start.Before(spans[j].Start)
	})

	end := func(e models.Entry) time.Time {
		if e.End == nil {
			return now
		}
		return *e.End
	}

	var conflicts []Conflict
	if len(spans) == 0 {
		return conflicts
	}
	reach := spans[0]
	for _, cur := range spans[1:] {
		if cur.Start.Before(end(reach)) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictOverlapping,
				Description: fmt.Sprintf("Entries #%d (%s) and #%d (%s) overlap", reach.ID, reach.Project, cur.ID, cur.Project),
				Items:       []string{reach.Project, cur.Project},
				EntryIDs:    []int64{reach.ID, cur.ID},
			})
		}
		if end(cur).After(end(reach)) {
			reach = cur
		}
	}
	return conflicts
}

// ValidateProjects checks the rate table.
func (v *Validator) ValidateProjects(projects []models.Project) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := map[string]int64{}
	for _, p := range projects {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if id, ok := seen[key]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateProject,
				Description: fmt.Sprintf("Projects #%d and #%d differ only by case or spacing: %q", id, p.ID, p.Name),
				Items:       []string{p.Name},
			})
		} else {
			seen[key] = p.ID
		}

		if p.Rate != nil && p.Rate.IsNegative() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeRate,
				Description: fmt.Sprintf("Project %q has a negative rate (%s)", p.Name, p.FormattedRate()),
				Items:       []string{p.Name},
			})
		}
	}
	return result
}

// AutoFixMultipleActive stops every running entry except the newest, ending
// each at the next one's start. stop receives the entry ID and end time.
func AutoFixMultipleActive(conflicts []Conflict, entries []models.Entry, stop func(id int64, at time.Time) error) []FixAction {
	byID := make(map[int64]models.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	var actions []FixAction
	for _, c := range conflicts {
		if c.Type != ConflictMultipleActive {
			continue
		}

		var running []models.Entry
		for _, id := range c.EntryIDs {
			if e, ok := byID[id]; ok {
				running = append(running, e)
			}
		}
		sort.Slice(running, func(i, j int) bool {
			return running[i].Start.Before(running[j].Start)
		})

		for i := 0; i < len(running)-1; i++ {
			at := running[i+1].Start
			if err := stop(running[i].ID, at); err != nil {
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Failed to stop entry #%d: %v", running[i].ID, err),
					SourceConflict: c,
				})
				continue
			}
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Stopped entry #%d (%s) at %s", running[i].ID, running[i].Project, at.Format(constants.EntryTimeFormat)),
				SourceConflict: c,
			})
		}
	}
	return actions
}
