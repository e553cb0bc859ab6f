package domain

import "time"

// Priority is the task priority level. The literal values match the field
// content of the hosted Tasks collection and must not be translated.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Média"
	PriorityLow    Priority = "Baixa"

	// PrioritySelectorAll is the filter sentinel meaning "no priority filter".
	PrioritySelectorAll = "Todas"
)

// ParsePriority coerces an arbitrary stored value to a valid priority.
// Pre-existing documents written without a priority default to medium.
func ParsePriority(value string) Priority {
	switch Priority(value) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(value)
	default:
		return PriorityMedium
	}
}

// IsValid reports whether p is one of the three known levels.
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// SubItem is a single checklist entry inside a task.
type SubItem struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Task is a user-owned unit of work with an optional checklist.
//
// Completed is a manual flag set through the explicit complete operation and
// is deliberately not derived from Progress: a task whose checklist is fully
// done stays incomplete until the user confirms.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	SubItems    []SubItem `json:"sub_items,omitempty"`
	Progress    float64   `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// Recalculate refreshes the cached progress field from the checklist.
func (t *Task) Recalculate() {
	if t == nil {
		return
	}
	t.Progress = ComputeProgress(t.SubItems)
}
