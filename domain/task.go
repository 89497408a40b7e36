package domain

import "time"

// TaskState enumerates the workflow states a task moves through.
type TaskState string

const (
	StateToDo       TaskState = "to_do"
	StateInProgress TaskState = "in_progress"
	StateDone       TaskState = "done"
)

// ParseTaskState rejects anything outside the closed enumeration.
func ParseTaskState(raw string) (TaskState, error) {
	switch TaskState(raw) {
	case StateToDo, StateInProgress, StateDone:
		return TaskState(raw), nil
	default:
		return "", ErrInvalidState
	}
}

// TaskPriority enumerates task priority levels.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority accepts one of the three levels; the empty string
// defaults to low.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	switch TaskPriority(raw) {
	case "":
		return PriorityLow, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(raw), nil
	default:
		return "", ErrInvalidPriority
	}
}

// Task represents a user-owned activity item.
type Task struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	State       TaskState    `json:"state"`
	Priority    TaskPriority `json:"priority"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *Task) IsDone() bool {
	return t != nil && t.State == StateDone
}

// TaskPatch carries a partial update. Nil fields are left untouched;
// State and Priority arrive as raw text and are validated by the engine.
type TaskPatch struct {
	Title       *string
	Description *string
	State       *string
	Priority    *string
	Deadline    *string
}

// Empty reports whether the patch changes nothing beyond updated_at.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.State == nil &&
		p.Priority == nil && p.Deadline == nil
}
