package transport

import "github.com/taskhive/backend/domain"

// TaskCreateRequest is the creation payload. Deadline is passed through as
// text; parsing and timezone normalization belong to the task engine.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

// TaskUpdateRequest is a partial update: absent fields stay nil and are
// never applied. JSON null and absent are equivalent here.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	State       *string `json:"state"`
	Priority    *string `json:"priority"`
	Deadline    *string `json:"deadline"`
}

// Patch converts the request into the engine's patch structure.
func (r TaskUpdateRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		State:       r.State,
		Priority:    r.Priority,
		Deadline:    r.Deadline,
	}
}

// SignInRequest carries the authorization code obtained after provider login.
type SignInRequest struct {
	Code      string `json:"code"`
	SessionID string `json:"session_id,omitempty"`
}
