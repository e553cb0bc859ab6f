package transport

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type NameUpdateRequest struct {
	Name string `json:"name"`
}

type EmailUpdateRequest struct {
	Email string `json:"email"`
}

type PasswordUpdateRequest struct {
	NewPassword string `json:"new_password"`
}

type SubItemRequest struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type TaskCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    string           `json:"priority"`
	SubItems    []SubItemRequest `json:"sub_items"`
}

type TaskUpdateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    string           `json:"priority"`
	Completed   bool             `json:"completed"`
	SubItems    []SubItemRequest `json:"sub_items"`
}

// TaskListMeta rides in the list envelope's meta field; overall progress is
// recomputed over the filtered view the client is looking at.
type TaskListMeta struct {
	Priority        string  `json:"priority"`
	OverallProgress float64 `json:"overall_progress"`
}

// ToggleResponse reports the toggle outcome. AllComplete hints the client to
// offer a completion confirmation; the task itself stays incomplete.
type ToggleResponse struct {
	TaskID      string  `json:"task_id"`
	Progress    float64 `json:"progress"`
	AllComplete bool    `json:"all_complete"`
}
