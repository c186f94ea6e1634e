package request

type AddTaskRequest struct {
	Title string `json:"title" validate:"max=255"`
}

type EditTaskRequest struct {
	Title string `json:"title" validate:"max=255"`
}

// ConfirmRequest carries the user's answer to the blocking yes/no prompt
// shown before a destructive action.
type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}
