package dto

import dom "todoapi/internal/domain"

type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest fields are optional; nil leaves the value unchanged.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type TodoResponse struct {
	ID          string `json:"_id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt,omitempty"`
	OwnerID     string `json:"ownerId"`
}

// TodoEnvelope wraps a single todo as {"todo": ...}.
type TodoEnvelope struct {
	Todo TodoResponse `json:"todo"`
}

type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func TodoToResponse(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		OwnerID:     t.OwnerID,
	}
}

func TodosToResponses(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = TodoToResponse(list[i])
	}
	return out
}
