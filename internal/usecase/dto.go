package usecase

import "github.com/xavierca1/bizdev-chatbot/internal/entity"

type DetailsInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Company string `json:"company"`
	IP      string `json:"ip"`
}

type DetailsOutput struct {
	RowID   int64  `json:"row_id"`
	Message string `json:"message"`
}

// AnswerInput carries one step answer. Codes holds the selected option
// codes for choice steps, Text the answer of free-text steps.
type AnswerInput struct {
	RowID         int64
	Codes         []string
	Text          string
	Specification string
}

type AnswerOutput struct {
	RowID    int64
	Step     Step
	Values   []string
	Message  string
	Notified bool
}

// Value is the persisted representation of the answer.
func (o *AnswerOutput) Value() string {
	return joinValues(o.Values)
}

type ClientTypeOutput struct {
	Message  string          `json:"message"`
	Category entity.Category `json:"category,omitempty"`
}
