package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/http/middleware"
	"github.com/xavierca1/bizdev-chatbot/internal/usecase"
)

type ChatbotHandler struct {
	Conversation *usecase.ConversationUseCase
	Greeting     *usecase.GreetingUseCase
	Logger       *zap.Logger
}

func NewChatbotHandler(conversation *usecase.ConversationUseCase, greeting *usecase.GreetingUseCase, logger *zap.Logger) *ChatbotHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatbotHandler{Conversation: conversation, Greeting: greeting, Logger: logger}
}

// Routes mounts the conversation endpoints under /chatbot.
func (h *ChatbotHandler) Routes(r chi.Router) {
	r.Route("/chatbot", func(r chi.Router) {
		r.Get("/greeting", h.HandleGreeting)
		r.Post("/client", h.HandleClientType)
		r.Get("/{category}/steps", h.HandleSteps)
		r.Post("/{category}", h.HandleDetails)
		r.Post("/{category}/{step}", h.HandleStep)
	})
}

// optionCode accepts option codes sent either as JSON strings or numbers.
type optionCode string

func (c *optionCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = optionCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = optionCode(n.String())
	return nil
}

var errInvalidRowID = errors.New("row_id must be a number")

// rowID accepts the conversation id as a JSON number or a numeric string.
type rowID int64

func (id *rowID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return errInvalidRowID
		}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return errInvalidRowID
	}
	*id = rowID(n)
	return nil
}

type ClientTypeRequest struct {
	ClientType optionCode `json:"client_type"`
}

type StepRequest struct {
	RowID           rowID        `json:"row_id"`
	SelectedOption  optionCode   `json:"selected_option"`
	SelectedOptions []optionCode `json:"selected_options"`
	UserResponse    optionCode   `json:"user_response"`
	Text            string       `json:"text"`
	UserType        optionCode   `json:"user_type"`
	JoiningDate     optionCode   `json:"joining_date"`
	InterviewDate   string       `json:"interview_date"`
	LinkedInURL     string       `json:"linkedin_url"`

	SourceSpecification      string `json:"source_specification"`
	RequirementSpecification string `json:"requirement_specification"`
}

// answer converts the request into the step's input. Front ends name the
// answer field after the question, so every alias is accepted.
func (req StepRequest) answer(kind usecase.StepKind) usecase.AnswerInput {
	in := usecase.AnswerInput{
		RowID:         int64(req.RowID),
		Specification: firstNonEmpty(req.SourceSpecification, req.RequirementSpecification),
	}

	switch kind {
	case usecase.MultiChoice:
		for _, c := range req.SelectedOptions {
			in.Codes = append(in.Codes, string(c))
		}
		if len(in.Codes) == 0 && req.SelectedOption != "" {
			in.Codes = []string{string(req.SelectedOption)}
		}
	case usecase.SingleChoice:
		code := firstNonEmpty(string(req.SelectedOption), string(req.UserResponse), string(req.UserType), string(req.JoiningDate))
		if code == "" && len(req.SelectedOptions) > 0 {
			code = string(req.SelectedOptions[0])
		}
		if code != "" {
			in.Codes = []string{code}
		}
	case usecase.FreeText:
		in.Text = firstNonEmpty(string(req.UserResponse), req.Text, req.InterviewDate, req.LinkedInURL)
	}
	return in
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type greetingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type clientTypeResponse struct {
	Message  string          `json:"message"`
	Category entity.Category `json:"category,omitempty"`
	Code     int             `json:"code"`
}

type detailsResponse struct {
	RowID   int64  `json:"row_id"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type stepDescription struct {
	Name        string           `json:"name"`
	Kind        string           `json:"kind"`
	ResponseKey string           `json:"response_key"`
	Options     []usecase.Option `json:"options,omitempty"`
	OtherCodes  []string         `json:"other_codes,omitempty"`
	Terminal    bool             `json:"terminal"`
}

type stepsResponse struct {
	Category entity.Category   `json:"category"`
	Steps    []stepDescription `json:"steps"`
	Code     int               `json:"code"`
}

func (h *ChatbotHandler) HandleGreeting(w http.ResponseWriter, r *http.Request) {
	msg := h.Greeting.Greet(r.Context(), middleware.ClientIP(r))
	writeJSON(w, http.StatusOK, greetingResponse{Status: "success", Message: msg})
}

func (h *ChatbotHandler) HandleClientType(w http.ResponseWriter, r *http.Request) {
	var req ClientTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	out, err := h.Conversation.SelectClientType(string(req.ClientType))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, clientTypeResponse{Message: out.Message, Category: out.Category, Code: http.StatusOK})
}

func (h *ChatbotHandler) HandleSteps(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}
	flow, err := h.Conversation.Flow(category)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	resp := stepsResponse{Category: category, Code: http.StatusOK}
	for _, s := range flow.Steps {
		resp.Steps = append(resp.Steps, stepDescription{
			Name:        s.Name,
			Kind:        s.Kind.String(),
			ResponseKey: s.ResponseKey,
			Options:     s.Options,
			OtherCodes:  s.OtherCodes,
			Terminal:    s.Terminal,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatbotHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}

	var input usecase.DetailsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if strings.TrimSpace(input.IP) == "" {
		input.IP = middleware.ClientIP(r)
	}

	out, err := h.Conversation.CreateRecord(r.Context(), category, input)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	middleware.RecordConversationStarted(string(category))
	writeJSON(w, http.StatusOK, detailsResponse{RowID: out.RowID, Message: out.Message, Code: http.StatusOK})
}

func (h *ChatbotHandler) HandleStep(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}
	stepName := chi.URLParam(r, "step")

	flow, err := h.Conversation.Flow(category)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	step, ok := flow.Step(stepName)
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "Unknown conversation step.")
		return
	}

	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, errInvalidRowID) {
			writeErrorResponse(w, http.StatusBadRequest, "row_id must be a number.")
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	out, err := h.Conversation.AnswerStep(r.Context(), category, stepName, req.answer(step.Kind))
	if err != nil {
		var te *usecase.TechnicalError
		if errors.As(err, &te) && te.Code == usecase.CodeNotification {
			middleware.RecordNotification(string(category), "failed")
			middleware.RecordIntegrationError("smtp")
		}
		writeError(w, h.Logger, err)
		return
	}

	middleware.RecordStepAnswered(string(category), stepName)
	if out.Notified {
		middleware.RecordNotification(string(category), "sent")
	}
	writeJSON(w, http.StatusOK, stepBody(out))
}

// stepBody echoes the stored value under the step's response key. Terminal
// steps also carry status "success".
func stepBody(out *usecase.AnswerOutput) map[string]interface{} {
	body := map[string]interface{}{
		"row_id": out.RowID,
		"code":   http.StatusOK,
	}

	var value interface{} = out.Value()
	if out.Step.Kind == usecase.MultiChoice {
		value = out.Values
	}
	body[out.Step.ResponseKey] = value

	if out.Message != "" && out.Step.ResponseKey != "message" {
		body["message"] = out.Message
	}
	if out.Step.Terminal {
		body["status"] = "success"
	}
	return body
}

func (h *ChatbotHandler) category(w http.ResponseWriter, r *http.Request) (entity.Category, bool) {
	category, err := entity.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "Unknown visitor category.")
		return "", false
	}
	return category, true
}
