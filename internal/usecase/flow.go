package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

type StepKind int

const (
	SingleChoice StepKind = iota
	MultiChoice
	FreeText
)

func (k StepKind) String() string {
	switch k {
	case SingleChoice:
		return "single_choice"
	case MultiChoice:
		return "multi_choice"
	case FreeText:
		return "free_text"
	}
	return "unknown"
}

// Option is one entry of a step's option table.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Step is one question of a scripted conversation.
type Step struct {
	Name        string
	Field       entity.Field
	Kind        StepKind
	Options     []Option
	OtherCodes  []string
	ResponseKey string
	// Reply is returned with every accepted answer unless Replies has a
	// more specific message for the resolved label.
	Reply   string
	Replies map[string]string
	// Validate, when set, must accept a free-text answer before it is stored.
	Validate func(string) bool
	// InvalidMessage replaces the default rejection of a bad answer.
	InvalidMessage string
	Terminal       bool
}

// Flow is the ordered step table of one category.
type Flow struct {
	Category entity.Category
	Steps    []Step
}

// Step looks a step up by its URL name.
func (f Flow) Step(name string) (Step, bool) {
	for _, s := range f.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// ReplyFor returns the message that accompanies the resolved value.
func (s Step) ReplyFor(value string) string {
	if msg, ok := s.Replies[value]; ok {
		return msg
	}
	return s.Reply
}

func (s Step) label(code string) (string, bool) {
	for _, o := range s.Options {
		if o.Code == code {
			return o.Label, true
		}
	}
	return "", false
}

func (s Step) invalid(fallback string) *DomainError {
	if s.InvalidMessage != "" {
		return validationError(s.Name, s.InvalidMessage)
	}
	return validationError(s.Name, fallback)
}

func (s Step) needsSpecification(code string) bool {
	for _, c := range s.OtherCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Resolve maps the visitor's answer to the labels that get persisted.
// The returned slice has one entry per selected code, or a single entry for
// single-choice and free-text steps.
func (s Step) Resolve(answer AnswerInput) ([]string, *DomainError) {
	switch s.Kind {
	case FreeText:
		text := strings.TrimSpace(answer.Text)
		if text == "" {
			return nil, validationError(s.Name, MsgEmptyResponse)
		}
		if s.Validate != nil && !s.Validate(text) {
			return nil, s.invalid(MsgInvalidOption)
		}
		return []string{text}, nil

	case SingleChoice:
		if len(answer.Codes) != 1 {
			return nil, s.invalid(MsgInvalidOption)
		}
		label, err := s.resolveCode(answer.Codes[0], answer.Specification)
		if err != nil {
			return nil, err
		}
		return []string{label}, nil

	case MultiChoice:
		if len(answer.Codes) == 0 {
			return nil, s.invalid(MsgInvalidOption)
		}
		labels := make([]string, 0, len(answer.Codes))
		seen := make(map[string]bool, len(answer.Codes))
		for _, code := range answer.Codes {
			code = strings.TrimSpace(code)
			if seen[code] {
				continue
			}
			seen[code] = true
			label, err := s.resolveCode(code, answer.Specification)
			if err != nil {
				return nil, err
			}
			labels = append(labels, label)
		}
		return labels, nil
	}
	return nil, validationError(s.Name, MsgInvalidOption)
}

func (s Step) resolveCode(code, specification string) (string, *DomainError) {
	code = strings.TrimSpace(code)
	label, ok := s.label(code)
	if !ok {
		return "", s.invalid(MsgInvalidOption)
	}
	if !s.needsSpecification(code) {
		return label, nil
	}
	specification = strings.TrimSpace(specification)
	if specification == "" {
		return "", validationError(s.Name, fmt.Sprintf("Please specify your option for %q.", label))
	}
	return label + " : " + specification, nil
}

var ratingOptions = []Option{
	{"1", "Requires Improvement"},
	{"2", "Acceptable"},
	{"3", "Above Average"},
	{"4", "Excellent"},
	{"5", "Outstanding"},
}

var verticalOptions = []Option{
	{"1", "ML/DS/AI"},
	{"2", "Sales force"},
	{"3", "Microsoft dynamics"},
	{"4", "Custom app"},
	{"5", "IT Infrastructure"},
	{"6", "Others"},
}

func rateStep() Step {
	return Step{
		Name:        "rate",
		Field:       entity.FieldRating,
		Kind:        SingleChoice,
		Options:     ratingOptions,
		ResponseKey: "message",
		Terminal:    true,

		InvalidMessage: MsgInvalidRating,
	}
}

func feedbackStep() Step {
	return Step{
		Name:        "feedback",
		Field:       entity.FieldFeedback,
		Kind:        FreeText,
		ResponseKey: "feedback",
		Reply:       "Thank you for your feedback!",
		Terminal:    true,
	}
}

func prospectFlow() Flow {
	return Flow{
		Category: entity.CategoryProspect,
		Steps: []Step{
			{
				Name:  "industries",
				Field: entity.FieldIndustry,
				Kind:  MultiChoice,
				Options: []Option{
					{"1", "Insurance"},
					{"2", "Banking"},
					{"3", "Finance"},
					{"4", "Logistics"},
					{"5", "Healthcare"},
					{"6", "Manufacturing"},
					{"7", "Technology"},
					{"8", "Ecommerce"},
					{"9", "Automobile"},
					{"10", "Others"},
				},
				OtherCodes:  []string{"10"},
				ResponseKey: "selected_industries",
			},
			{
				Name:  "verticals",
				Field: entity.FieldVertical,
				Kind:  MultiChoice,
				Options: []Option{
					{"1", "Data and AI"},
					{"2", "IT Infrastructure"},
					{"3", "Microsoft dynamics"},
					{"4", "Custom app"},
					{"5", "Sales force"},
					{"6", "Others"},
				},
				OtherCodes:  []string{"6"},
				ResponseKey: "selected_verticals",
			},
			{
				Name:  "requirement",
				Field: entity.FieldRequirements,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Start the project from scratch"},
					{"2", "Require support from existing project"},
					{"3", "Looking for some kind of solutions"},
					{"4", "Others"},
				},
				OtherCodes:  []string{"4"},
				ResponseKey: "selected_requirement",
			},
			{
				Name:  "known_source",
				Field: entity.FieldKnownSource,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Google"},
					{"2", "LinkedIn"},
					{"3", "Email Campaign"},
					{"4", "News Letter"},
					{"5", "Referral"},
					{"6", "Others"},
				},
				OtherCodes:  []string{"5", "6"},
				ResponseKey: "selected_known_source",
			},
			rateStep(),
			feedbackStep(),
		},
	}
}

func existingClientFlow() Flow {
	return Flow{
		Category: entity.CategoryExistingClient,
		Steps: []Step{
			{
				Name:        "verticals",
				Field:       entity.FieldVertical,
				Kind:        MultiChoice,
				Options:     verticalOptions,
				OtherCodes:  []string{"6"},
				ResponseKey: "selected_verticals",
			},
			{
				Name:  "issue_escalation",
				Field: entity.FieldIssueEscalation,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Team Lead"},
					{"2", "Sales Person"},
					{"3", "Escalate Issue"},
				},
				ResponseKey: "selected_issue_escalation",
			},
			{
				Name:  "issue_type",
				Field: entity.FieldIssueType,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Normal"},
					{"2", "Urgent"},
				},
				ResponseKey: "user_response",
				Replies: map[string]string{
					"Normal": "Thank you. We have saved your issue and will contact you as soon as possible.",
					"Urgent": "Thank you. We have saved your issue as urgent and will contact you immediately.",
				},
			},
			{
				Name:        "issue_description",
				Field:       entity.FieldIssueText,
				Kind:        FreeText,
				ResponseKey: "issue_text",
			},
			rateStep(),
			feedbackStep(),
		},
	}
}

func jobSeekerFlow() Flow {
	return Flow{
		Category: entity.CategoryJobSeeker,
		Steps: []Step{
			{
				Name:  "category",
				Field: entity.FieldCategory,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Fresher"},
					{"2", "Experienced"},
					{"3", "External consultant"},
				},
				ResponseKey: "user_type",
			},
			{
				Name:        "verticals",
				Field:       entity.FieldVertical,
				Kind:        MultiChoice,
				Options:     verticalOptions,
				OtherCodes:  []string{"6"},
				ResponseKey: "selected_verticals",
			},
			{
				Name:  "interview_mode",
				Field: entity.FieldInterviewMode,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Online"},
					{"2", "In person"},
					{"3", "Telephonic"},
				},
				ResponseKey: "selected_interview_mode",
			},
			{
				Name:        "availability",
				Field:       entity.FieldTimeAvailable,
				Kind:        FreeText,
				ResponseKey: "interview_date",
			},
			{
				Name:  "notice_period",
				Field: entity.FieldNoticePeriod,
				Kind:  SingleChoice,
				Options: []Option{
					{"1", "Below 30 days"},
					{"2", "30 days"},
					{"3", "60 days"},
					{"4", "90 days"},
				},
				ResponseKey: "joining_date",
			},
			{
				Name:           "linkedin",
				Field:          entity.FieldLinkedInURL,
				Kind:           FreeText,
				ResponseKey:    "linkedin_url",
				Validate:       IsValidLinkedInURL,
				InvalidMessage: MsgInvalidURL,
			},
			rateStep(),
			feedbackStep(),
		},
	}
}

// DefaultFlows returns the step tables of every category.
func DefaultFlows() map[entity.Category]Flow {
	return map[entity.Category]Flow{
		entity.CategoryProspect:       prospectFlow(),
		entity.CategoryExistingClient: existingClientFlow(),
		entity.CategoryJobSeeker:      jobSeekerFlow(),
	}
}
