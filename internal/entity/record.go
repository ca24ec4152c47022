package entity

import (
	"errors"
	"time"
)

// Field is the column name of an answer collected during a conversation.
type Field string

const (
	FieldIndustry        Field = "industry"
	FieldVertical        Field = "vertical"
	FieldRequirements    Field = "requirements"
	FieldKnownSource     Field = "known_source"
	FieldIssueEscalation Field = "issue_escalation"
	FieldIssueType       Field = "issue_type"
	FieldIssueText       Field = "issue_text"
	FieldCategory        Field = "category"
	FieldInterviewMode   Field = "interview_mode"
	FieldTimeAvailable   Field = "time_available"
	FieldNoticePeriod    Field = "notice_period"
	FieldLinkedInURL     Field = "linkedin_url"
	FieldRating          Field = "rating"
	FieldFeedback        Field = "feedback"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownField   = errors.New("unknown field")
)

// Record is one visitor conversation. The contact columns are shared by all
// categories; the rest live in Answers keyed by the category's fields.
type Record struct {
	ID         int64            `json:"row_id"`
	Category   Category         `json:"category"`
	CreatedAt  time.Time        `json:"created_at"`
	IP         string           `json:"ip_address"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Contact    string           `json:"contact"`
	Company    string           `json:"company,omitempty"`
	Answers    map[Field]string `json:"answers"`
	NotifiedAt *time.Time       `json:"notified_at,omitempty"`
}

// NewRecord stamps a fresh record with the current UTC time.
func NewRecord(category Category, ip, name, email, contact, company string) *Record {
	return &Record{
		Category:  category,
		CreatedAt: time.Now().UTC(),
		IP:        ip,
		Name:      name,
		Email:     email,
		Contact:   contact,
		Company:   company,
		Answers:   make(map[Field]string),
	}
}

// Answer returns the stored value of f, or "" when the step was skipped.
func (r *Record) Answer(f Field) string {
	if r.Answers == nil {
		return ""
	}
	return r.Answers[f]
}

// Date is the UTC creation date, YYYY-MM-DD.
func (r *Record) Date() string {
	return r.CreatedAt.UTC().Format("2006-01-02")
}

// Time is the UTC creation time, HH:MM:SS.
func (r *Record) Time() string {
	return r.CreatedAt.UTC().Format("15:04:05")
}

func (r *Record) Notified() bool {
	return r.NotifiedAt != nil
}
