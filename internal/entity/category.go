package entity

import "errors"

// Category identifies one of the three visitor flows.
type Category string

const (
	CategoryProspect       Category = "prospect"
	CategoryExistingClient Category = "existing_client"
	CategoryJobSeeker      Category = "job_seeker"
)

var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every category in the order they are provisioned.
func Categories() []Category {
	return []Category{CategoryProspect, CategoryExistingClient, CategoryJobSeeker}
}

// ParseCategory maps a URL slug to a Category.
func ParseCategory(slug string) (Category, error) {
	switch Category(slug) {
	case CategoryProspect, CategoryExistingClient, CategoryJobSeeker:
		return Category(slug), nil
	}
	return "", ErrUnknownCategory
}

// Table is the relational table that stores the category's records.
func (c Category) Table() string {
	switch c {
	case CategoryProspect:
		return "prospects"
	case CategoryExistingClient:
		return "existing_clients"
	case CategoryJobSeeker:
		return "job_seekers"
	}
	return ""
}

// Label is the human-readable name used in notifications and logs.
func (c Category) Label() string {
	switch c {
	case CategoryProspect:
		return "Prospect"
	case CategoryExistingClient:
		return "Existing client"
	case CategoryJobSeeker:
		return "Job seeker"
	}
	return string(c)
}

// Fields returns the answer columns of the category, in conversation order.
func (c Category) Fields() []Field {
	switch c {
	case CategoryProspect:
		return []Field{FieldIndustry, FieldVertical, FieldRequirements, FieldKnownSource, FieldRating, FieldFeedback}
	case CategoryExistingClient:
		return []Field{FieldVertical, FieldIssueEscalation, FieldIssueType, FieldIssueText, FieldRating, FieldFeedback}
	case CategoryJobSeeker:
		return []Field{FieldCategory, FieldVertical, FieldInterviewMode, FieldTimeAvailable, FieldNoticePeriod, FieldLinkedInURL, FieldRating, FieldFeedback}
	}
	return nil
}

// HasField reports whether f is an answer column of the category.
func (c Category) HasField(f Field) bool {
	for _, candidate := range c.Fields() {
		if candidate == f {
			return true
		}
	}
	return false
}
