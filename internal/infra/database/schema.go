package database

import (
	"fmt"
	"strings"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

// contactColumns are shared by every category table, in select order.
var contactColumns = []string{"id", "created_at", "ip", "name", "email", "contact_number", "company_name"}

func createTableSQL(category entity.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", category.Table())
	b.WriteString("\tid BIGSERIAL PRIMARY KEY,\n")
	b.WriteString("\tcreated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),\n")
	b.WriteString("\tip VARCHAR(45),\n")
	b.WriteString("\tname VARCHAR(255) NOT NULL,\n")
	b.WriteString("\temail VARCHAR(255) NOT NULL,\n")
	b.WriteString("\tcontact_number VARCHAR(32) NOT NULL,\n")
	b.WriteString("\tcompany_name VARCHAR(500),\n")
	for _, f := range category.Fields() {
		fmt.Fprintf(&b, "\t%s TEXT,\n", f)
	}
	b.WriteString("\tnotified_at TIMESTAMPTZ,\n")
	b.WriteString("\tfeedback_notified_at TIMESTAMPTZ\n")
	b.WriteString(")")
	return b.String()
}

func selectColumns(category entity.Category) string {
	cols := append([]string{}, contactColumns...)
	for _, f := range category.Fields() {
		cols = append(cols, string(f))
	}
	cols = append(cols, "notified_at")
	return strings.Join(cols, ", ")
}

// addFeedbackClaimSQL upgrades tables provisioned before the feedback step
// had its own notification claim.
func addFeedbackClaimSQL(category entity.Category) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS feedback_notified_at TIMESTAMPTZ", category.Table())
}

// claimColumn is the timestamp that fences the summary email sent by a
// terminal step. rating and feedback each send one summary.
func claimColumn(field entity.Field) string {
	if field == entity.FieldFeedback {
		return "feedback_notified_at"
	}
	return "notified_at"
}

// column guards every identifier that gets interpolated into SQL.
func column(category entity.Category, field entity.Field) (string, error) {
	if category.Table() == "" {
		return "", entity.ErrUnknownCategory
	}
	if !category.HasField(field) {
		return "", fmt.Errorf("%w: %s.%s", entity.ErrUnknownField, category.Table(), field)
	}
	return string(field), nil
}
