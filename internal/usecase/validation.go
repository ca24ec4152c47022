package usecase

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	MsgInvalidName    = "Please enter a valid name."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgInvalidContact = "Please enter a valid contact number."
	MsgInvalidOption  = "Please choose a valid option."
	MsgInvalidRating  = "Invalid option. Please choose from 1 to 5."
	MsgEmptyResponse  = "Please enter a response."
	MsgInvalidURL     = "Please enter a valid LinkedIn profile URL."
	MsgMissingRowID   = "row_id is required."
)

var (
	nameRegex    = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^\+?\d{1,3}[-.\s]?\(?\d{1,3}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}$`)
	nonDigitExpr = regexp.MustCompile(`\D`)
)

// IsValidName accepts letters and whitespace, non-empty after trimming.
func IsValidName(name string) bool {
	return nameRegex.MatchString(strings.TrimSpace(name))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone accepts international-looking numbers with 7 to 20 digits.
func IsValidPhone(phone string) bool {
	if !phoneRegex.MatchString(phone) {
		return false
	}
	digits := len(nonDigitExpr.ReplaceAllString(phone, ""))
	return digits >= 7 && digits <= 20
}

// IsValidLinkedInURL accepts absolute http(s) URLs on linkedin.com.
func IsValidLinkedInURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

// ValidateDetails checks the contact triple in the order the visitor sees
// the questions and returns the first failure.
func ValidateDetails(input DetailsInput) *DomainError {
	if !IsValidName(input.Name) {
		return validationError("name", MsgInvalidName)
	}
	if !IsValidEmail(input.Email) {
		return validationError("email", MsgInvalidEmail)
	}
	if !IsValidPhone(input.Contact) {
		return validationError("contact", MsgInvalidContact)
	}
	return nil
}
