// Package contact relays the site's contact form to a transactional mail API
// and provides the client-side form state used to submit it.
package contact

import (
	"errors"
	"strings"
)

// Error messages returned to the form. The site is Hebrew-only.
const (
	MsgMissingFields = "שם, טלפון ומייל הם שדות חובה"
	MsgBadRequest    = "בקשה לא תקינה"
	MsgMethod        = "שיטת בקשה לא נתמכת"
	MsgSendFailed    = "שגיאה בשליחת המייל"
	MsgServer        = "שגיאה בשרת"
	MsgSubmitFailed  = "שגיאה בשליחת הטופס"
	MsgSubmitRetry   = "שגיאה בשליחת הטופס, נסה שוב"
)

// Subjects lists the choices offered by the form's subject selector.
var Subjects = []string{
	"עסקת מקרקעין",
	"שכירות",
	"התחדשות עירונית",
	"צוואות וירושות",
	"הסכם ממון",
	"ייפוי כוח מתמשך",
	"אחר",
}

var (
	// ErrMissingField is returned when name, phone or email is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrUpstream is wrapped by every failure reported by the mail API.
	ErrUpstream = errors.New("mail api rejected message")
	// ErrNotConfigured is returned when the mailer has no API key.
	ErrNotConfigured = errors.New("mailer not configured")
)

// Submission is one contact form payload.
type Submission struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Phone:   strings.TrimSpace(s.Phone),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate reports ErrMissingField if a required field is blank.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Phone) == "" || strings.TrimSpace(s.Email) == "" {
		return ErrMissingField
	}
	return nil
}

// SubjectLine builds the email subject from the configured prefix.
func SubjectLine(prefix, subject string) string {
	if subject == "" {
		return prefix
	}
	return prefix + " - " + subject
}
