// Package validate holds the statically declared field rulesets for the two
// writable entities. Rules are evaluated eagerly in declaration order and
// every violation message is collected, so a single bad request reports all
// of its problems at once.
package validate

import (
	"regexp"
	"strings"

	"github.com/avelasquez/courseapi/internal/models"
)

// Errors is an ordered list of human-readable validation messages.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// Field describes the constraints for one writable field. A nil Value means
// the field was absent from the request body.
type Field struct {
	Value    *string
	Required string                // message when the field is absent; empty means optional
	Empty    string                // message when the field is present but empty
	Checks   []func(string) string // extra checks run against a non-empty value, in order
}

// Collect evaluates every field and returns the violation messages in order,
// or nil when all rules pass.
func Collect(fields ...Field) Errors {
	var errs Errors
	for _, f := range fields {
		switch {
		case f.Value == nil:
			if f.Required != "" {
				errs = append(errs, f.Required)
			}
		case *f.Value == "":
			if f.Empty != "" {
				errs = append(errs, f.Empty)
			}
		default:
			for _, check := range f.Checks {
				if msg := check(*f.Value); msg != "" {
					errs = append(errs, msg)
				}
			}
		}
	}
	return errs
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email returns a check that rejects values not shaped like an email address.
func Email(msg string) func(string) string {
	return func(v string) string {
		if !emailPattern.MatchString(v) {
			return msg
		}
		return ""
	}
}

// MinLen returns a check that rejects values shorter than n characters.
func MinLen(n int, msg string) func(string) string {
	return func(v string) string {
		if len(v) < n {
			return msg
		}
		return ""
	}
}

// NewUser validates a registration payload.
func NewUser(p *models.UserPayload) Errors {
	return Collect(
		Field{
			Value:    p.FirstName,
			Required: "A firstname is required",
			Empty:    "Please provide a firstname",
		},
		Field{
			Value:    p.LastName,
			Required: "A lastname is required",
			Empty:    "Please provide a lastname",
		},
		Field{
			Value:    p.EmailAddress,
			Required: "An email is required",
			Empty:    "Please provide a valid email",
			Checks:   []func(string) string{Email("Please provide a valid email")},
		},
		Field{
			Value:    p.Password,
			Required: "A password is required. The password should be at least 8 characters in length",
			Empty:    "Please provide a password. The password should be at least 8 characters in length",
			Checks:   []func(string) string{MinLen(8, "The password should be at least 8 characters in length")},
		},
	)
}

// NewCourse validates a course creation payload.
func NewCourse(p *models.CoursePayload) Errors {
	return Collect(
		Field{
			Value:    p.Title,
			Required: `"Title" is required`,
			Empty:    "Please provide a title",
		},
		Field{
			Value:    p.Description,
			Required: `"Description" is required`,
			Empty:    "Please provide description",
		},
	)
}

// CourseUpdate validates a course update payload. Updates are partial:
// absent fields are left unchanged, so only present fields are checked.
func CourseUpdate(p *models.CoursePayload) Errors {
	return Collect(
		Field{Value: p.Title, Empty: "Please provide a title"},
		Field{Value: p.Description, Empty: "Please provide description"},
	)
}
