package schedule

import "strings"

// Violation is a single recoverable validation failure. Field names the
// request field the failure is attributed to ("caregiver_id", "patient_id");
// an empty Field marks a general violation.
type Violation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError collects every violation found for one scheduling request.
// Checks are not short-circuited: a caller can surface all of them at once,
// and persistence happens only when the collection stayed empty.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
