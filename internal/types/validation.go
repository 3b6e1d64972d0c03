package types

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation is matched by errors.Is for every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError collects field-level and form-level messages for a submitted form.
type ValidationError struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

func (v *ValidationError) AddField(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

func (v *ValidationError) AddForm(message string) {
	v.Form = append(v.Form, message)
}

// Merge copies every message of other into v. A nil other is ignored.
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, messages := range other.Fields {
		for _, message := range messages {
			v.AddField(field, message)
		}
	}
	v.Form = append(v.Form, other.Form...)
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0 || len(v.Form) > 0
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Form)+len(v.Fields))
	parts = append(parts, v.Form...)

	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(v.Fields[field], ", "))
	}

	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}
