package serrors

import "fmt"

// BaseError is a structured error carrying a stable machine-readable code and
// an optional locale key for user-facing rendering.
type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	e.TemplateData = data
	return e
}

// Is matches errors by code so that wrapped copies of the same BaseError
// compare equal under errors.Is.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// NewFieldRequiredError reports a missing required field on an inbound payload.
func NewFieldRequiredError(field, localeKey string) *BaseError {
	return NewError(
		"FIELD_REQUIRED",
		fmt.Sprintf("field %q is required", field),
		localeKey,
	).WithTemplateData(map[string]string{"field": field})
}
