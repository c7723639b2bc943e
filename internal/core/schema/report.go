package schema

import (
	"fmt"

	"go.uber.org/multierr"
)

type Severity int

const (
	SEVERITY_WARNING Severity = iota
	SEVERITY_ERROR
)

func (s Severity) String() string {
	switch s {
	case SEVERITY_WARNING:
		return "warning"
	case SEVERITY_ERROR:
		return "error"
	default:
		return "unknown"
	}
}

const (
	CODE_REQUIRED       = "required"
	CODE_EXTRA_KEY      = "extra_key"
	CODE_INVALID_TYPE   = "invalid_type"
	CODE_OUT_OF_RANGE   = "out_of_range"
	CODE_OFF_STEP       = "off_step"
	CODE_INVALID_OPTION = "invalid_option"
	CODE_INVALID_ID     = "invalid_id"
	CODE_DUPLICATE_ID   = "duplicate_id"
	CODE_INVALID_ICON   = "invalid_icon"
	CODE_INVALID_PERIOD = "invalid_period"
	CODE_INVALID_FILTER = "invalid_filter"
	CODE_NAME_REQUIRED  = "name_required"
	CODE_PIN_UNKNOWN    = "pin_unknown"
	CODE_PIN_FLASH      = "pin_flash"
	CODE_PIN_CAPABILITY = "pin_capability"
	CODE_PIN_STRAPPING  = "pin_strapping"
)

type Diagnostic struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) Error() string {
	if d.Path == "" {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", d.Path, d.Code, d.Message)
}

// Report collects every diagnostic raised during one validation run.
type Report struct {
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

func (r *Report) AddError(path Path, code, format string, args ...any) {
	r.Errors = append(r.Errors, Diagnostic{
		Severity: SEVERITY_ERROR,
		Path:     path.String(),
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) AddWarning(path Path, code, format string, args ...any) {
	r.Warnings = append(r.Warnings, Diagnostic{
		Severity: SEVERITY_WARNING,
		Path:     path.String(),
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Err returns nil when the report holds no errors, otherwise a
// *ValidationError carrying every error diagnostic.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	diags := make([]Diagnostic, len(r.Errors))
	copy(diags, r.Errors)
	return &ValidationError{Diagnostics: diags}
}

type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Errors() []error {
	errs := make([]error, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		errs = append(errs, d)
	}
	return errs
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors()
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration invalid: %v", multierr.Combine(e.Errors()...))
}
