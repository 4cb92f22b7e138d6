// Package validate checks request shapes and reports every failing field as a
// tagged issue instead of stopping at the first one.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"bookstore/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern    = regexp.MustCompile(`^[+\d][\d\s-]*$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Issue describes one failing field
type Issue struct {
	Path    string `json:"path"`    // Dotted field path using JSON names, e.g. "ids[1]"
	Message string `json:"message"` // Human readable reason
	Code    string `json:"code"`    // Rule that failed, e.g. "min"
}

// Result collects the issues found while checking one input
type Result struct {
	Issues []Issue
}

// OK reports whether no issue was found
func (r Result) OK() bool {
	return len(r.Issues) == 0
}

// Add records an issue
func (r *Result) Add(path, code, message string) {
	r.Issues = append(r.Issues, Issue{Path: path, Message: message, Code: code})
}

// Err returns nil when the result is OK and an *Error scoped to where the input came
// from ("body", "query", "params") otherwise
func (r Result) Err(scope string) error {
	if r.OK() {
		return nil
	}
	return &Error{Scope: scope, Issues: r.Issues}
}

// Error is a failed validation. It matches domain.ErrValidation.
type Error struct {
	Scope  string
	Issues []Issue
}

func (e *Error) Error() string {
	return "Invalid " + e.Scope
}

func (e *Error) Unwrap() error {
	return domain.ErrValidation
}

// Validator wraps a configured go-playground validator
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the project's custom rules registered:
// phone, username and objectid.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return domain.IsValidID(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct checks s against its `validate` tags
func (v *Validator) Struct(s any) Result {
	var res Result
	err := v.v.Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("", "invalid", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.Add(fieldPath(fe.Namespace()), fe.Tag(), message(fe))
	}
	return res
}

// Var checks a single value against a tag expression, reporting it under path
func (v *Validator) Var(path string, value any, tag string) Result {
	var res Result
	err := v.v.Var(value, tag)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add(path, "invalid", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.Add(path, fe.Tag(), message(fe))
	}
	return res
}

// fieldPath drops the top level struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "phone":
		return "Invalid phone format"
	case "username":
		return "Only alphanumeric and underscore"
	case "objectid":
		return "Invalid id format"
	case "min", "gte":
		return bound("at least", fe)
	case "max", "lte":
		return bound("at most", fe)
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

func bound(rel string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", rel, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", rel, fe.Param())
	default:
		return fmt.Sprintf("must be %s %s", rel, fe.Param())
	}
}
