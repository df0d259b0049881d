// Package form collects submitted form values into API request bodies and
// validates them before anything is sent.
package form

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MissingFieldsMessage is the alert shown when a required field is empty.
const MissingFieldsMessage = "Please fill in all required fields"

// DateLayout is the layout of every date field.
const DateLayout = "2006-01-02"

// Values holds the raw string value of each form field.
type Values map[string]string

// Get returns the value of field, or "".
func (v Values) Get(field string) string {
	return v[field]
}

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FromRequest reads the listed fields from submitted form data, trimming
// surrounding whitespace.
func FromRequest(form url.Values, fields []string) Values {
	v := make(Values, len(fields))
	for _, f := range fields {
		v[f] = strings.TrimSpace(form.Get(f))
	}
	return v
}

// Errors holds per-field validation messages in field order.
type Errors struct {
	order   []string
	fields  map[string]string
	missing bool
}

// NewErrors returns an empty error set.
func NewErrors() *Errors {
	return &Errors{fields: make(map[string]string)}
}

// Add records a message for field unless it already has one. Missing marks
// the error as an empty required field.
func (e *Errors) Add(field, message string, missing bool) {
	if _, ok := e.fields[field]; ok {
		return
	}
	e.order = append(e.order, field)
	e.fields[field] = message
	if missing {
		e.missing = true
	}
}

// Get returns the message for field, or "". It is safe on a nil *Errors so
// templates can call it on closed forms.
func (e *Errors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e.fields[field]
}

// Empty reports whether no field failed.
func (e *Errors) Empty() bool {
	return e == nil || len(e.fields) == 0
}

// Len returns the number of failed fields.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.fields)
}

// Message summarises the errors for an alert: the missing-fields notice if
// any required field is empty, otherwise the first field's message.
func (e *Errors) Message() string {
	if e.Empty() {
		return ""
	}
	if e.missing {
		return MissingFieldsMessage
	}
	return e.fields[e.order[0]]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates in against its struct tags and adds a message for every
// failing field that has no error yet.
func check(in any, labels map[string]string, errs *Errors) {
	err := validate.Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		label := labels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		errs.Add(fe.Field(), message(label, fe), fe.Tag() == "required")
	}
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "gt":
		return label + " must be greater than " + fe.Param()
	case "gte":
		return label + " must be at least " + fe.Param()
	case "oneof":
		return label + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return label + " is invalid"
	}
}

// number parses a decimal field. An empty value is reported as missing,
// anything that is not a finite number as invalid.
func number(v Values, field, label string, errs *Errors) float64 {
	raw := v.Get(field)
	if raw == "" {
		errs.Add(field, label+" is required", true)
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(field, label+" must be a number", false)
		return 0
	}
	return d.InexactFloat64()
}
