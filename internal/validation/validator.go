// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package validation holds the field rules for employee and device input
// and the uniqueness checks run against the record store.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names a validated input field. The value doubles as the json tag on
// the input structs.
type Field string

const (
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldEmail       Field = "email"
	FieldCode        Field = "code"
	FieldDescription Field = "description"
	FieldBrand       Field = "brand"
	FieldType        Field = "type"
)

// Reason says which rule a value broke.
type Reason string

const (
	ReasonRequired  Reason = "required"
	ReasonInvalid   Reason = "invalid"
	ReasonTooLong   Reason = "too_long"
	ReasonDuplicate Reason = "duplicate"
)

// Error is a rejected input value. Prompt loops print it and ask again.
type Error struct {
	Field  Field
	Reason Reason
	Value  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// MessageID returns the translation id for the error, for example
// "validation.email.duplicate". Both name fields share "validation.name.*".
func (e *Error) MessageID() string {
	group := string(e.Field)
	if e.Field == FieldFirstName || e.Field == FieldLastName {
		group = "name"
	}
	return "validation." + group + "." + string(e.Reason)
}

// AsError unwraps err into a validation *Error.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// EmployeeInput is the full set of employee fields checked on add.
type EmployeeInput struct {
	FirstName string `json:"first_name" validate:"required,max=128,person_name"`
	LastName  string `json:"last_name" validate:"required,max=128,person_name"`
	Email     string `json:"email" validate:"required,max=128,email_shape"`
	Code      string `json:"code" validate:"required,max=64"`
}

// DeviceInput is the full set of device fields checked on add.
type DeviceInput struct {
	Description string `json:"description" validate:"required,max=255"`
	Brand       string `json:"brand" validate:"required,brand"`
	Type        string `json:"type" validate:"required,device_type"`
	Code        string `json:"code" validate:"required,max=10"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	if err := registerRules(v); err != nil {
		panic("validation: failed to register rules: " + err.Error())
	}
	return v
}

// Employee checks every employee field. Values are trimmed first.
func Employee(in EmployeeInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	return fromValidator(validate.Struct(in), "")
}

// Device checks every device field. Values are trimmed first.
func Device(in DeviceInput) error {
	in.Description = strings.TrimSpace(in.Description)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Type = strings.TrimSpace(in.Type)
	in.Code = strings.TrimSpace(in.Code)
	return fromValidator(validate.Struct(in), "")
}

// Value checks a single field value with the rules of the given input
// struct field, so prompt loops can validate one answer at a time.
func Value(field Field, value string, forDevice bool) error {
	tags := employeeTags
	if forDevice {
		tags = deviceTags
	}
	tag, ok := tags[field]
	if !ok {
		return fmt.Errorf("validation: no rule for field %s", field)
	}
	return fromValidator(validate.Var(strings.TrimSpace(value), tag), field)
}

var (
	employeeTags = tagsOf(reflect.TypeOf(EmployeeInput{}))
	deviceTags   = tagsOf(reflect.TypeOf(DeviceInput{}))
)

func tagsOf(t reflect.Type) map[Field]string {
	out := make(map[Field]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		out[Field(f.Tag.Get("json"))] = f.Tag.Get("validate")
	}
	return out
}

// fromValidator converts the first validator failure into an *Error.
// field is used when the failure came from Var, which carries no name.
func fromValidator(err error, field Field) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	fe := ves[0]
	if field == "" {
		field = Field(fe.Field())
	}
	reason := ReasonInvalid
	switch fe.Tag() {
	case "required":
		reason = ReasonRequired
	case "max":
		reason = ReasonTooLong
	}
	return &Error{Field: field, Reason: reason, Value: fmt.Sprint(fe.Value())}
}

// Owner looks up which entity currently holds a unique value. found is false
// when nobody does.
type Owner func(ctx context.Context, value string) (id string, found bool, err error)

// Unique rejects value when another entity than selfID already holds it.
// Pass an empty selfID when validating a new entity.
func Unique(ctx context.Context, field Field, value, selfID string, owner Owner) error {
	id, found, err := owner(ctx, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if !found || (selfID != "" && id == selfID) {
		return nil
	}
	return &Error{Field: field, Reason: ReasonDuplicate, Value: value}
}
