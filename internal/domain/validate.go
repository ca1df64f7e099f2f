package domain

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// MsgFillAllFields is reported when any required form field is empty.
const MsgFillAllFields = "Fill in all fields"

var validate = validator.New(validator.WithRequiredStructEnabled())

// CheckForm runs the `validate` struct tags of form and turns the first
// failure into a ValidationError. A missing field always wins over format
// rules; other failures report the field's `msg` tag.
func CheckForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating form: %w", err)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return Invalid(MsgFillAllFields)
		}
	}

	fe := fieldErrs[0]
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if msg := f.Tag.Get("msg"); msg != "" {
			return Invalid(msg)
		}
	}
	return Invalidf("%s is not valid", fe.Field())
}

// Upload is a file sent in a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
