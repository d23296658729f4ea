package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"blogdesk/app/credentials"
)

const (
	MsgMissingData      = "Please input all data"
	MsgPasswordMismatch = "Passwords must match"
)

// Error carries the human-readable reasons a form was rejected.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= credentials.MaxPasswordBytes
	})
	return v
}

// check validates form and splits the failures into two stages: presence and
// length problems are reported first, and cross-field rules only when every
// field is structurally sound.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var structural, crossField []string
	for _, fe := range verrs {
		msg := formatFieldError(fe)
		if fe.Tag() == "eqfield" {
			crossField = appendOnce(crossField, msg)
			continue
		}
		structural = appendOnce(structural, msg)
	}
	if len(structural) > 0 {
		return &Error{Messages: structural}
	}
	return &Error{Messages: crossField}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgMissingData
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", fe.Field(), credentials.MaxPasswordBytes)
	case "eqfield":
		return MsgPasswordMismatch
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func appendOnce(list []string, msg string) []string {
	for _, m := range list {
		if m == msg {
			return list
		}
	}
	return append(list, msg)
}
