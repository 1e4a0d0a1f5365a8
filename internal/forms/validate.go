package forms

import (
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field key to the message shown next to it. Validation is a
// pure function of the form's current values: the same form always yields the
// same error set.
type Errors map[string]string

func (e Errors) OK() bool { return len(e) == 0 }

var (
	// Permissive phone shape: digits, spaces, plus, hyphens, parentheses.
	phonePattern = regexp.MustCompile(`^\+?[\d\s()-]+$`)
	// latitude,longitude — two decimal numbers, optional leading minus each.
	coordinatePattern = regexp.MustCompile(`^-?\d+\.?\d*,-?\d+\.?\d*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "coordinate", func(fl validator.FieldLevel) bool {
		return coordinatePattern.MatchString(stripSpaces(fl.Field().String()))
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// fieldMessages maps struct field -> failed tag -> message. The empty tag key
// is the field's fallback message.
type fieldMessages map[string]map[string]string

// check runs the declarative rules and translates failures into the per-field
// messages the screens display.
func check(form any, keys map[string]string, messages fieldMessages) Errors {
	out := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form data"
		return out
	}
	for _, fe := range verrs {
		key := keys[fe.Field()]
		if key == "" {
			key = fe.Field()
		}
		if _, seen := out[key]; seen {
			continue
		}
		msgs := messages[fe.Field()]
		if msg, ok := msgs[fe.Tag()]; ok {
			out[key] = msg
		} else if msg, ok := msgs[""]; ok {
			out[key] = msg
		} else {
			out[key] = "Invalid value"
		}
	}
	return out
}

var spacesPattern = regexp.MustCompile(`\s`)

func stripSpaces(s string) string {
	return spacesPattern.ReplaceAllString(s, "")
}
