package appointment

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	msgMissingFields = "Please fill in all fields."
	msgMobileDigits  = "Mobile number must be 10 digits."
	msgInvalidGender = "Gender must be Male or Female."
	msgInvalidDate   = "Date must be in YYYY-MM-DD format."
	msgInvalidAge    = "Age must be a positive number."
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed. Nothing was changed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	seen := make(map[string]bool)
	for _, f := range e.Fields {
		if seen[f.Message] {
			continue
		}
		seen[f.Message] = true
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

// BookingForm holds the patient fields collected before a slot is chosen.
type BookingForm struct {
	PatientName string `json:"patientName" validate:"required"`
	Gender      Gender `json:"gender" validate:"required,oneof=Male Female"`
	Age         int    `json:"age" validate:"required,gt=0"`
	Mobile      string `json:"mobile" validate:"required,len=10,digits"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsOnly.MatchString(fl.Field().String())
	})
	return v
}

// ValidateForm checks the booking fields. It returns a *ValidationError or nil.
func ValidateForm(v *validator.Validate, form BookingForm) error {
	form.PatientName = strings.TrimSpace(form.PatientName)

	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "form", Message: err.Error()}}}
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return msgMissingFields
	}
	switch fe.Field() {
	case "mobile":
		return msgMobileDigits
	case "gender":
		return msgInvalidGender
	case "age":
		return msgInvalidAge
	}
	return fe.Error()
}

// ValidateDate accepts calendar dates in ISO form only.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "date", Message: msgInvalidDate}}}
	}
	return nil
}
