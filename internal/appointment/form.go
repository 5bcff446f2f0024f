package appointment

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldUpdate is one edit to a BookingForm coming from an input field.
type FieldUpdate interface {
	isFieldUpdate()
}

type SetPatientName struct{ Value string }

type SetGender struct{ Value Gender }

// SetAge carries the raw input text. Empty text clears the age.
type SetAge struct{ Value string }

type SetMobile struct{ Value string }

func (SetPatientName) isFieldUpdate() {}
func (SetGender) isFieldUpdate()      {}
func (SetAge) isFieldUpdate()         {}
func (SetMobile) isFieldUpdate()      {}

// Apply returns the form with u applied. Mobile input longer than ten
// characters is ignored and the previous value kept.
func (f BookingForm) Apply(u FieldUpdate) (BookingForm, error) {
	switch u := u.(type) {
	case SetPatientName:
		f.PatientName = u.Value
	case SetGender:
		f.Gender = u.Value
	case SetAge:
		raw := strings.TrimSpace(u.Value)
		if raw == "" {
			f.Age = 0
			return f, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("age %q is not a number", u.Value)
		}
		f.Age = n
	case SetMobile:
		if len(u.Value) <= 10 {
			f.Mobile = u.Value
		}
	default:
		return f, fmt.Errorf("unsupported field update %T", u)
	}
	return f, nil
}
