package appointment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() BookingForm {
	return BookingForm{
		PatientName: "Asha",
		Gender:      GenderFemale,
		Age:         29,
		Mobile:      "9876543210",
	}
}

func TestValidateForm(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		mutate  func(f *BookingForm)
		field   string
		message string
	}{
		{"missing name", func(f *BookingForm) { f.PatientName = "  " }, "patientName", msgMissingFields},
		{"missing gender", func(f *BookingForm) { f.Gender = "" }, "gender", msgMissingFields},
		{"unknown gender", func(f *BookingForm) { f.Gender = "Other" }, "gender", msgInvalidGender},
		{"missing age", func(f *BookingForm) { f.Age = 0 }, "age", msgMissingFields},
		{"negative age", func(f *BookingForm) { f.Age = -3 }, "age", msgInvalidAge},
		{"short mobile", func(f *BookingForm) { f.Mobile = "12345" }, "mobile", msgMobileDigits},
		{"mobile with letters", func(f *BookingForm) { f.Mobile = "98765abcde" }, "mobile", msgMobileDigits},
		{"mobile with sign", func(f *BookingForm) { f.Mobile = "+987654321" }, "mobile", msgMobileDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := ValidateForm(v, form)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.message, verr.Fields[0].Message)
		})
	}

	assert.NoError(t, ValidateForm(v, validForm()))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-03-10"))
	assert.Error(t, ValidateDate("2025-02-30"))
	assert.Error(t, ValidateDate("10/03/2025"))
	assert.Error(t, ValidateDate(""))
}
