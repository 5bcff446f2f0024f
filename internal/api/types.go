package api

import (
	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
)

type BookAppointmentRequest struct {
	PatientName    string `json:"patientName"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	Mobile         string `json:"mobile"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	PractitionerID string `json:"practitionerId,omitempty"`
}

type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type DarkModeRequest struct {
	Enabled bool `json:"enabled"`
}

type DarkModeResponse struct {
	Enabled bool `json:"enabled"`
}

type SlotsResponse struct {
	Date           string             `json:"date"`
	PractitionerID string             `json:"practitionerId"`
	Slots          []appointment.Slot `json:"slots"`
}

type NoticeResponse struct {
	Notice string `json:"notice"`
}

type ErrorResponse struct {
	Error   string                   `json:"error"`
	Details string                   `json:"details,omitempty"`
	Fields  []appointment.FieldError `json:"fields,omitempty"`
}
