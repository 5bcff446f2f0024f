package appointment

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type ArchiveReason string

const (
	ReasonCancelled   ArchiveReason = "cancelled"
	ReasonRescheduled ArchiveReason = "rescheduled"
	ReasonCompleted   ArchiveReason = "completed"
)

// Store keys. The layout matches what the browser build kept in localStorage.
const (
	KeyAppointments = "appointments"
	KeyHistory      = "appointmentHistory"
	KeyDarkMode     = "darkMode"
)

type Practitioner struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

// Slot is an immutable hourly position in a practitioner's day.
type Slot struct {
	ID             string `json:"id"`
	PractitionerID string `json:"practitionerId,omitempty"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	DisplayTime    string `json:"displayTime"`
}

// Start returns the slot start in loc. It fails for slots generated from a
// malformed date.
func (s Slot) Start(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.Time, loc)
}

type Appointment struct {
	ID           int64         `json:"id"`
	PatientName  string        `json:"patientName"`
	Gender       Gender        `json:"gender"`
	Age          int           `json:"age"`
	Mobile       string        `json:"mobile"`
	Slot         Slot          `json:"slot"`
	Practitioner *Practitioner `json:"practitioner,omitempty"`
}

// clone copies the appointment including the practitioner pointer target, so
// callers never share mutable state with the ledger.
func (a Appointment) clone() Appointment {
	if a.Practitioner != nil {
		p := *a.Practitioner
		a.Practitioner = &p
	}
	return a
}

// HistoryEntry is an appointment as it was when it left the ledger.
type HistoryEntry struct {
	Appointment
	ArchivedReason ArchiveReason `json:"archivedReason,omitempty"`
	ArchivedAt     *time.Time    `json:"archivedAt,omitempty"`
}
