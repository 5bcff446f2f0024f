package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
)

var (
	ErrNothingToExport = errors.New("no history to export")
	ErrUnknownFormat   = errors.New("unknown export format")
)

type Mode string

const (
	ModeTabular  Mode = "tabular"
	ModeDocument Mode = "document"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

const Title = "Appointment History"

// Columns are shared by every format.
var Columns = []string{"Name", "Gender", "Age", "Mobile", "Date", "Time"}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "excel", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) Mode() Mode {
	if f == FormatPDF {
		return ModeDocument
	}
	return ModeTabular
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

func (f Format) Filename() string {
	return "appointment_history." + string(f)
}

// Write renders records to w in the given format. Empty input returns
// ErrNothingToExport before anything is written.
func Write(w io.Writer, format Format, records []appointment.Appointment) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = row(r)
	}

	switch format {
	case FormatXLSX:
		return writeXLSX(w, rows)
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatPDF:
		return writePDF(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func row(a appointment.Appointment) []string {
	age := ""
	if a.Age > 0 {
		age = strconv.Itoa(a.Age)
	}
	return []string{
		a.PatientName,
		string(a.Gender),
		age,
		a.Mobile,
		a.Slot.Date,
		a.Slot.DisplayTime,
	}
}
