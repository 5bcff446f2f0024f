package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
	"github.com/hackgods/dentist-appointment-booking/internal/export"
)

func slotsCmd(a *app) *cobra.Command {
	var date, practitioner string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List bookable slots for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			slots, err := a.svc().GetAvailableSlots(cmd.Context(), date, practitioner)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No slots.")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Time", "Slot"})
			for _, s := range slots {
				table.Append([]string{s.Time, s.DisplayTime})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date in YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&practitioner, "practitioner", "", "practitioner id (default the configured dentist)")
	return cmd
}

func bookCmd(a *app) *cobra.Command {
	var name, gender, age, mobile, date, hhmm, practitioner string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := buildForm(
				appointment.SetPatientName{Value: name},
				appointment.SetGender{Value: appointment.Gender(gender)},
				appointment.SetAge{Value: age},
				appointment.SetMobile{Value: mobile},
			)
			if err != nil {
				return err
			}

			slot := appointment.Slot{PractitionerID: practitioner, Date: date, Time: hhmm}
			appt, err := a.svc().Book(cmd.Context(), form, slot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment booked successfully! id=%d %s %s\n",
				appt.ID, appt.Slot.Date, appt.Slot.DisplayTime)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "patient name")
	cmd.Flags().StringVar(&gender, "gender", "", "Male or Female")
	cmd.Flags().StringVar(&age, "age", "", "patient age")
	cmd.Flags().StringVar(&mobile, "mobile", "", "10 digit mobile number")
	cmd.Flags().StringVar(&date, "date", "", "date in YYYY-MM-DD")
	cmd.Flags().StringVar(&hhmm, "time", "", "slot start in 24h HH:MM")
	cmd.Flags().StringVar(&practitioner, "practitioner", "", "practitioner id")
	return cmd
}

func buildForm(updates ...appointment.FieldUpdate) (appointment.BookingForm, error) {
	var form appointment.BookingForm
	for _, u := range updates {
		var err error
		if form, err = form.Apply(u); err != nil {
			return form, err
		}
	}
	return form, nil
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			appts, err := a.svc().List(cmd.Context())
			if err != nil {
				return err
			}
			if len(appts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No appointments.")
				return nil
			}
			renderAppointments(cmd, appts, nil)
			return nil
		},
	}
}

func cancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment and move it to history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			appt, err := a.svc().Cancel(cmd.Context(), id)
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d is not active; nothing to cancel.\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d for %s cancelled.\n", appt.ID, appt.PatientName)
			return nil
		},
	}
}

func rescheduleCmd(a *app) *cobra.Command {
	var date, hhmm string

	cmd := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Move an appointment to another slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			current, err := a.svc().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			slot := appointment.Slot{PractitionerID: current.Slot.PractitionerID, Date: date, Time: hhmm}
			appt, err := a.svc().Reschedule(cmd.Context(), id, slot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment rescheduled successfully! %s %s\n",
				appt.Slot.Date, appt.Slot.DisplayTime)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "new date in YYYY-MM-DD")
	cmd.Flags().StringVar(&hhmm, "time", "", "new slot start in 24h HH:MM")
	return cmd
}

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show cancelled, rescheduled and completed appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.svc().History(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history.")
				return nil
			}

			appts := make([]appointment.Appointment, len(entries))
			reasons := make([]string, len(entries))
			for i, e := range entries {
				appts[i] = e.Appointment
				reasons[i] = string(e.ArchivedReason)
			}
			renderAppointments(cmd, appts, reasons)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export appointment history as xlsx, csv or pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			records, err := a.svc().HistoryAppointments(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, f, records); err != nil {
				if errors.Is(err, export.ErrNothingToExport) {
					fmt.Fprintln(cmd.OutOrStdout(), "No history to export.")
					return nil
				}
				return err
			}

			if out == "" {
				out = f.Filename()
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s report written to %s (%d records)\n", f, out, len(records))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx, csv or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default appointment_history.<format>)")
	return cmd
}

func darkModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "dark-mode [on|off]",
		Short:     "Show or set the dark mode preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var enabled bool
				switch args[0] {
				case "on", "true":
					enabled = true
				case "off", "false":
				default:
					return fmt.Errorf("expected on or off, got %q", args[0])
				}
				if err := a.svc().SetDarkMode(cmd.Context(), enabled); err != nil {
					return err
				}
			}

			enabled, err := a.svc().DarkMode(cmd.Context())
			if err != nil {
				return err
			}
			state := "off"
			if enabled {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dark mode: %s\n", state)
			return nil
		},
	}
}

func archiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move appointments whose slot has passed into history",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.svc().ArchivePast(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d appointment(s) archived as completed\n", n)
			return nil
		},
	}
}

func renderAppointments(cmd *cobra.Command, appts []appointment.Appointment, reasons []string) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	header := []string{"ID", "Name", "Gender", "Age", "Mobile", "Date", "Time"}
	if reasons != nil {
		header = append(header, "Reason")
	}
	table.SetHeader(header)

	for i, appt := range appts {
		row := []string{
			strconv.FormatInt(appt.ID, 10),
			appt.PatientName,
			string(appt.Gender),
			strconv.Itoa(appt.Age),
			appt.Mobile,
			appt.Slot.Date,
			appt.Slot.DisplayTime,
		}
		if reasons != nil {
			row = append(row, reasons[i])
		}
		table.Append(row)
	}
	table.Render()
}

// describeError turns service errors into the messages a person at the
// terminal should see.
func describeError(err error) string {
	var verr *appointment.ValidationError
	var perr *appointment.PersistenceError

	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, appointment.ErrSlotConflict):
		return "That slot is already booked. Pick another one."
	case errors.Is(err, appointment.ErrSlotInPast):
		return "That slot has already started. Pick a later one."
	case errors.Is(err, appointment.ErrLedgerBusy):
		return "Appointments are being updated elsewhere. Please try again."
	case errors.As(err, &perr):
		return "Error saving appointments: " + perr.Error()
	}
	return "error: " + err.Error()
}
