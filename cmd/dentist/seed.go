package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
)

func seedCmd(a *app) *cobra.Command {
	var count, days int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Book fake patients into free slots over the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			gofakeit.Seed(time.Now().UnixNano())

			booked := 0
			for i := 0; i < count; i++ {
				date := time.Now().AddDate(0, 0, gofakeit.Number(1, days)).Format("2006-01-02")

				slots, err := a.svc().GetAvailableSlots(cmd.Context(), date, "")
				if err != nil {
					return err
				}
				if len(slots) == 0 {
					continue
				}
				slot := slots[gofakeit.Number(0, len(slots)-1)]

				_, err = a.svc().Book(cmd.Context(), fakeForm(), slot)
				if errors.Is(err, appointment.ErrSlotConflict) {
					continue
				}
				if err != nil {
					return fmt.Errorf("seed booking %d: %w", i+1, err)
				}
				booked++
			}

			a.log.Info("seed complete", zap.Int("requested", count), zap.Int("booked", booked))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d appointment(s)\n", booked)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 20, "number of appointments to book")
	cmd.Flags().IntVar(&days, "days", 7, "spread bookings over this many days from tomorrow")
	return cmd
}

func fakeForm() appointment.BookingForm {
	gender := appointment.GenderMale
	if gofakeit.Bool() {
		gender = appointment.GenderFemale
	}
	return appointment.BookingForm{
		PatientName: gofakeit.Name(),
		Gender:      gender,
		Age:         gofakeit.Number(3, 90),
		Mobile:      gofakeit.Numerify("9#########"),
	}
}
