package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/config"
	redisclient "github.com/hackgods/dentist-appointment-booking/internal/redis"
	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentCompleted   = "APPOINTMENT_COMPLETED"
)

const ledgerLockKey = "ledger"

var (
	ErrSlotInPast         = errors.New("slot has already started")
	ErrLedgerBusy         = errors.New("ledger is being updated, please retry")
	ErrPractitionerChange = errors.New("rescheduling cannot change the practitioner")
)

type Service struct {
	store         store.Store
	prefs         *Preferences
	locker        redisclient.Locker
	validate      *validator.Validate
	practitioners []Practitioner
	log           *zap.Logger
	loc           *time.Location
	now           func() time.Time
}

// state is one consistent read of the ledger and history. Each operation gets
// its own, so a reader never rewrites what a concurrent mutation is holding.
type state struct {
	ledger  *Ledger
	history *HistoryArchive
}

func NewService(st store.Store, locker redisclient.Locker, cfg config.Config, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		prefs:    NewPreferences(st),
		locker:   locker,
		validate: newValidator(),
		practitioners: []Practitioner{{
			ID:             cfg.PractitionerID,
			Name:           cfg.PractitionerName,
			Specialization: cfg.PractitionerSpecialization,
		}},
		log: logger,
		loc: time.Local,
		now: time.Now,
	}
}

func (s *Service) Practitioners() []Practitioner {
	out := make([]Practitioner, len(s.practitioners))
	copy(out, s.practitioners)
	return out
}

func (s *Service) practitioner(id string) (Practitioner, error) {
	if id == "" {
		return s.practitioners[0], nil
	}
	for _, p := range s.practitioners {
		if p.ID == id {
			return p, nil
		}
	}
	return Practitioner{}, fmt.Errorf("%w: %s", ErrPractitionerUnknown, id)
}

// load reads the ledger and history from the store so that writes made by
// other processes are seen.
func (s *Service) load(ctx context.Context) (*state, error) {
	st := &state{
		ledger:  NewLedger(s.store),
		history: NewHistoryArchive(s.store),
	}
	if err := st.ledger.Load(ctx); err != nil {
		return nil, err
	}
	if err := st.history.Load(ctx); err != nil {
		return nil, err
	}
	st.ledger.observeID(st.history.maxID())
	return st, nil
}

func (s *Service) withLedgerLock(ctx context.Context, fn func(ctx context.Context, st *state) error) error {
	err := s.locker.WithLock(ctx, ledgerLockKey, func(lockCtx context.Context) error {
		st, err := s.load(lockCtx)
		if err != nil {
			return err
		}
		return fn(lockCtx, st)
	})
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrLedgerBusy
	}
	return err
}

// ResolveSlot maps a date, practitioner and 24h time to a catalog slot.
func (s *Service) ResolveSlot(date, practitionerID, hhmm string) (Slot, error) {
	if err := ValidateDate(date); err != nil {
		return Slot{}, err
	}
	p, err := s.practitioner(practitionerID)
	if err != nil {
		return Slot{}, err
	}
	return SlotAt(date, p.ID, hhmm)
}

// canonicalSlot regenerates slot from the catalog so a caller cannot hand in
// a slot whose id disagrees with its date and time.
func (s *Service) canonicalSlot(slot Slot) (Slot, error) {
	c, err := s.ResolveSlot(slot.Date, slot.PractitionerID, slot.Time)
	if err != nil {
		return Slot{}, err
	}
	if slot.ID != "" && slot.ID != c.ID {
		return Slot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, slot.ID)
	}
	return c, nil
}

func (s *Service) checkNotPast(slot Slot) error {
	start, err := slot.Start(s.loc)
	if err != nil {
		return ValidateDate(slot.Date)
	}
	if start.Before(s.now()) {
		return fmt.Errorf("%w: %s %s", ErrSlotInPast, slot.Date, slot.DisplayTime)
	}
	return nil
}

// GetAvailableSlots returns the unbooked catalog entries for a date.
func (s *Service) GetAvailableSlots(ctx context.Context, date, practitionerID string) ([]Slot, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	p, err := s.practitioner(practitionerID)
	if err != nil {
		return nil, err
	}
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return NewResolver(st.ledger).AvailableSlots(date, p.ID), nil
}

// Book validates the form and records a new appointment for slot.
func (s *Service) Book(ctx context.Context, form BookingForm, slot Slot) (*Appointment, error) {
	form.PatientName = strings.TrimSpace(form.PatientName)
	if err := ValidateForm(s.validate, form); err != nil {
		return nil, err
	}
	canonical, err := s.canonicalSlot(slot)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(canonical); err != nil {
		return nil, err
	}
	p, err := s.practitioner(canonical.PractitionerID)
	if err != nil {
		return nil, err
	}

	var created Appointment
	err = s.withLedgerLock(ctx, func(lockCtx context.Context, st *state) error {
		appt := Appointment{
			ID:           st.ledger.NextID(),
			PatientName:  form.PatientName,
			Gender:       form.Gender,
			Age:          form.Age,
			Mobile:       form.Mobile,
			Slot:         canonical,
			Practitioner: &p,
		}
		if err := st.ledger.Add(lockCtx, appt); err != nil {
			return err
		}
		created = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(EventAppointmentBooked, created,
		zap.String("slot_id", created.Slot.ID))

	return &created, nil
}

// Cancel removes the appointment from the ledger and archives it. Both steps
// succeed or neither is kept.
func (s *Service) Cancel(ctx context.Context, id int64) (*Appointment, error) {
	var removed Appointment
	err := s.withLedgerLock(ctx, func(lockCtx context.Context, st *state) error {
		before := st.ledger.All()

		appt, err := st.ledger.Remove(lockCtx, id)
		if err != nil {
			return err
		}
		if err := s.archive(lockCtx, st, appt, ReasonCancelled); err != nil {
			s.compensate(lockCtx, st, before, err)
			return err
		}
		removed = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(EventAppointmentCancelled, removed,
		zap.String("slot_id", removed.Slot.ID))

	return &removed, nil
}

// Reschedule moves an appointment onto newSlot and archives the copy holding
// the old slot. The ledger is updated first; if archiving fails the update is
// reverted.
func (s *Service) Reschedule(ctx context.Context, id int64, newSlot Slot) (*Appointment, error) {
	canonical, err := s.canonicalSlot(newSlot)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(canonical); err != nil {
		return nil, err
	}

	var old, updated Appointment
	err = s.withLedgerLock(ctx, func(lockCtx context.Context, st *state) error {
		before := st.ledger.All()

		current, err := st.ledger.Get(id)
		if err != nil {
			return err
		}
		if current.Slot.PractitionerID != canonical.PractitionerID {
			return ErrPractitionerChange
		}

		next, err := st.ledger.Update(lockCtx, id, canonical)
		if err != nil {
			return err
		}
		if err := s.archive(lockCtx, st, current, ReasonRescheduled); err != nil {
			s.compensate(lockCtx, st, before, err)
			return err
		}
		old, updated = current, next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(EventAppointmentRescheduled, updated,
		zap.String("from_slot_id", old.Slot.ID),
		zap.String("to_slot_id", updated.Slot.ID))

	return &updated, nil
}

// ArchivePast moves every appointment whose slot has started into history as
// completed. It returns how many were moved.
func (s *Service) ArchivePast(ctx context.Context) (int, error) {
	now := s.now()
	var done []Appointment

	err := s.withLedgerLock(ctx, func(lockCtx context.Context, st *state) error {
		for _, appt := range st.ledger.All() {
			start, err := appt.Slot.Start(s.loc)
			if err != nil {
				s.log.Warn("skipping appointment with malformed slot",
					zap.Int64("appointment_id", appt.ID),
					zap.String("date", appt.Slot.Date),
					zap.String("time", appt.Slot.Time))
				continue
			}
			if !start.Before(now) {
				continue
			}

			before := st.ledger.All()
			removed, err := st.ledger.Remove(lockCtx, appt.ID)
			if err != nil {
				return err
			}
			if err := s.archive(lockCtx, st, removed, ReasonCompleted); err != nil {
				s.compensate(lockCtx, st, before, err)
				return err
			}
			done = append(done, removed)
		}
		return nil
	})

	for _, appt := range done {
		s.logEvent(EventAppointmentCompleted, appt,
			zap.String("slot_id", appt.Slot.ID))
	}

	return len(done), err
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.ledger.All(), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	appt, err := st.ledger.Get(id)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.history.All(), nil
}

// HistoryAppointments is the exporter input: archived appointments in append
// order.
func (s *Service) HistoryAppointments(ctx context.Context) ([]Appointment, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.history.Appointments(), nil
}

func (s *Service) DarkMode(ctx context.Context) (bool, error) {
	return s.prefs.DarkMode(ctx)
}

func (s *Service) SetDarkMode(ctx context.Context, enabled bool) error {
	return s.prefs.SetDarkMode(ctx, enabled)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) archive(ctx context.Context, st *state, appt Appointment, reason ArchiveReason) error {
	at := s.now().UTC()
	return st.history.Append(ctx, HistoryEntry{
		Appointment:    appt,
		ArchivedReason: reason,
		ArchivedAt:     &at,
	})
}

func (s *Service) compensate(ctx context.Context, st *state, before []Appointment, cause error) {
	if err := st.ledger.restore(ctx, before); err != nil {
		s.log.Error("failed to restore ledger after archive error",
			zap.NamedError("archive_error", cause),
			zap.Error(err))
	}
}

func (s *Service) logEvent(eventType string, appt Appointment, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("event", eventType),
		zap.Int64("appointment_id", appt.ID),
		zap.String("date", appt.Slot.Date),
		zap.String("time", appt.Slot.Time),
	}
	s.log.Info("appointment event", append(base, fields...)...)
}
