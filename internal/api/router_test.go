package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
	"github.com/hackgods/dentist-appointment-booking/internal/config"
	redisclient "github.com/hackgods/dentist-appointment-booking/internal/redis"
	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

const futureDate = "2099-03-10"

type downStore struct{ *store.MemoryStore }

func (downStore) Ping(context.Context) error { return assert.AnError }

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()

	cfg := config.Config{PractitionerID: "1", PractitionerName: "Dr. Smith"}
	svc := appointment.NewService(st, redisclient.NewLocalLocker(), cfg, zap.NewNop())

	return NewRouter(RouterConfig{
		Service:     svc,
		Logger:      zap.NewNop(),
		Backend:     config.BackendMemory,
		Env:         "test",
		Version:     "test",
		CORSOrigins: []string{"*"},
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func bookRequest(hhmm string) BookAppointmentRequest {
	return BookAppointmentRequest{
		PatientName: "Asha",
		Gender:      "Female",
		Age:         29,
		Mobile:      "9876543210",
		Date:        futureDate,
		Time:        hhmm,
	}
}

func TestBookAndListSlots(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/appointments", bookRequest("10:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[appointment.Appointment](t, rec)
	assert.Equal(t, "10:00 AM", appt.Slot.DisplayTime)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodGet, "/slots?date="+futureDate, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decode[SlotsResponse](t, rec)
	assert.Equal(t, "1", slots.PractitionerID)
	assert.Len(t, slots.Slots, 11)

	rec = do(t, h, http.MethodGet, "/appointments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]appointment.Appointment](t, rec), 1)

	rec = do(t, h, http.MethodPost, "/appointments", bookRequest("10:00"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot_already_booked", decode[ErrorResponse](t, rec).Error)
}

func TestBookValidationError(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	req := bookRequest("10:00")
	req.Mobile = "12345"
	rec := do(t, h, http.MethodPost, "/appointments", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "validation_failed", resp.Error)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "mobile", resp.Fields[0].Field)

	rec = do(t, h, http.MethodGet, "/appointments", nil)
	assert.Empty(t, decode[[]appointment.Appointment](t, rec))
}

func TestBookBadBody(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAndHistory(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/appointments", bookRequest("10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	appt := decode[appointment.Appointment](t, rec)
	path := "/appointments/" + strconv.FormatInt(appt.ID, 10)

	rec = do(t, h, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]appointment.HistoryEntry](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, appointment.ReasonCancelled, history[0].ArchivedReason)

	rec = do(t, h, http.MethodGet, "/slots?date="+futureDate, nil)
	assert.Len(t, decode[SlotsResponse](t, rec).Slots, 12)
}

func TestReschedule(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/appointments", bookRequest("10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	appt := decode[appointment.Appointment](t, rec)
	path := "/appointments/" + strconv.FormatInt(appt.ID, 10) + "/reschedule"

	rec = do(t, h, http.MethodPost, path, RescheduleRequest{Date: futureDate, Time: "17:00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[appointment.Appointment](t, rec)
	assert.Equal(t, "5:00 PM", updated.Slot.DisplayTime)

	rec = do(t, h, http.MethodPost, path, RescheduleRequest{Date: futureDate, Time: "17:30"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/appointments/abc/reschedule", RescheduleRequest{Date: futureDate, Time: "12:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEmptyHistory(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodGet, "/history/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No history to export.", decode[NoticeResponse](t, rec).Notice)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestExportHistory(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/appointments", bookRequest("10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	appt := decode[appointment.Appointment](t, rec)
	rec = do(t, h, http.MethodDelete, "/appointments/"+strconv.FormatInt(appt.ID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/history/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "appointment_history.csv")
	assert.Contains(t, rec.Body.String(), "Asha,Female,29,9876543210,"+futureDate+",10:00 AM")

	rec = do(t, h, http.MethodGet, "/history/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDarkMode(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodGet, "/preferences/dark-mode", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[DarkModeResponse](t, rec).Enabled)

	rec = do(t, h, http.MethodPut, "/preferences/dark-mode", DarkModeRequest{Enabled: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/preferences/dark-mode", nil)
	assert.True(t, decode[DarkModeResponse](t, rec).Enabled)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())
	rec := do(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newTestRouter(t, downStore{store.NewMemoryStore()})
	rec = do(t, down, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "down", decode[ReadinessResponse](t, rec).Dependencies[config.BackendMemory])

	rec = do(t, down, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSlotsInvalidDate(t *testing.T) {
	h := newTestRouter(t, store.NewMemoryStore())

	rec := do(t, h, http.MethodGet, "/slots?date=03/10/2099", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/slots?date="+futureDate+"&practitioner=7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
