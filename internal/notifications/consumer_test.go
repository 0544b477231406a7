//go:build unit

package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ticket-hold/internal/events"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/repository"
	"ticket-hold/internal/pkg/clock"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDBTX struct {
	sql  string
	args []any
	err  error
}

func (f *recordingDBTX) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *recordingDBTX) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	panic("not used")
}

func (f *recordingDBTX) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	panic("not used")
}

var _ db.DBTX = (*recordingDBTX)(nil)

func TestLifecycleHandler_PersistsNotification(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	dbtx := &recordingDBTX{}
	handler := &lifecycleHandler{
		repo:  repository.NewNotificationRepository(dbtx),
		clock: clock.NewMockClock(now),
	}

	reservationID := uuid.New()
	event := events.NewReservationEvent(events.TypeReservationExpired, reservationID, uuid.New(), "expired", now)
	msg := message.NewMessage("msg-1", mustMarshal(t, event))

	require.NoError(t, handler.Handle(msg))
	assert.Contains(t, dbtx.sql, "INSERT INTO notifications")
	require.Len(t, dbtx.args, 4)
	assert.Equal(t, events.TypeReservationExpired, dbtx.args[1])
	assert.Contains(t, dbtx.args[2], reservationID.String())
	assert.Contains(t, dbtx.args[2], "expired")
}

func TestLifecycleHandler_RejectsMalformedPayload(t *testing.T) {
	handler := &lifecycleHandler{
		repo:  repository.NewNotificationRepository(&recordingDBTX{}),
		clock: clock.NewMockClock(time.Now()),
	}

	msg := message.NewMessage("msg-1", []byte("{not json"))
	assert.Error(t, handler.Handle(msg))
}

func TestNotificationMessage(t *testing.T) {
	now := time.Now()
	ticketID := uuid.New()
	reservationID := uuid.New()

	t.Run("reservation events mention the reservation", func(t *testing.T) {
		event := events.NewReservationEvent(events.TypeReservationConfirmed, reservationID, ticketID, "confirmed", now)
		msg := notificationMessage(event)
		assert.Contains(t, msg, reservationID.String())
		assert.Contains(t, msg, "confirmed")
	})

	t.Run("ticket events mention the ticket", func(t *testing.T) {
		event := events.NewTicketEvent(events.TypeTicketCreated, ticketID, "paid", now)
		msg := notificationMessage(event)
		assert.Contains(t, msg, ticketID.String())
		assert.Contains(t, msg, "paid")
	})
}

func mustMarshal(t *testing.T, event events.LifecycleEvent) []byte {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}
