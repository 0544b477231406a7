// Package events defines the lifecycle event payloads this service publishes
// for the notifications consumer. Delivery is best-effort, at-least-once;
// consumers must tolerate duplicates.
package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
)

const (
	TypeTicketCreated        = "ticket_created"
	TypeTicketCancelled      = "ticket_cancelled"
	TypeReservationCreated   = "reservation_created"
	TypeReservationConfirmed = "reservation_confirmed"
	TypeReservationExpired   = "reservation_expired"
	TypeReservationCancelled = "reservation_cancelled"
)

type Header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func newHeader(now time.Time) Header {
	return Header{
		ID:          watermill.NewUUID(),
		PublishedAt: now.UTC(),
	}
}

// LifecycleEvent is the wire payload for every ticket/reservation transition:
// {type, ticketId|reservationId, status, timestamp}.
type LifecycleEvent struct {
	Header        Header     `json:"header"`
	Type          string     `json:"type"`
	TicketID      *uuid.UUID `json:"ticket_id,omitempty"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	Status        string     `json:"status"`
	Timestamp     time.Time  `json:"timestamp"`
}

func NewTicketEvent(eventType string, ticketID uuid.UUID, status string, now time.Time) LifecycleEvent {
	return LifecycleEvent{
		Header:    newHeader(now),
		Type:      eventType,
		TicketID:  &ticketID,
		Status:    status,
		Timestamp: now.UTC(),
	}
}

func NewReservationEvent(eventType string, reservationID, ticketID uuid.UUID, status string, now time.Time) LifecycleEvent {
	return LifecycleEvent{
		Header:        newHeader(now),
		Type:          eventType,
		TicketID:      &ticketID,
		ReservationID: &reservationID,
		Status:        status,
		Timestamp:     now.UTC(),
	}
}
