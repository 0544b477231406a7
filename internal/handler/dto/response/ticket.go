package response

import (
	"time"

	"ticket-hold/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketResponse struct {
	ID                uuid.UUID  `json:"id"`
	ZoneID            uuid.UUID  `json:"zoneId"`
	ClientID          uuid.UUID  `json:"clientId"`
	QRCode            string     `json:"qrCode"`
	PaymentMethod     string     `json:"paymentMethod"`
	Status            string     `json:"status"`
	PurchaseDate      time.Time  `json:"purchaseDate"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	ReservationID     *uuid.UUID `json:"reservationId,omitempty"`
	ReservationStatus *string    `json:"reservationStatus,omitempty"`
	ExpirationDate    *time.Time `json:"expirationDate,omitempty"`
}

type ReservationResponse struct {
	ID              uuid.UUID `json:"id"`
	TicketID        uuid.UUID `json:"ticketId"`
	ZoneID          uuid.UUID `json:"zoneId"`
	ClientID        uuid.UUID `json:"clientId"`
	Status          string    `json:"status"`
	TicketStatus    string    `json:"ticketStatus"`
	ReservationDate time.Time `json:"reservationDate"`
	ExpirationDate  time.Time `json:"expirationDate"`
}

type ZoneResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Capacity int             `json:"capacity"`
	Price    decimal.Decimal `json:"price"`
}

func FromTicketView(rm *queries.TicketView) *TicketResponse {
	return &TicketResponse{
		ID:                rm.ID,
		ZoneID:            rm.ZoneID,
		ClientID:          rm.ClientID,
		QRCode:            rm.QRCode,
		PaymentMethod:     rm.PaymentMethod,
		Status:            rm.Status,
		PurchaseDate:      rm.PurchasedAt,
		CreatedAt:         rm.CreatedAt,
		UpdatedAt:         rm.UpdatedAt,
		ReservationID:     rm.ReservationID,
		ReservationStatus: rm.ReservationStatus,
		ExpirationDate:    rm.ExpiresAt,
	}
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:              rm.ID,
		TicketID:        rm.TicketID,
		ZoneID:          rm.ZoneID,
		ClientID:        rm.ClientID,
		Status:          rm.Status,
		TicketStatus:    rm.TicketStatus,
		ReservationDate: rm.ReservedAt,
		ExpirationDate:  rm.ExpiresAt,
	}
}

func FromZoneView(rm *queries.ZoneView) *ZoneResponse {
	return &ZoneResponse{
		ID:       rm.ID,
		Name:     rm.Name,
		Capacity: rm.Capacity,
		Price:    rm.Price,
	}
}
