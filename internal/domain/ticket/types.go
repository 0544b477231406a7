package ticket

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further ticket transition is permitted.
// A paid ticket is not terminal: it can still be cancelled.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	// PaymentNone discriminates a hold request from an immediate purchase.
	PaymentNone PaymentMethod = "none"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentTransfer, PaymentNone:
		return true
	default:
		return false
	}
}

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "reserved"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationExpired   ReservationStatus = "expired"
	// ReservationCancelled is an explicit caller cancellation. It releases
	// inventory exactly like ReservationExpired but stays distinguishable
	// downstream.
	ReservationCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) String() string {
	return string(s)
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationReserved, ReservationConfirmed, ReservationExpired, ReservationCancelled:
		return true
	default:
		return false
	}
}

func (s ReservationStatus) IsTerminal() bool {
	return s != ReservationReserved
}
