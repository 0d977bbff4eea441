// Package models defines client-side data models for the saree order book.
package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusDespatched OrderStatus = "DESPATCHED"
)

// TempIDPrefix makes provisional ids recognizable in logs. Code must rely on
// Order.Provisional, not on the prefix.
const TempIDPrefix = "tmp-"

// NewTempID generates a provisional order id for an optimistic local insert.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// Order is a shipping order cached locally and synced with the remote store.
// UpdatedAt is the authoritative version marker: merges keep whichever copy
// carries the larger value, ties prefer the incoming one.
type Order struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
	BookedBy  string `json:"booked_by"`
	Mobile    string `json:"mobile"`
	Courier   string `json:"courier"`
	Quantity  *int   `json:"quantity,omitempty"`

	Status OrderStatus `json:"status"`

	// BookingDate is always set; DespatchDate is set once the order is
	// despatched (enforced by convention, not structurally).
	BookingDate  time.Time  `json:"booking_date"`
	DespatchDate *time.Time `json:"despatch_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Provisional marks a record created locally and not yet confirmed by the
	// remote store. The id is replaced once the queued insert succeeds.
	Provisional bool `json:"-"`
}

// OrderPayload carries the user-entered fields of a new order.
type OrderPayload struct {
	Recipient   string    `json:"recipient"`
	Sender      string    `json:"sender"`
	BookedBy    string    `json:"booked_by"`
	Mobile      string    `json:"mobile"`
	Courier     string    `json:"courier"`
	Quantity    *int      `json:"quantity,omitempty"`
	BookingDate time.Time `json:"booking_date"`
}

// OrderChanges is a partial update. Nil fields are left untouched. Setting
// Status also overwrites DespatchDate, so a transition back to PENDING clears
// the despatch date.
type OrderChanges struct {
	Recipient    *string      `json:"recipient,omitempty"`
	Sender       *string      `json:"sender,omitempty"`
	BookedBy     *string      `json:"booked_by,omitempty"`
	Mobile       *string      `json:"mobile,omitempty"`
	Courier      *string      `json:"courier,omitempty"`
	Quantity     *int         `json:"quantity,omitempty"`
	BookingDate  *time.Time   `json:"booking_date,omitempty"`
	Status       *OrderStatus `json:"status,omitempty"`
	DespatchDate *time.Time   `json:"despatch_date,omitempty"`
}

// Apply overwrites the order's fields with the non-nil changes and stamps
// UpdatedAt with now.
func (o *Order) Apply(c OrderChanges, now time.Time) {
	if c.Recipient != nil {
		o.Recipient = *c.Recipient
	}
	if c.Sender != nil {
		o.Sender = *c.Sender
	}
	if c.BookedBy != nil {
		o.BookedBy = *c.BookedBy
	}
	if c.Mobile != nil {
		o.Mobile = *c.Mobile
	}
	if c.Courier != nil {
		o.Courier = *c.Courier
	}
	if c.Quantity != nil {
		o.Quantity = c.Quantity
	}
	if c.BookingDate != nil {
		o.BookingDate = *c.BookingDate
	}
	if c.Status != nil {
		o.Status = *c.Status
		o.DespatchDate = c.DespatchDate
	}
	o.UpdatedAt = now
}

// DateField selects which date column a range filter applies to.
type DateField string

const (
	DateFieldBooking  DateField = "booking_date"
	DateFieldDespatch DateField = "despatch_date"
)

// OrderFilter narrows listings by status and date range. Zero From/To leave
// that end open; AllDates bypasses the range entirely.
type OrderFilter struct {
	Status   OrderStatus
	From     time.Time
	To       time.Time
	AllDates bool
}

// DateField returns the column the range applies to: despatch date for
// despatched orders, booking date otherwise.
func (f OrderFilter) DateField() DateField {
	if f.Status == StatusDespatched {
		return DateFieldDespatch
	}
	return DateFieldBooking
}
