package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DomainEvent is a notification of a sale state change, published after the
// change has been persisted. EventName returns the concrete type name (e.g.
// "SaleCreatedEvent"); the messaging layer derives routing keys from it.
type DomainEvent interface {
	EventName() string
}

// EventPublisher is the port the orchestration layer publishes through.
// Publishing is synchronous: a broker failure surfaces to the caller, and
// the already-persisted state change stands (there is no outbox).
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// SaleCreatedEvent notifies that a new sale was registered.
type SaleCreatedEvent struct {
	SaleID      uuid.UUID       `json:"saleId"`
	SaleNumber  string          `json:"saleNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredOn  time.Time       `json:"occurredOn"`
}

func (SaleCreatedEvent) EventName() string { return "SaleCreatedEvent" }

// SaleModifiedEvent notifies that a sale's fields or item set changed.
type SaleModifiedEvent struct {
	SaleID      uuid.UUID       `json:"saleId"`
	SaleNumber  string          `json:"saleNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredOn  time.Time       `json:"occurredOn"`
}

func (SaleModifiedEvent) EventName() string { return "SaleModifiedEvent" }

// SaleCancelledEvent notifies that a sale reached its terminal state.
type SaleCancelledEvent struct {
	SaleID      uuid.UUID       `json:"saleId"`
	SaleNumber  string          `json:"saleNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredOn  time.Time       `json:"occurredOn"`
}

func (SaleCancelledEvent) EventName() string { return "SaleCancelledEvent" }

// SaleItemModifiedEvent notifies that a single item changed.
type SaleItemModifiedEvent struct {
	ItemID     uuid.UUID `json:"id"`
	SaleID     uuid.UUID `json:"saleId"`
	OccurredOn time.Time `json:"occurredOn"`
}

func (SaleItemModifiedEvent) EventName() string { return "SaleItemModifiedEvent" }

// SaleItemCancelledEvent notifies that a single item was cancelled.
type SaleItemCancelledEvent struct {
	ItemID     uuid.UUID `json:"id"`
	SaleID     uuid.UUID `json:"saleId"`
	OccurredOn time.Time `json:"occurredOn"`
}

func (SaleItemCancelledEvent) EventName() string { return "SaleItemCancelledEvent" }

// Event constructors capture OccurredOn at construction time, not at publish.

func NewSaleCreatedEvent(s *Sale) SaleCreatedEvent {
	return SaleCreatedEvent{SaleID: s.ID, SaleNumber: s.SaleNumber, TotalAmount: s.TotalAmount, OccurredOn: time.Now().UTC()}
}

func NewSaleModifiedEvent(s *Sale) SaleModifiedEvent {
	return SaleModifiedEvent{SaleID: s.ID, SaleNumber: s.SaleNumber, TotalAmount: s.TotalAmount, OccurredOn: time.Now().UTC()}
}

func NewSaleCancelledEvent(s *Sale) SaleCancelledEvent {
	return SaleCancelledEvent{SaleID: s.ID, SaleNumber: s.SaleNumber, TotalAmount: s.TotalAmount, OccurredOn: time.Now().UTC()}
}

func NewSaleItemModifiedEvent(i *SaleItem) SaleItemModifiedEvent {
	return SaleItemModifiedEvent{ItemID: i.ID, SaleID: i.SaleID, OccurredOn: time.Now().UTC()}
}

func NewSaleItemCancelledEvent(i *SaleItem) SaleItemCancelledEvent {
	return SaleItemCancelledEvent{ItemID: i.ID, SaleID: i.SaleID, OccurredOn: time.Now().UTC()}
}

// EventNames lists every declared event type. The messaging layer uses it to
// pre-declare topology and tests use it to cover routing-key derivation.
func EventNames() []string {
	return []string{
		SaleCreatedEvent{}.EventName(),
		SaleModifiedEvent{}.EventName(),
		SaleCancelledEvent{}.EventName(),
		SaleItemModifiedEvent{}.EventName(),
		SaleItemCancelledEvent{}.EventName(),
	}
}
