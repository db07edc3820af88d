package domain

import "time"

// PurchaseCompletedEvent is the name subscribers register for.
const PurchaseCompletedEvent = "purchases.purchase.completed"

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// PurchaseCompleted is raised after a purchase is persisted. It is never stored.
type PurchaseCompleted struct {
	BaseEvent
	Purchase *Purchase
}

// NewPurchaseCompleted snapshots the purchase so subscribers never share state with the caller.
func NewPurchaseCompleted(p *Purchase, at time.Time) PurchaseCompleted {
	return PurchaseCompleted{BaseEvent: BaseEvent{Timestamp: at}, Purchase: p.Clone()}
}

// EventName returns the event type identifier.
func (e PurchaseCompleted) EventName() string {
	return PurchaseCompletedEvent
}
