package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypePaymentRecorded   = "loan.payment.recorded"
	EventTypeLateChargeApplied = "loan.late_charge.applied"
	EventTypeLoanRefinanced    = "loan.refinanced"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// PaymentRecordedEvent - a payment was appended to a loan's ledger
type PaymentRecordedEvent struct {
	BaseEvent
	Payload PaymentRecordedPayload `json:"payload"`
}

func (e PaymentRecordedEvent) GetPayload() interface{} { return e.Payload }

type PaymentRecordedPayload struct {
	LoanID             string    `json:"loan_id"`
	ClientID           string    `json:"client_id"`
	PaymentID          string    `json:"payment_id"`
	Amount             string    `json:"amount"`
	TotalPaid          string    `json:"total_paid"`
	OutstandingBalance string    `json:"outstanding_balance"`
	FullyPaid          bool      `json:"fully_paid"`
	RecordedAt         time.Time `json:"recorded_at"`
}

func NewPaymentRecordedEvent(loanID string, payload PaymentRecordedPayload) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   EventTypePaymentRecorded,
			AggregateID: loanID,
			OccurredAt:  time.Now(),
		},
		Payload: payload,
	}
}

// LateChargeAppliedEvent - a penalty was appended and TotalPayable grew
type LateChargeAppliedEvent struct {
	BaseEvent
	Payload LateChargeAppliedPayload `json:"payload"`
}

func (e LateChargeAppliedEvent) GetPayload() interface{} { return e.Payload }

type LateChargeAppliedPayload struct {
	LoanID          string    `json:"loan_id"`
	ClientID        string    `json:"client_id"`
	ChargeID        string    `json:"charge_id"`
	Amount          string    `json:"amount"`
	Reason          string    `json:"reason"`
	NewTotalPayable string    `json:"new_total_payable"`
	AppliedAt       time.Time `json:"applied_at"`
}

func NewLateChargeAppliedEvent(loanID string, payload LateChargeAppliedPayload) *LateChargeAppliedEvent {
	return &LateChargeAppliedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   EventTypeLateChargeApplied,
			AggregateID: loanID,
			OccurredAt:  time.Now(),
		},
		Payload: payload,
	}
}

// LoanRefinancedEvent - a loan was closed at its balance and a successor opened
type LoanRefinancedEvent struct {
	BaseEvent
	Payload LoanRefinancedPayload `json:"payload"`
}

func (e LoanRefinancedEvent) GetPayload() interface{} { return e.Payload }

type LoanRefinancedPayload struct {
	ClosedLoanID string    `json:"closed_loan_id"`
	NewLoanID    string    `json:"new_loan_id"`
	ClientID     string    `json:"client_id"`
	Balance      string    `json:"balance"`
	RefinancedAt time.Time `json:"refinanced_at"`
}

func NewLoanRefinancedEvent(loanID string, payload LoanRefinancedPayload) *LoanRefinancedEvent {
	return &LoanRefinancedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   EventTypeLoanRefinanced,
			AggregateID: loanID,
			OccurredAt:  time.Now(),
		},
		Payload: payload,
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
