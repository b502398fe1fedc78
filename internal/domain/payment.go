package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one append-only entry in a loan's payment log. The allocation
// engine only ever consumes the sum of these amounts, never the individual
// rows, so their order carries no meaning beyond audit display.
type Payment struct {
	ID        string
	LoanID    string
	Amount    decimal.Decimal
	PaidAt    time.Time
	CreatedAt time.Time
}

func NewPayment(loanID string, amount decimal.Decimal, paidAt time.Time) (*Payment, error) {
	if loanID == "" {
		return nil, ErrInvalidEvent
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidEvent
	}
	return &Payment{
		ID:        uuid.New().String(),
		LoanID:    loanID,
		Amount:    amount.Round(2),
		PaidAt:    paidAt,
		CreatedAt: time.Now(),
	}, nil
}

// LateChargeReasonPenalty tags the one supported manual charge, the 3% late
// fee on a single installment.
const LateChargeReasonPenalty = "LATE FEE 3%"

// LateCharge is an append-only penalty entry. Appending one increases the
// loan's TotalPayable by the same amount; there is no undo.
type LateCharge struct {
	ID        string
	LoanID    string
	Amount    decimal.Decimal
	Reason    string
	AppliedAt time.Time
	CreatedAt time.Time
}

func NewLateCharge(loanID string, amount decimal.Decimal, reason string, appliedAt time.Time) (*LateCharge, error) {
	if loanID == "" {
		return nil, ErrInvalidEvent
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidEvent
	}
	return &LateCharge{
		ID:        uuid.New().String(),
		LoanID:    loanID,
		Amount:    amount.Round(2),
		Reason:    reason,
		AppliedAt: appliedAt,
		CreatedAt: time.Now(),
	}, nil
}

// FundWithdrawal records a drawdown against the accumulated 2% insurance fund.
type FundWithdrawal struct {
	ID          string
	Amount      decimal.Decimal
	WithdrawnAt time.Time
}

func NewFundWithdrawal(amount decimal.Decimal) (*FundWithdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidEvent
	}
	return &FundWithdrawal{
		ID:          uuid.New().String(),
		Amount:      amount.Round(2),
		WithdrawnAt: time.Now(),
	}, nil
}
