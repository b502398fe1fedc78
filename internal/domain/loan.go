package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

// InstallmentsPerMonth returns how many installments a month of the term
// contributes for this payment frequency, or 0 for an unknown frequency.
func (f Frequency) InstallmentsPerMonth() int {
	switch f {
	case FrequencyWeekly:
		return 4
	case FrequencyBiweekly:
		return 2
	case FrequencyMonthly:
		return 1
	}
	return 0
}

type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "ACTIVE"
	LoanStatusRefinanced LoanStatus = "REFINANCED"
)

var (
	hundred        = decimal.NewFromInt(100)
	lateChargeRate = decimal.NewFromFloat(0.03)
	insuranceRate  = decimal.NewFromFloat(0.02)
)

// Loan is the aggregate root. Its terms are fixed at creation; TotalPayable
// only grows afterwards, through appended late charges.
type Loan struct {
	ID                string
	ClientID          string
	Principal         decimal.Decimal
	MonthlyRate       decimal.Decimal
	DurationMonths    int
	Frequency         Frequency
	InstallmentCount  int
	InstallmentAmount decimal.Decimal
	TotalPayable      decimal.Decimal
	StartDate         time.Time
	Status            LoanStatus
	Insurance         bool
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewLoan computes the fixed terms for a new loan using flat simple interest:
// interest = principal * monthlyRate * durationMonths / 100. The per-installment
// amount is rounded to 2 decimals and TotalPayable absorbs the rounding
// residual, so InstallmentAmount * InstallmentCount == TotalPayable exactly.
func NewLoan(clientID string, principal, monthlyRate decimal.Decimal, durationMonths int, frequency Frequency, startDate time.Time, insurance bool) (*Loan, error) {
	if clientID == "" {
		return nil, ErrInvalidClientID
	}
	if !principal.IsPositive() {
		return nil, ErrInvalidTerms
	}
	if monthlyRate.IsNegative() {
		return nil, ErrInvalidTerms
	}
	if durationMonths <= 0 {
		return nil, ErrInvalidTerms
	}
	perMonth := frequency.InstallmentsPerMonth()
	if perMonth == 0 {
		return nil, ErrInvalidTerms
	}
	count := durationMonths * perMonth
	if count <= 0 {
		return nil, ErrInvalidTerms
	}

	months := decimal.NewFromInt(int64(durationMonths))
	interest := principal.Mul(monthlyRate).Mul(months).Div(hundred)
	gross := principal.Add(interest)
	installment := gross.Div(decimal.NewFromInt(int64(count))).Round(2)
	total := installment.Mul(decimal.NewFromInt(int64(count))).Round(2)

	now := time.Now()
	return &Loan{
		ID:                uuid.New().String(),
		ClientID:          clientID,
		Principal:         principal.Round(2),
		MonthlyRate:       monthlyRate,
		DurationMonths:    durationMonths,
		Frequency:         frequency,
		InstallmentCount:  count,
		InstallmentAmount: installment,
		TotalPayable:      total,
		StartDate:         startDate,
		Status:            LoanStatusActive,
		Insurance:         insurance,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// LateChargeAmount is the fixed 3% penalty, taken on a single installment.
func (l *Loan) LateChargeAmount() decimal.Decimal {
	return l.InstallmentAmount.Mul(lateChargeRate).Round(2)
}

// OutstandingBalance is what remains owed given the running payment total.
// It is also the seed principal when the loan is refinanced.
func (l *Loan) OutstandingBalance(totalPaid decimal.Decimal) decimal.Decimal {
	return l.TotalPayable.Sub(totalPaid).Round(2)
}

// InsuranceTotal is the 2% fund contribution agreed over the whole term.
// Zero when the loan was written without insurance.
func (l *Loan) InsuranceTotal() decimal.Decimal {
	if !l.Insurance {
		return decimal.Zero
	}
	return l.Principal.Mul(insuranceRate).Mul(decimal.NewFromInt(int64(l.DurationMonths)))
}
