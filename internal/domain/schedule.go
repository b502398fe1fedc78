package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentPartial InstallmentStatus = "PARTIAL"
	InstallmentPending InstallmentStatus = "PENDING"
)

// moneyTolerance is the single rounding tolerance applied everywhere money is
// compared: amounts closer to zero than this are treated as settled.
var moneyTolerance = decimal.NewFromFloat(0.05)

// Installment is one row of the derived repayment view. It is never stored;
// ComputeSchedule rebuilds the whole slice from the loan terms and the running
// payment total on every read.
type Installment struct {
	Number         int
	DueDate        time.Time
	Amount         decimal.Decimal
	Status         InstallmentStatus
	RemainingOwed  decimal.Decimal
	PartialPaid    decimal.Decimal
	LateFee        decimal.Decimal
	CarriesLateFee bool
}

// ComputeSchedule reconstructs the state of every installment from the sum of
// payments received, applying the capital-first allocation policy:
//
//  1. money extinguishes whole installments in order,
//  2. what is left pays down the accrued late-fee total,
//  3. any rest becomes a partial credit toward the next unpaid installment.
//
// Only the first unpaid installment ever displays the live late fee or the
// partial credit; every later installment shows the plain installment amount.
// That is intentional product behavior, not a bug to fix.
func ComputeSchedule(loan *Loan, totalPaid decimal.Decimal) ([]Installment, error) {
	if loan.InstallmentCount <= 0 || !loan.InstallmentAmount.IsPositive() {
		return nil, ErrCorruptTerms
	}

	base := loan.InstallmentAmount.Round(2)
	count := loan.InstallmentCount

	theoretical := base.Mul(decimal.NewFromInt(int64(count))).Round(2)
	impliedFee := loan.TotalPayable.Round(2).Sub(theoretical).Round(2)
	if impliedFee.LessThan(moneyTolerance) {
		impliedFee = decimal.Zero
	}

	// Pass 1: greedily mark whole installments paid, stopping at the first
	// one the remaining money cannot cover.
	remaining := totalPaid.Round(2)
	fullyPaid := 0
	for i := 0; i < count; i++ {
		if remaining.LessThan(base.Sub(moneyTolerance)) {
			break
		}
		remaining = remaining.Sub(base).Round(2)
		fullyPaid++
	}

	// Pass 2: the late fee consumes money before any capital credit.
	liveFee := decimal.Zero
	if impliedFee.IsPositive() {
		feePaid := decimal.Min(impliedFee, remaining)
		liveFee = impliedFee.Sub(feePaid).Round(2)
		if liveFee.LessThan(moneyTolerance) {
			liveFee = decimal.Zero
		}
		remaining = remaining.Sub(feePaid).Round(2)
	}

	// Pass 3: whatever is left is a partial credit on the next installment.
	partial := remaining
	if partial.LessThan(moneyTolerance) {
		partial = decimal.Zero
	}

	dueDates := DueDates(loan.StartDate, loan.Frequency, count)
	schedule := make([]Installment, 0, count)
	current := false
	for i := 1; i <= count; i++ {
		inst := Installment{
			Number:  i,
			DueDate: dueDates[i-1],
			Amount:  base,
			Status:  InstallmentPending,
		}
		switch {
		case i <= fullyPaid:
			inst.Status = InstallmentPaid
		case !current:
			// The first unpaid installment carries the live fee and the
			// partial credit; nothing after it does.
			inst.Amount = base.Add(liveFee).Round(2)
			inst.LateFee = liveFee
			inst.CarriesLateFee = liveFee.IsPositive()
			if partial.IsPositive() {
				inst.Status = InstallmentPartial
				inst.PartialPaid = partial
				inst.RemainingOwed = inst.Amount.Sub(partial).Round(2)
			} else {
				inst.RemainingOwed = inst.Amount
			}
			current = true
		default:
			inst.RemainingOwed = base
		}
		schedule = append(schedule, inst)
	}
	return schedule, nil
}

// NextActionable returns the first installment that is not fully paid, or nil
// when the schedule is settled. Account-summary banners are built from it.
func NextActionable(schedule []Installment) *Installment {
	for i := range schedule {
		if schedule[i].Status != InstallmentPaid {
			return &schedule[i]
		}
	}
	return nil
}
