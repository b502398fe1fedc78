package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaledger/lending-service/internal/domain"
)

const dateLayout = "2006-01-02"

type CreateLoanRequest struct {
	ClientID       string `json:"client_id"`
	Principal      string `json:"principal"`
	MonthlyRate    string `json:"monthly_rate"`
	DurationMonths int    `json:"duration_months"`
	Frequency      string `json:"frequency"`
	StartDate      string `json:"start_date"`
	Insurance      bool   `json:"insurance"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.ClientID == "" {
		return errors.New("client_id is required")
	}
	if r.Principal == "" {
		return errors.New("principal is required")
	}
	if r.MonthlyRate == "" {
		return errors.New("monthly_rate is required")
	}
	if r.DurationMonths <= 0 {
		return errors.New("duration_months must be positive")
	}
	switch domain.Frequency(r.Frequency) {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly, domain.FrequencyMonthly:
	default:
		return errors.New("frequency must be WEEKLY, BIWEEKLY or MONTHLY")
	}
	if _, err := decimal.NewFromString(r.Principal); err != nil {
		return errors.New("principal must be a valid number")
	}
	if _, err := decimal.NewFromString(r.MonthlyRate); err != nil {
		return errors.New("monthly_rate must be a valid number")
	}
	if r.StartDate != "" {
		if _, err := time.Parse(dateLayout, r.StartDate); err != nil {
			return errors.New("start_date must be in format 'YYYY-MM-DD'")
		}
	}
	return nil
}

func (r *CreateLoanRequest) GetPrincipal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Principal)
}

func (r *CreateLoanRequest) GetMonthlyRate() (decimal.Decimal, error) {
	return decimal.NewFromString(r.MonthlyRate)
}

func (r *CreateLoanRequest) GetStartDate() (time.Time, error) {
	if r.StartDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, r.StartDate)
}

type RecordPaymentRequest struct {
	Amount string `json:"amount"`
	PaidAt string `json:"paid_at"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return errors.New("amount must be a valid number")
	}
	if !amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if r.PaidAt != "" {
		if _, err := time.Parse(dateLayout, r.PaidAt); err != nil {
			return errors.New("paid_at must be in format 'YYYY-MM-DD'")
		}
	}
	return nil
}

func (r *RecordPaymentRequest) GetAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Amount)
}

func (r *RecordPaymentRequest) GetPaidAt() (time.Time, error) {
	if r.PaidAt == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, r.PaidAt)
}

type RefinanceLoanRequest struct {
	MonthlyRate    string `json:"monthly_rate"`
	DurationMonths int    `json:"duration_months"`
	Frequency      string `json:"frequency"`
	Insurance      bool   `json:"insurance"`
}

func (r *RefinanceLoanRequest) Validate() error {
	if r.MonthlyRate == "" {
		return errors.New("monthly_rate is required")
	}
	if _, err := decimal.NewFromString(r.MonthlyRate); err != nil {
		return errors.New("monthly_rate must be a valid number")
	}
	if r.DurationMonths <= 0 {
		return errors.New("duration_months must be positive")
	}
	switch domain.Frequency(r.Frequency) {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly, domain.FrequencyMonthly:
	default:
		return errors.New("frequency must be WEEKLY, BIWEEKLY or MONTHLY")
	}
	return nil
}

func (r *RefinanceLoanRequest) GetMonthlyRate() (decimal.Decimal, error) {
	return decimal.NewFromString(r.MonthlyRate)
}

type LoanResponse struct {
	ID                string `json:"id"`
	ClientID          string `json:"client_id"`
	Principal         string `json:"principal"`
	MonthlyRate       string `json:"monthly_rate"`
	DurationMonths    int    `json:"duration_months"`
	Frequency         string `json:"frequency"`
	InstallmentCount  int    `json:"installment_count"`
	InstallmentAmount string `json:"installment_amount"`
	TotalPayable      string `json:"total_payable"`
	TotalPaid         string `json:"total_paid,omitempty"`
	Outstanding       string `json:"outstanding,omitempty"`
	StartDate         string `json:"start_date"`
	Status            string `json:"status"`
	Insurance         bool   `json:"insurance"`
}

func NewLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:                loan.ID,
		ClientID:          loan.ClientID,
		Principal:         loan.Principal.StringFixed(2),
		MonthlyRate:       loan.MonthlyRate.String(),
		DurationMonths:    loan.DurationMonths,
		Frequency:         string(loan.Frequency),
		InstallmentCount:  loan.InstallmentCount,
		InstallmentAmount: loan.InstallmentAmount.StringFixed(2),
		TotalPayable:      loan.TotalPayable.StringFixed(2),
		StartDate:         loan.StartDate.Format(dateLayout),
		Status:            string(loan.Status),
		Insurance:         loan.Insurance,
	}
}

type InstallmentResponse struct {
	Number         int    `json:"number"`
	DueDate        string `json:"due_date"`
	Amount         string `json:"amount"`
	Status         string `json:"status"`
	RemainingOwed  string `json:"remaining_owed"`
	PartialPaid    string `json:"partial_paid"`
	LateFee        string `json:"late_fee"`
	CarriesLateFee bool   `json:"carries_late_fee"`
}

func NewInstallmentResponse(inst domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		Number:         inst.Number,
		DueDate:        inst.DueDate.Format(dateLayout),
		Amount:         inst.Amount.StringFixed(2),
		Status:         string(inst.Status),
		RemainingOwed:  inst.RemainingOwed.StringFixed(2),
		PartialPaid:    inst.PartialPaid.StringFixed(2),
		LateFee:        inst.LateFee.StringFixed(2),
		CarriesLateFee: inst.CarriesLateFee,
	}
}

type ScheduleResponse struct {
	Loan         LoanResponse          `json:"loan"`
	TotalPaid    string                `json:"total_paid"`
	Outstanding  string                `json:"outstanding"`
	Installments []InstallmentResponse `json:"installments"`
	NextDue      *InstallmentResponse  `json:"next_due,omitempty"`
}

type PaymentResponse struct {
	Success     bool   `json:"success"`
	PaymentID   string `json:"payment_id"`
	LoanID      string `json:"loan_id"`
	Amount      string `json:"amount"`
	TotalPaid   string `json:"total_paid"`
	Outstanding string `json:"outstanding"`
	FullyPaid   bool   `json:"fully_paid"`
}

type LateChargeResponse struct {
	ChargeID  string `json:"charge_id"`
	LoanID    string `json:"loan_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	AppliedAt string `json:"applied_at"`
}

type RefinanceResponse struct {
	ClosedLoanID string       `json:"closed_loan_id"`
	Balance      string       `json:"balance"`
	NewLoan      LoanResponse `json:"new_loan"`
}

type MovementResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	At     string `json:"at"`
}

type AccountSummaryResponse struct {
	ClientID string               `json:"client_id"`
	Overdue  bool                 `json:"overdue"`
	Next     *UpcomingPaymentView `json:"next,omitempty"`
}

type UpcomingPaymentView struct {
	LoanID         string `json:"loan_id"`
	Number         int    `json:"number"`
	DueDate        string `json:"due_date"`
	Amount         string `json:"amount"`
	CarriesLateFee bool   `json:"carries_late_fee"`
}
