package dto

import (
	"errors"

	"github.com/shopspring/decimal"
)

type PortfolioSummaryResponse struct {
	TotalLoaned      string `json:"total_loaned"`
	TotalCollected   string `json:"total_collected"`
	InterestGain     string `json:"interest_gain"`
	InsuredCollected string `json:"insured_collected"`
	FundAccrued      string `json:"fund_accrued"`
	FundWithdrawn    string `json:"fund_withdrawn"`
	FundAvailable    string `json:"fund_available"`
}

type ClientBalanceResponse struct {
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	TotalLoaned string `json:"total_loaned"`
	TotalAgreed string `json:"total_agreed"`
	TotalPaid   string `json:"total_paid"`
	Balance     string `json:"balance"`
}

type WithdrawFundRequest struct {
	Amount string `json:"amount"`
}

func (r *WithdrawFundRequest) Validate() error {
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
	return nil
}

func (r *WithdrawFundRequest) GetAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Amount)
}

type FundWithdrawalResponse struct {
	WithdrawalID string `json:"withdrawal_id"`
	Amount       string `json:"amount"`
	WithdrawnAt  string `json:"withdrawn_at"`
}
