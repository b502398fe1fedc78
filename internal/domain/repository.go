package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	FindByName(ctx context.Context, name string) (*Client, error)
	Search(ctx context.Context, query string) ([]*Client, error)
	Update(ctx context.Context, client *Client) error
	// Delete removes the client and cascades to its loans and their events.
	Delete(ctx context.Context, id string) error
}

type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) error
	FindByID(ctx context.Context, id string) (*Loan, error)
	FindByClientID(ctx context.Context, clientID string) ([]*Loan, error)
	// SetStatus is a conditional update keyed on the expected current status.
	// It returns ErrOptimisticLock when zero rows match, which serializes
	// concurrent refinance attempts: the second writer sees the loan already
	// REFINANCED and fails instead of double-spending the balance.
	SetStatus(ctx context.Context, loanID string, expected, next LoanStatus) error
	// Delete removes the loan and cascades to its payments and charges.
	Delete(ctx context.Context, id string) error
}

type PaymentRepository interface {
	Append(ctx context.Context, payment *Payment) error
	FindByLoanID(ctx context.Context, loanID string) ([]*Payment, error)
	// SumByLoanID is the running payment total the allocation engine consumes.
	SumByLoanID(ctx context.Context, loanID string) (decimal.Decimal, error)
}

type LateChargeRepository interface {
	// Append inserts the charge and adds its amount to the loan's
	// TotalPayable in the same transaction.
	Append(ctx context.Context, charge *LateCharge) error
	FindByLoanID(ctx context.Context, loanID string) ([]*LateCharge, error)
}

type FundWithdrawalRepository interface {
	Append(ctx context.Context, withdrawal *FundWithdrawal) error
	SumAll(ctx context.Context) (decimal.Decimal, error)
}

// PaymentReportRow joins one payment with the terms of its loan, the shape the
// interest-gain proration works from.
type PaymentReportRow struct {
	Amount         decimal.Decimal
	Principal      decimal.Decimal
	TotalPayable   decimal.Decimal
	Insurance      bool
	DurationMonths int
}

// ClientBalanceRow is one line of the per-client balances report.
type ClientBalanceRow struct {
	ClientID    string
	ClientName  string
	TotalLoaned decimal.Decimal
	TotalAgreed decimal.Decimal
	TotalPaid   decimal.Decimal
}

// PortfolioExportRow is one line of the CSV portfolio export.
type PortfolioExportRow struct {
	ClientName   string
	NationalID   string
	Phone        string
	LoanID       string
	Principal    decimal.Decimal
	TotalPayable decimal.Decimal
	TotalPaid    decimal.Decimal
	StartDate    string
	Status       string
}

type ReportRepository interface {
	TotalPrincipal(ctx context.Context) (decimal.Decimal, error)
	TotalCollected(ctx context.Context) (decimal.Decimal, error)
	CollectedOnInsuredLoans(ctx context.Context) (decimal.Decimal, error)
	PaymentRows(ctx context.Context) ([]PaymentReportRow, error)
	ClientBalances(ctx context.Context) ([]ClientBalanceRow, error)
	PortfolioRows(ctx context.Context) ([]PortfolioExportRow, error)
}
