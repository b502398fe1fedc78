package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestPortfolioSummaryProration(t *testing.T) {
	reports := new(MockReportRepository)
	fund := new(MockFundWithdrawalRepository)
	svc := NewReportService(reports, fund, zap.NewNop())

	// One insured loan: 10000 at 10% x 3 months, totalPayable 12999.99,
	// half collected. Interest margin 2999.99, fund total 600.
	rows := []domain.PaymentReportRow{
		{
			Amount:         money("6499.995"),
			Principal:      money("10000"),
			TotalPayable:   money("12999.99"),
			Insurance:      true,
			DurationMonths: 3,
		},
	}
	reports.On("TotalPrincipal", mock.Anything).Return(money("10000"), nil)
	reports.On("TotalCollected", mock.Anything).Return(money("6499.99"), nil)
	reports.On("CollectedOnInsuredLoans", mock.Anything).Return(money("6499.99"), nil)
	reports.On("PaymentRows", mock.Anything).Return(rows, nil)
	fund.On("SumAll", mock.Anything).Return(money("100"), nil)

	summary, err := svc.GetPortfolioSummary(context.Background())

	assert.NoError(t, err)
	// Half the payable collected earns half the margin and half the fund.
	assert.Equal(t, "1500.00", summary.InterestGain.StringFixed(2))
	assert.Equal(t, "300.00", summary.FundAccrued.StringFixed(2))
	assert.Equal(t, "100.00", summary.FundWithdrawn.StringFixed(2))
	assert.Equal(t, "200.00", summary.FundAvailable.StringFixed(2))
}

func TestPortfolioSummarySkipsUninsuredFund(t *testing.T) {
	reports := new(MockReportRepository)
	fund := new(MockFundWithdrawalRepository)
	svc := NewReportService(reports, fund, zap.NewNop())

	rows := []domain.PaymentReportRow{
		{
			Amount:         money("1000"),
			Principal:      money("1000"),
			TotalPayable:   money("1000"),
			Insurance:      false,
			DurationMonths: 2,
		},
	}
	reports.On("TotalPrincipal", mock.Anything).Return(money("1000"), nil)
	reports.On("TotalCollected", mock.Anything).Return(money("1000"), nil)
	reports.On("CollectedOnInsuredLoans", mock.Anything).Return(decimal.Zero, nil)
	reports.On("PaymentRows", mock.Anything).Return(rows, nil)
	fund.On("SumAll", mock.Anything).Return(decimal.Zero, nil)

	summary, err := svc.GetPortfolioSummary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "0.00", summary.InterestGain.StringFixed(2))
	assert.Equal(t, "0.00", summary.FundAccrued.StringFixed(2))
}

func TestWithdrawFundRefusedWhenOverdrawn(t *testing.T) {
	reports := new(MockReportRepository)
	fund := new(MockFundWithdrawalRepository)
	svc := NewReportService(reports, fund, zap.NewNop())

	reports.On("TotalPrincipal", mock.Anything).Return(decimal.Zero, nil)
	reports.On("TotalCollected", mock.Anything).Return(decimal.Zero, nil)
	reports.On("CollectedOnInsuredLoans", mock.Anything).Return(decimal.Zero, nil)
	reports.On("PaymentRows", mock.Anything).Return([]domain.PaymentReportRow{}, nil)
	fund.On("SumAll", mock.Anything).Return(decimal.Zero, nil)

	_, err := svc.WithdrawFund(context.Background(), money("50"))

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	fund.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestWithdrawFundWithinBalance(t *testing.T) {
	reports := new(MockReportRepository)
	fund := new(MockFundWithdrawalRepository)
	svc := NewReportService(reports, fund, zap.NewNop())

	rows := []domain.PaymentReportRow{
		{
			Amount:         money("12999.99"),
			Principal:      money("10000"),
			TotalPayable:   money("12999.99"),
			Insurance:      true,
			DurationMonths: 3,
		},
	}
	reports.On("TotalPrincipal", mock.Anything).Return(money("10000"), nil)
	reports.On("TotalCollected", mock.Anything).Return(money("12999.99"), nil)
	reports.On("CollectedOnInsuredLoans", mock.Anything).Return(money("12999.99"), nil)
	reports.On("PaymentRows", mock.Anything).Return(rows, nil)
	fund.On("SumAll", mock.Anything).Return(decimal.Zero, nil)
	fund.On("Append", mock.Anything, mock.AnythingOfType("*domain.FundWithdrawal")).Return(nil)

	withdrawal, err := svc.WithdrawFund(context.Background(), money("250"))

	assert.NoError(t, err)
	assert.Equal(t, "250.00", withdrawal.Amount.StringFixed(2))
	fund.AssertExpectations(t)
}

func TestExportPortfolioCSV(t *testing.T) {
	reports := new(MockReportRepository)
	svc := NewReportService(reports, new(MockFundWithdrawalRepository), zap.NewNop())

	reports.On("PortfolioRows", mock.Anything).Return([]domain.PortfolioExportRow{
		{
			ClientName:   "Ana Perez",
			NationalID:   "001-123",
			Phone:        "555-0101",
			LoanID:       "loan-1",
			Principal:    money("10000"),
			TotalPayable: money("12999.99"),
			TotalPaid:    money("4333.33"),
			StartDate:    "2024-01-01",
			Status:       "ACTIVE",
		},
	}, nil)

	var buf bytes.Buffer
	err := svc.ExportPortfolioCSV(context.Background(), &buf)

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "client_name,national_id,phone,loan_id")
	assert.Contains(t, out, "Ana Perez,001-123,555-0101,loan-1,10000.00,12999.99,4333.33,8666.66,2024-01-01,ACTIVE")
}
