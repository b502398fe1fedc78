package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

var fundAccrualRate = decimal.NewFromFloat(0.02)

type ReportService struct {
	reportRepo domain.ReportRepository
	fundRepo   domain.FundWithdrawalRepository
	logger     *zap.Logger
}

func NewReportService(reportRepo domain.ReportRepository, fundRepo domain.FundWithdrawalRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		fundRepo:   fundRepo,
		logger:     logger,
	}
}

type PortfolioSummary struct {
	TotalLoaned      decimal.Decimal
	TotalCollected   decimal.Decimal
	InterestGain     decimal.Decimal
	InsuredCollected decimal.Decimal
	FundAccrued      decimal.Decimal
	FundWithdrawn    decimal.Decimal
	FundAvailable    decimal.Decimal
}

// GetPortfolioSummary aggregates the whole book. Interest gain and fund
// accrual are prorated per payment: each payment contributes its share of the
// loan's interest margin (totalPayable - principal) / totalPayable, and on
// insured loans its share of the agreed fund total, amount / totalPayable of
// principal * 2% * months. Partial payments therefore earn partial interest,
// not nothing and not everything up front.
func (s *ReportService) GetPortfolioSummary(ctx context.Context) (*PortfolioSummary, error) {
	totalLoaned, err := s.reportRepo.TotalPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum principals: %w", err)
	}
	totalCollected, err := s.reportRepo.TotalCollected(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum collections: %w", err)
	}
	insuredCollected, err := s.reportRepo.CollectedOnInsuredLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum insured collections: %w", err)
	}

	rows, err := s.reportRepo.PaymentRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment rows: %w", err)
	}

	interestGain := decimal.Zero
	fundAccrued := decimal.Zero
	for _, row := range rows {
		if !row.TotalPayable.IsPositive() {
			continue
		}
		share := row.Amount.Div(row.TotalPayable)
		margin := row.TotalPayable.Sub(row.Principal)
		interestGain = interestGain.Add(share.Mul(margin))
		if row.Insurance {
			months := decimal.NewFromInt(int64(row.DurationMonths))
			fundTotal := row.Principal.Mul(fundAccrualRate).Mul(months)
			fundAccrued = fundAccrued.Add(share.Mul(fundTotal))
		}
	}

	withdrawn, err := s.fundRepo.SumAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum fund withdrawals: %w", err)
	}

	return &PortfolioSummary{
		TotalLoaned:      totalLoaned.Round(2),
		TotalCollected:   totalCollected.Round(2),
		InterestGain:     interestGain.Round(2),
		InsuredCollected: insuredCollected.Round(2),
		FundAccrued:      fundAccrued.Round(2),
		FundWithdrawn:    withdrawn.Round(2),
		FundAvailable:    fundAccrued.Sub(withdrawn).Round(2),
	}, nil
}

func (s *ReportService) GetClientBalances(ctx context.Context) ([]domain.ClientBalanceRow, error) {
	rows, err := s.reportRepo.ClientBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load client balances: %w", err)
	}
	return rows, nil
}

// WithdrawFund draws against the accumulated insurance fund. The withdrawal
// is refused when it would take the fund below zero.
func (s *ReportService) WithdrawFund(ctx context.Context, amount decimal.Decimal) (*domain.FundWithdrawal, error) {
	withdrawal, err := domain.NewFundWithdrawal(amount)
	if err != nil {
		return nil, err
	}

	summary, err := s.GetPortfolioSummary(ctx)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(summary.FundAvailable) {
		s.logger.Info("fund withdrawal refused",
			zap.String("requested", amount.StringFixed(2)),
			zap.String("available", summary.FundAvailable.StringFixed(2)),
		)
		return nil, domain.ErrInsufficientFunds
	}

	if err := s.fundRepo.Append(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to append withdrawal: %w", err)
	}

	s.logger.Info("fund withdrawal recorded",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("amount", withdrawal.Amount.StringFixed(2)),
	)
	return withdrawal, nil
}

var portfolioCSVHeader = []string{
	"client_name", "national_id", "phone", "loan_id",
	"principal", "total_payable", "total_paid", "balance",
	"start_date", "status",
}

// ExportPortfolioCSV streams the full portfolio, one row per loan, to w.
func (s *ReportService) ExportPortfolioCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.reportRepo.PortfolioRows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load portfolio rows: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(portfolioCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.ClientName,
			row.NationalID,
			row.Phone,
			row.LoanID,
			row.Principal.StringFixed(2),
			row.TotalPayable.StringFixed(2),
			row.TotalPaid.StringFixed(2),
			row.TotalPayable.Sub(row.TotalPaid).StringFixed(2),
			row.StartDate,
			row.Status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
