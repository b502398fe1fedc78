package sqlrepository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/prestaledger/lending-service/internal/domain"
	"github.com/prestaledger/lending-service/internal/infrastructure/persistence"
)

// GORMReportRepository serves the aggregate queries the reporting service
// reads. Everything here is read-only.
type GORMReportRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewReportRepository(db *gorm.DB, logger *zap.Logger) *GORMReportRepository {
	return &GORMReportRepository{db: db, logger: logger}
}

func (r *GORMReportRepository) TotalPrincipal(ctx context.Context) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &persistence.LoanModel{}, "principal")
}

func (r *GORMReportRepository) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &persistence.PaymentModel{}, "amount")
}

func (r *GORMReportRepository) CollectedOnInsuredLoans(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	row := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Select("COALESCE(SUM(payments.amount), 0)").
		Joins("JOIN loans ON loans.id = payments.loan_id").
		Where("loans.insurance = ?", true).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum insured collections: %w", err)
	}

	return total, nil
}

func (r *GORMReportRepository) PaymentRows(ctx context.Context) ([]domain.PaymentReportRow, error) {
	var rows []domain.PaymentReportRow

	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Select("payments.amount AS amount, loans.principal AS principal, loans.total_payable AS total_payable, loans.insurance AS insurance, loans.duration_months AS duration_months").
		Joins("JOIN loans ON loans.id = payments.loan_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query payment rows: %w", result.Error)
	}

	return rows, nil
}

func (r *GORMReportRepository) ClientBalances(ctx context.Context) ([]domain.ClientBalanceRow, error) {
	var rows []domain.ClientBalanceRow

	result := r.db.WithContext(ctx).
		Model(&persistence.ClientModel{}).
		Select(`clients.id AS client_id,
			clients.name AS client_name,
			COALESCE(SUM(loans.principal), 0) AS total_loaned,
			COALESCE(SUM(loans.total_payable), 0) AS total_agreed,
			COALESCE((SELECT SUM(p.amount) FROM payments p JOIN loans l ON l.id = p.loan_id WHERE l.client_id = clients.id), 0) AS total_paid`).
		Joins("LEFT JOIN loans ON loans.client_id = clients.id").
		Group("clients.id, clients.name").
		Order("clients.name ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query client balances: %w", result.Error)
	}

	return rows, nil
}

func (r *GORMReportRepository) PortfolioRows(ctx context.Context) ([]domain.PortfolioExportRow, error) {
	var rows []domain.PortfolioExportRow

	result := r.db.WithContext(ctx).
		Model(&persistence.LoanModel{}).
		Select(`clients.name AS client_name,
			clients.national_id AS national_id,
			clients.phone AS phone,
			loans.id AS loan_id,
			loans.principal AS principal,
			loans.total_payable AS total_payable,
			COALESCE(SUM(payments.amount), 0) AS total_paid,
			DATE_FORMAT(loans.start_date, '%Y-%m-%d') AS start_date,
			loans.status AS status`).
		Joins("JOIN clients ON clients.id = loans.client_id").
		Joins("LEFT JOIN payments ON payments.loan_id = loans.id").
		Group("loans.id, clients.name, clients.national_id, clients.phone").
		Order("clients.name ASC, loans.created_at ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query portfolio rows: %w", result.Error)
	}

	return rows, nil
}

func (r *GORMReportRepository) sumColumn(ctx context.Context, model interface{}, column string) (decimal.Decimal, error) {
	var total decimal.Decimal

	row := r.db.WithContext(ctx).
		Model(model).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", column, err)
	}

	return total, nil
}
