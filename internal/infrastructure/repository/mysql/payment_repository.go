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

type GORMPaymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db, logger: logger}
}

func (r *GORMPaymentRepository) Append(ctx context.Context, payment *domain.Payment) error {
	model := persistence.PaymentModelFromDomain(payment)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to append payment", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	r.logger.Debug("payment appended",
		zap.String("payment_id", payment.ID),
		zap.String("loan_id", payment.LoanID),
		zap.String("amount", payment.Amount.StringFixed(2)),
	)
	return nil
}

func (r *GORMPaymentRepository) FindByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	var models []persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query payments: %w", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i, model := range models {
		payments[i] = model.ToDomain()
	}
	return payments, nil
}

func (r *GORMPaymentRepository) SumByLoanID(ctx context.Context, loanID string) (decimal.Decimal, error) {
	var total decimal.Decimal

	row := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ?", loanID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, nil
}
