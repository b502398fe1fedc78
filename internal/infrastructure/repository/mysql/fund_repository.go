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

type GORMFundWithdrawalRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewFundWithdrawalRepository(db *gorm.DB, logger *zap.Logger) *GORMFundWithdrawalRepository {
	return &GORMFundWithdrawalRepository{db: db, logger: logger}
}

func (r *GORMFundWithdrawalRepository) Append(ctx context.Context, withdrawal *domain.FundWithdrawal) error {
	model := persistence.FundWithdrawalModelFromDomain(withdrawal)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to append fund withdrawal", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	r.logger.Info("fund withdrawal recorded",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("amount", withdrawal.Amount.StringFixed(2)),
	)
	return nil
}

func (r *GORMFundWithdrawalRepository) SumAll(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	row := r.db.WithContext(ctx).
		Model(&persistence.FundWithdrawalModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum withdrawals: %w", err)
	}

	return total, nil
}
