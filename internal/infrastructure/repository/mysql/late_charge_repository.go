package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/prestaledger/lending-service/internal/domain"
	"github.com/prestaledger/lending-service/internal/infrastructure/persistence"
	redisrepository "github.com/prestaledger/lending-service/internal/infrastructure/repository/redis"
)

type GORMLateChargeRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisLoanRepository
	logger    *zap.Logger
}

func NewLateChargeRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMLateChargeRepository {
	return &GORMLateChargeRepository{
		db:        db,
		redisRepo: redisrepository.NewRedisLoanRepository(redisClient, 5*time.Minute),
		logger:    logger,
	}
}

// Append inserts the charge and grows the loan's total_payable in one
// transaction, so a view computed after the commit always sees both or
// neither. The loan must still be ACTIVE.
func (r *GORMLateChargeRepository) Append(ctx context.Context, charge *domain.LateCharge) error {
	// Stale cached terms would hide the new fee from the next view.
	if err := r.redisRepo.Delete(ctx, charge.LoanID); err != nil {
		r.logger.Warn("failed to invalidate loan cache before charge",
			zap.Error(err),
			zap.String("loan_id", charge.LoanID))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(persistence.LateChargeModelFromDomain(charge)).Error; err != nil {
			return err
		}

		result := tx.Model(&persistence.LoanModel{}).
			Where("id = ? AND status = ?", charge.LoanID, string(domain.LoanStatusActive)).
			Updates(map[string]interface{}{
				"total_payable": gorm.Expr("total_payable + ?", charge.Amount),
				"updated_at":    time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrIllegalStateTransition
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrIllegalStateTransition) {
			return err
		}
		r.logger.Error("failed to append late charge", zap.Error(err))
		return fmt.Errorf("database error: %w", err)
	}

	r.logger.Info("late charge appended",
		zap.String("charge_id", charge.ID),
		zap.String("loan_id", charge.LoanID),
		zap.String("amount", charge.Amount.StringFixed(2)),
		zap.String("reason", charge.Reason),
	)
	return nil
}

func (r *GORMLateChargeRepository) FindByLoanID(ctx context.Context, loanID string) ([]*domain.LateCharge, error) {
	var models []persistence.LateChargeModel

	result := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("applied_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query late charges: %w", result.Error)
	}

	charges := make([]*domain.LateCharge, len(models))
	for i, model := range models {
		charges[i] = model.ToDomain()
	}
	return charges, nil
}
