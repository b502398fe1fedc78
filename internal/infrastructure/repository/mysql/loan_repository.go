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

type GORMLoanRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisLoanRepository
	logger    *zap.Logger
}

func NewLoanRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMLoanRepository {
	return &GORMLoanRepository{
		db:        db,
		redisRepo: redisrepository.NewRedisLoanRepository(redisClient, 5*time.Minute),
		logger:    logger,
	}
}

func (r *GORMLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	model := persistence.LoanModelFromDomain(loan)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create loan", zap.Error(result.Error))
		return fmt.Errorf("failed to create loan: %w", result.Error)
	}

	r.logger.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("client_id", loan.ClientID),
		zap.String("principal", loan.Principal.StringFixed(2)),
		zap.String("total_payable", loan.TotalPayable.StringFixed(2)),
	)
	return nil
}

func (r *GORMLoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	cached, err := r.redisRepo.FindByID(ctx, id)
	if err == nil {
		r.logger.Debug("loan cache hit", zap.String("loan_id", id))
		return cached, nil
	}

	r.logger.Debug("loan cache miss, querying MySQL", zap.String("loan_id", id))

	var model persistence.LoanModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		r.logger.Error("failed to query loan", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	loan := model.ToDomain()

	// Refill cache asynchronously
	go r.redisRepo.Save(context.Background(), loan)

	return loan, nil
}

func (r *GORMLoanRepository) FindByClientID(ctx context.Context, clientID string) ([]*domain.Loan, error) {
	var models []persistence.LoanModel

	result := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("status ASC, created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query loans: %w", result.Error)
	}

	loans := make([]*domain.Loan, len(models))
	for i, model := range models {
		loans[i] = model.ToDomain()
	}
	return loans, nil
}

// SetStatus flips the loan status only when the stored status still equals
// expected. The refinance flow relies on this: of two concurrent attempts,
// exactly one sees RowsAffected == 1; the other gets ErrOptimisticLock.
func (r *GORMLoanRepository) SetStatus(ctx context.Context, loanID string, expected, next domain.LoanStatus) error {
	// Invalidate cache before the write so concurrent readers refetch.
	if err := r.redisRepo.Delete(ctx, loanID); err != nil {
		r.logger.Warn("failed to invalidate loan cache before status update",
			zap.Error(err),
			zap.String("loan_id", loanID))
	}

	result := r.db.WithContext(ctx).
		Model(&persistence.LoanModel{}).
		Where("id = ? AND status = ?", loanID, string(expected)).
		Updates(map[string]interface{}{
			"status":     string(next),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update loan status", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOptimisticLock
	}

	r.logger.Info("loan status updated",
		zap.String("loan_id", loanID),
		zap.String("from", string(expected)),
		zap.String("to", string(next)),
	)
	return nil
}

func (r *GORMLoanRepository) Delete(ctx context.Context, id string) error {
	if err := r.redisRepo.Delete(ctx, id); err != nil {
		r.logger.Warn("failed to invalidate loan cache before delete", zap.Error(err))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&persistence.PaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", id).Delete(&persistence.LateChargeModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&persistence.LoanModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLoanNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			return err
		}
		r.logger.Error("failed to delete loan", zap.Error(err), zap.String("loan_id", id))
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	r.logger.Info("loan deleted with cascade", zap.String("loan_id", id))
	return nil
}
