package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/prestaledger/lending-service/internal/domain"
	"github.com/prestaledger/lending-service/internal/infrastructure/persistence"
)

type GORMClientRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewClientRepository(db *gorm.DB, logger *zap.Logger) *GORMClientRepository {
	return &GORMClientRepository{db: db, logger: logger}
}

func (r *GORMClientRepository) Create(ctx context.Context, client *domain.Client) error {
	model := persistence.ClientModelFromDomain(client)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create client", zap.Error(result.Error))
		return fmt.Errorf("failed to create client: %w", result.Error)
	}

	r.logger.Info("client created", zap.String("client_id", client.ID))
	return nil
}

func (r *GORMClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var model persistence.ClientModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		r.logger.Error("failed to query client", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMClientRepository) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	var model persistence.ClientModel

	result := r.db.WithContext(ctx).First(&model, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMClientRepository) Search(ctx context.Context, query string) ([]*domain.Client, error) {
	var models []persistence.ClientModel

	tx := r.db.WithContext(ctx).Order("name ASC")
	if query != "" {
		tx = tx.Where("name LIKE ?", "%"+query+"%")
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}

	clients := make([]*domain.Client, len(models))
	for i, model := range models {
		clients[i] = model.ToDomain()
	}
	return clients, nil
}

func (r *GORMClientRepository) Update(ctx context.Context, client *domain.Client) error {
	result := r.db.WithContext(ctx).
		Model(&persistence.ClientModel{}).
		Where("id = ?", client.ID).
		Updates(map[string]interface{}{
			"name":        client.Name,
			"national_id": client.NationalID,
			"phone":       client.Phone,
			"pin":         client.PIN,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update client", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

// Delete removes the client together with every loan it owns and each loan's
// payment and charge logs, in one transaction.
func (r *GORMClientRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loanIDs := tx.Model(&persistence.LoanModel{}).Select("id").Where("client_id = ?", id)

		if err := tx.Where("loan_id IN (?)", loanIDs).Delete(&persistence.PaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id IN (?)", loanIDs).Delete(&persistence.LateChargeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&persistence.LoanModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&persistence.ClientModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrClientNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return err
		}
		r.logger.Error("failed to delete client", zap.Error(err), zap.String("client_id", id))
		return fmt.Errorf("failed to delete client: %w", err)
	}

	r.logger.Info("client deleted with cascade", zap.String("client_id", id))
	return nil
}
