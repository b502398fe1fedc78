package redisrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/prestaledger/lending-service/internal/domain"
)

var ErrLoanNotCached = errors.New("loan not in cache")

// RedisLoanRepository is a read-through cache in front of the relational loan
// store. Loans are small and read on every schedule view, so they cache well;
// payments and charges are never cached because only their live sum matters.
type RedisLoanRepository struct {
	client   *redis.Client
	cacheTTL time.Duration
}

func NewRedisLoanRepository(client *redis.Client, cacheTTL time.Duration) *RedisLoanRepository {
	return &RedisLoanRepository{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (r *RedisLoanRepository) FindByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	data, err := r.client.Get(ctx, r.loanKey(loanID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrLoanNotCached
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	var loan domain.Loan
	if err := json.Unmarshal(data, &loan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal loan: %w", err)
	}

	return &loan, nil
}

func (r *RedisLoanRepository) Save(ctx context.Context, loan *domain.Loan) error {
	data, err := json.Marshal(loan)
	if err != nil {
		return fmt.Errorf("failed to marshal loan: %w", err)
	}

	if err := r.client.Set(ctx, r.loanKey(loan.ID), data, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}

	return nil
}

func (r *RedisLoanRepository) Delete(ctx context.Context, loanID string) error {
	if err := r.client.Del(ctx, r.loanKey(loanID)).Err(); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return nil
}

func (r *RedisLoanRepository) loanKey(loanID string) string {
	return fmt.Sprintf("loan:%s", loanID)
}
