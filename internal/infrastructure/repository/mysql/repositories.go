package sqlrepository

import (
	"errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/prestaledger/lending-service/internal/domain"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrLoanNotFound   = errors.New("loan not found")
)

type Repositories struct {
	Client     domain.ClientRepository
	Loan       domain.LoanRepository
	Payment    domain.PaymentRepository
	LateCharge domain.LateChargeRepository
	Fund       domain.FundWithdrawalRepository
	Report     domain.ReportRepository
}

func NewRepositories(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	return &Repositories{
		Client:     NewClientRepository(db, logger),
		Loan:       NewLoanRepository(db, redisClient, logger),
		Payment:    NewPaymentRepository(db, logger),
		LateCharge: NewLateChargeRepository(db, redisClient, logger),
		Fund:       NewFundWithdrawalRepository(db, logger),
		Report:     NewReportRepository(db, logger),
	}
}
