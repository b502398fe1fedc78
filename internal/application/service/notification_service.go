package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

// NotificationService turns loan events into borrower notifications. The
// delivery channel is a log line for now; the handlers are where an SMS or
// email gateway would plug in.
type NotificationService struct {
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

func (s *NotificationService) HandlePaymentRecorded(ctx context.Context, event domain.DomainEvent) error {
	payload, ok := event.GetPayload().(domain.PaymentRecordedPayload)
	if !ok {
		s.logger.Warn("unexpected payload on payment event",
			zap.String("event_id", event.GetEventID()),
		)
		return domain.ErrInvalidEvent
	}

	if payload.FullyPaid {
		s.logger.Info("notify: loan fully paid",
			zap.String("client_id", payload.ClientID),
			zap.String("loan_id", payload.LoanID),
			zap.String("total_paid", payload.TotalPaid),
		)
		return nil
	}

	s.logger.Info("notify: payment received",
		zap.String("client_id", payload.ClientID),
		zap.String("loan_id", payload.LoanID),
		zap.String("amount", payload.Amount),
		zap.String("outstanding", payload.OutstandingBalance),
	)
	return nil
}

func (s *NotificationService) HandleLateChargeApplied(ctx context.Context, event domain.DomainEvent) error {
	payload, ok := event.GetPayload().(domain.LateChargeAppliedPayload)
	if !ok {
		s.logger.Warn("unexpected payload on late charge event",
			zap.String("event_id", event.GetEventID()),
		)
		return domain.ErrInvalidEvent
	}

	s.logger.Info("notify: late charge applied",
		zap.String("client_id", payload.ClientID),
		zap.String("loan_id", payload.LoanID),
		zap.String("amount", payload.Amount),
		zap.String("new_total_payable", payload.NewTotalPayable),
	)
	return nil
}

func (s *NotificationService) HandleLoanRefinanced(ctx context.Context, event domain.DomainEvent) error {
	payload, ok := event.GetPayload().(domain.LoanRefinancedPayload)
	if !ok {
		s.logger.Warn("unexpected payload on refinance event",
			zap.String("event_id", event.GetEventID()),
		)
		return domain.ErrInvalidEvent
	}

	s.logger.Info("notify: loan refinanced",
		zap.String("client_id", payload.ClientID),
		zap.String("closed_loan_id", payload.ClosedLoanID),
		zap.String("new_loan_id", payload.NewLoanID),
		zap.String("balance", payload.Balance),
	)
	return nil
}
