package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

// settledTolerance decides when an account-summary pass treats a loan as
// settled and skips it. Matches the dashboard behavior of skipping loans
// whose remaining debt is under half a unit.
var settledTolerance = decimal.NewFromFloat(0.5)

type LoanService struct {
	clientRepo     domain.ClientRepository
	loanRepo       domain.LoanRepository
	paymentRepo    domain.PaymentRepository
	chargeRepo     domain.LateChargeRepository
	eventPublisher domain.EventPublisher // Optional - can be nil
	logger         *zap.Logger
}

func NewLoanService(
	clientRepo domain.ClientRepository,
	loanRepo domain.LoanRepository,
	paymentRepo domain.PaymentRepository,
	chargeRepo domain.LateChargeRepository,
	eventPublisher domain.EventPublisher,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		clientRepo:     clientRepo,
		loanRepo:       loanRepo,
		paymentRepo:    paymentRepo,
		chargeRepo:     chargeRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

type CreateLoanRequest struct {
	ClientID       string
	Principal      decimal.Decimal
	MonthlyRate    decimal.Decimal
	DurationMonths int
	Frequency      domain.Frequency
	StartDate      time.Time
	Insurance      bool
}

func (s *LoanService) CreateLoan(ctx context.Context, req CreateLoanRequest) (*domain.Loan, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	loan, err := domain.NewLoan(req.ClientID, req.Principal, req.MonthlyRate, req.DurationMonths, req.Frequency, start, req.Insurance)
	if err != nil {
		s.logger.Info("rejected loan terms",
			zap.Error(err),
			zap.String("client_id", req.ClientID),
		)
		return nil, err
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.logger.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("client_id", loan.ClientID),
		zap.Int("installments", loan.InstallmentCount),
		zap.String("installment_amount", loan.InstallmentAmount.StringFixed(2)),
	)
	return loan, nil
}

// LoanAccount pairs a loan with its running payment total.
type LoanAccount struct {
	Loan        *domain.Loan
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
}

func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*LoanAccount, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	paid, err := s.paymentRepo.SumByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	return &LoanAccount{
		Loan:        loan,
		TotalPaid:   paid,
		Outstanding: loan.OutstandingBalance(paid),
	}, nil
}

func (s *LoanService) GetClientLoans(ctx context.Context, clientID string) ([]*LoanAccount, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	loans, err := s.loanRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}

	accounts := make([]*LoanAccount, 0, len(loans))
	for _, loan := range loans {
		paid, err := s.paymentRepo.SumByLoanID(ctx, loan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum payments: %w", err)
		}
		accounts = append(accounts, &LoanAccount{
			Loan:        loan,
			TotalPaid:   paid,
			Outstanding: loan.OutstandingBalance(paid),
		})
	}
	return accounts, nil
}

type RecordPaymentResult struct {
	Payment     *domain.Payment
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
	FullyPaid   bool
}

func (s *LoanService) RecordPayment(ctx context.Context, loanID string, amount decimal.Decimal, paidAt time.Time) (*RecordPaymentResult, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	if !loan.IsActive() {
		s.logger.Info("payment rejected on closed loan",
			zap.String("loan_id", loanID),
			zap.String("status", string(loan.Status)),
		)
		return nil, domain.ErrIllegalStateTransition
	}

	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment, err := domain.NewPayment(loanID, amount, paidAt)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Append(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to append payment: %w", err)
	}

	paid, err := s.paymentRepo.SumByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	outstanding := loan.OutstandingBalance(paid)

	s.logger.Info("payment recorded",
		zap.String("loan_id", loanID),
		zap.String("payment_id", payment.ID),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("outstanding", outstanding.StringFixed(2)),
	)

	if s.eventPublisher != nil {
		go s.publishPaymentRecorded(loan, payment, paid, outstanding)
	}

	return &RecordPaymentResult{
		Payment:     payment,
		TotalPaid:   paid,
		Outstanding: outstanding,
		FullyPaid:   outstanding.LessThan(settledTolerance),
	}, nil
}

func (s *LoanService) publishPaymentRecorded(loan *domain.Loan, payment *domain.Payment, paid, outstanding decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewPaymentRecordedEvent(loan.ID, domain.PaymentRecordedPayload{
		LoanID:             loan.ID,
		ClientID:           loan.ClientID,
		PaymentID:          payment.ID,
		Amount:             payment.Amount.StringFixed(2),
		TotalPaid:          paid.StringFixed(2),
		OutstandingBalance: outstanding.StringFixed(2),
		FullyPaid:          outstanding.LessThan(settledTolerance),
		RecordedAt:         payment.PaidAt,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payment recorded event",
			zap.Error(err),
			zap.String("loan_id", loan.ID),
			zap.String("event_id", event.GetEventID()),
		)
	}
}

func (s *LoanService) ApplyLateCharge(ctx context.Context, loanID string) (*domain.LateCharge, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	if !loan.IsActive() {
		return nil, domain.ErrIllegalStateTransition
	}

	charge, err := domain.NewLateCharge(loanID, loan.LateChargeAmount(), domain.LateChargeReasonPenalty, time.Now())
	if err != nil {
		return nil, err
	}

	// Append inserts the charge and grows total_payable atomically.
	if err := s.chargeRepo.Append(ctx, charge); err != nil {
		return nil, err
	}

	newTotal := loan.TotalPayable.Add(charge.Amount)
	s.logger.Info("late charge applied",
		zap.String("loan_id", loanID),
		zap.String("charge_id", charge.ID),
		zap.String("amount", charge.Amount.StringFixed(2)),
		zap.String("new_total_payable", newTotal.StringFixed(2)),
	)

	if s.eventPublisher != nil {
		go s.publishLateChargeApplied(loan, charge, newTotal)
	}

	return charge, nil
}

func (s *LoanService) publishLateChargeApplied(loan *domain.Loan, charge *domain.LateCharge, newTotal decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewLateChargeAppliedEvent(loan.ID, domain.LateChargeAppliedPayload{
		LoanID:          loan.ID,
		ClientID:        loan.ClientID,
		ChargeID:        charge.ID,
		Amount:          charge.Amount.StringFixed(2),
		Reason:          charge.Reason,
		NewTotalPayable: newTotal.StringFixed(2),
		AppliedAt:       charge.AppliedAt,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish late charge event",
			zap.Error(err),
			zap.String("loan_id", loan.ID),
			zap.String("event_id", event.GetEventID()),
		)
	}
}

type RefinanceRequest struct {
	MonthlyRate    decimal.Decimal
	DurationMonths int
	Frequency      domain.Frequency
	Insurance      bool
}

type RefinanceResult struct {
	ClosedLoanID string
	Balance      decimal.Decimal
	NewLoan      *domain.Loan
}

// Refinance closes an active loan at its current outstanding balance and
// opens an independent successor loan seeded with that balance as principal.
// The close is a conditional update keyed on status == ACTIVE, so a second
// concurrent refinance fails instead of double-spending the balance.
func (s *LoanService) Refinance(ctx context.Context, loanID string, req RefinanceRequest) (*RefinanceResult, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	if !loan.IsActive() {
		return nil, domain.ErrIllegalStateTransition
	}

	paid, err := s.paymentRepo.SumByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	balance := loan.OutstandingBalance(paid)

	newLoan, err := domain.NewLoan(loan.ClientID, balance, req.MonthlyRate, req.DurationMonths, req.Frequency, time.Now(), req.Insurance)
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.SetStatus(ctx, loanID, domain.LoanStatusActive, domain.LoanStatusRefinanced); err != nil {
		if err == domain.ErrOptimisticLock {
			s.logger.Warn("refinance lost the race, loan already closed",
				zap.String("loan_id", loanID),
			)
			return nil, domain.ErrIllegalStateTransition
		}
		return nil, fmt.Errorf("failed to close loan: %w", err)
	}

	if err := s.loanRepo.Create(ctx, newLoan); err != nil {
		return nil, fmt.Errorf("failed to create successor loan: %w", err)
	}

	s.logger.Info("loan refinanced",
		zap.String("closed_loan_id", loanID),
		zap.String("new_loan_id", newLoan.ID),
		zap.String("balance", balance.StringFixed(2)),
	)

	if s.eventPublisher != nil {
		go s.publishLoanRefinanced(loan, newLoan, balance)
	}

	return &RefinanceResult{
		ClosedLoanID: loanID,
		Balance:      balance,
		NewLoan:      newLoan,
	}, nil
}

func (s *LoanService) publishLoanRefinanced(closed, successor *domain.Loan, balance decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewLoanRefinancedEvent(closed.ID, domain.LoanRefinancedPayload{
		ClosedLoanID: closed.ID,
		NewLoanID:    successor.ID,
		ClientID:     closed.ClientID,
		Balance:      balance.StringFixed(2),
		RefinancedAt: time.Now(),
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish refinance event",
			zap.Error(err),
			zap.String("loan_id", closed.ID),
			zap.String("event_id", event.GetEventID()),
		)
	}
}

// ScheduleView is the full derived repayment view for one loan, rebuilt from
// scratch on every call.
type ScheduleView struct {
	Loan         *domain.Loan
	TotalPaid    decimal.Decimal
	Outstanding  decimal.Decimal
	Installments []domain.Installment
	NextDue      *domain.Installment
}

func (s *LoanService) GetSchedule(ctx context.Context, loanID string) (*ScheduleView, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	paid, err := s.paymentRepo.SumByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	installments, err := domain.ComputeSchedule(loan, paid)
	if err != nil {
		s.logger.Error("failed to compute schedule",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return nil, err
	}

	return &ScheduleView{
		Loan:         loan,
		TotalPaid:    paid,
		Outstanding:  loan.OutstandingBalance(paid),
		Installments: installments,
		NextDue:      domain.NextActionable(installments),
	}, nil
}

// LoanMovement is one row of a loan's audit history: a payment or a charge.
type LoanMovement struct {
	ID     string
	Kind   string // "PAYMENT" or the charge reason
	Amount decimal.Decimal
	At     time.Time
}

func (s *LoanService) GetMovements(ctx context.Context, loanID string) ([]LoanMovement, error) {
	payments, err := s.paymentRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	charges, err := s.chargeRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get charges: %w", err)
	}

	movements := make([]LoanMovement, 0, len(payments)+len(charges))
	for _, p := range payments {
		movements = append(movements, LoanMovement{ID: p.ID, Kind: "PAYMENT", Amount: p.Amount, At: p.PaidAt})
	}
	for _, c := range charges {
		movements = append(movements, LoanMovement{ID: c.ID, Kind: c.Reason, Amount: c.Amount, At: c.AppliedAt})
	}
	sort.Slice(movements, func(i, j int) bool {
		return movements[i].At.After(movements[j].At)
	})
	return movements, nil
}

// UpcomingPayment is the banner line shown on a client's account summary.
type UpcomingPayment struct {
	LoanID         string
	Number         int
	DueDate        time.Time
	Amount         decimal.Decimal
	CarriesLateFee bool
}

type AccountSummary struct {
	ClientID string
	Overdue  bool
	Next     *UpcomingPayment
}

// GetAccountSummary walks the client's active loans and picks the most urgent
// next-actionable installment: any installment carrying a live late fee wins
// over the first plain upcoming one.
func (s *LoanService) GetAccountSummary(ctx context.Context, clientID string) (*AccountSummary, error) {
	loans, err := s.loanRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}

	summary := &AccountSummary{ClientID: clientID}
	for _, loan := range loans {
		if !loan.IsActive() {
			continue
		}

		paid, err := s.paymentRepo.SumByLoanID(ctx, loan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum payments: %w", err)
		}
		if loan.OutstandingBalance(paid).LessThanOrEqual(settledTolerance) {
			continue
		}

		installments, err := domain.ComputeSchedule(loan, paid)
		if err != nil {
			return nil, err
		}
		next := domain.NextActionable(installments)
		if next == nil {
			continue
		}

		upcoming := &UpcomingPayment{
			LoanID:         loan.ID,
			Number:         next.Number,
			DueDate:        next.DueDate,
			Amount:         next.Amount,
			CarriesLateFee: next.CarriesLateFee,
		}
		if next.CarriesLateFee {
			summary.Overdue = true
			summary.Next = upcoming
			break
		}
		if summary.Next == nil {
			summary.Next = upcoming
		}
	}

	return summary, nil
}

func (s *LoanService) DeleteLoan(ctx context.Context, loanID string) error {
	if err := s.loanRepo.Delete(ctx, loanID); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return nil
}
