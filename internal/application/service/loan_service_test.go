package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

func newLoanService(
	clients *MockClientRepository,
	loans *MockLoanRepository,
	payments *MockPaymentRepository,
	charges *MockLateChargeRepository,
) *LoanService {
	return NewLoanService(clients, loans, payments, charges, nil, zap.NewNop())
}

func activeLoan(t *testing.T) *domain.Loan {
	t.Helper()
	loan, err := domain.NewLoan(
		"client-1",
		decimal.NewFromInt(10000),
		decimal.NewFromInt(10),
		3,
		domain.FrequencyMonthly,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		false,
	)
	assert.NoError(t, err)
	loan.ID = "loan-1"
	return loan
}

func TestCreateLoan(t *testing.T) {
	clients := new(MockClientRepository)
	loans := new(MockLoanRepository)
	svc := newLoanService(clients, loans, new(MockPaymentRepository), new(MockLateChargeRepository))

	clients.On("FindByID", mock.Anything, "client-1").Return(&domain.Client{ID: "client-1", Name: "Ana"}, nil)
	loans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	loan, err := svc.CreateLoan(context.Background(), CreateLoanRequest{
		ClientID:       "client-1",
		Principal:      decimal.NewFromInt(10000),
		MonthlyRate:    decimal.NewFromInt(10),
		DurationMonths: 3,
		Frequency:      domain.FrequencyMonthly,
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, loan.InstallmentCount)
	assert.Equal(t, "4333.33", loan.InstallmentAmount.StringFixed(2))
	assert.Equal(t, "12999.99", loan.TotalPayable.StringFixed(2))
	clients.AssertExpectations(t)
	loans.AssertExpectations(t)
}

func TestCreateLoanUnknownClient(t *testing.T) {
	clients := new(MockClientRepository)
	svc := newLoanService(clients, new(MockLoanRepository), new(MockPaymentRepository), new(MockLateChargeRepository))

	clients.On("FindByID", mock.Anything, "ghost").Return(nil, assert.AnError)

	_, err := svc.CreateLoan(context.Background(), CreateLoanRequest{
		ClientID:       "ghost",
		Principal:      decimal.NewFromInt(1000),
		MonthlyRate:    decimal.NewFromInt(5),
		DurationMonths: 2,
		Frequency:      domain.FrequencyWeekly,
	})

	assert.Error(t, err)
}

func TestCreateLoanRejectsBadTerms(t *testing.T) {
	clients := new(MockClientRepository)
	svc := newLoanService(clients, new(MockLoanRepository), new(MockPaymentRepository), new(MockLateChargeRepository))

	clients.On("FindByID", mock.Anything, "client-1").Return(&domain.Client{ID: "client-1"}, nil)

	_, err := svc.CreateLoan(context.Background(), CreateLoanRequest{
		ClientID:       "client-1",
		Principal:      decimal.NewFromInt(-50),
		MonthlyRate:    decimal.NewFromInt(5),
		DurationMonths: 2,
		Frequency:      domain.FrequencyWeekly,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTerms)
}

func TestRecordPayment(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	loan := activeLoan(t)
	loans.On("FindByID", mock.Anything, "loan-1").Return(loan, nil)
	payments.On("Append", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(decimal.NewFromFloat(4333.33), nil)

	result, err := svc.RecordPayment(context.Background(), "loan-1", decimal.NewFromFloat(4333.33), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "4333.33", result.TotalPaid.StringFixed(2))
	assert.Equal(t, "8666.66", result.Outstanding.StringFixed(2))
	assert.False(t, result.FullyPaid)
	payments.AssertExpectations(t)
}

func TestRecordPaymentOnRefinancedLoan(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	loan := activeLoan(t)
	loan.Status = domain.LoanStatusRefinanced
	loans.On("FindByID", mock.Anything, "loan-1").Return(loan, nil)

	_, err := svc.RecordPayment(context.Background(), "loan-1", decimal.NewFromInt(100), time.Now())

	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)
	payments.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	loans := new(MockLoanRepository)
	svc := newLoanService(new(MockClientRepository), loans, new(MockPaymentRepository), new(MockLateChargeRepository))

	loans.On("FindByID", mock.Anything, "loan-1").Return(activeLoan(t), nil)

	_, err := svc.RecordPayment(context.Background(), "loan-1", decimal.Zero, time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}

func TestRecordPaymentSettlesLoan(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	loan := activeLoan(t)
	loans.On("FindByID", mock.Anything, "loan-1").Return(loan, nil)
	payments.On("Append", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(loan.TotalPayable, nil)

	result, err := svc.RecordPayment(context.Background(), "loan-1", loan.TotalPayable, time.Now())

	assert.NoError(t, err)
	assert.True(t, result.FullyPaid)
	assert.Equal(t, "0.00", result.Outstanding.StringFixed(2))
}

func TestApplyLateCharge(t *testing.T) {
	loans := new(MockLoanRepository)
	charges := new(MockLateChargeRepository)
	svc := newLoanService(new(MockClientRepository), loans, new(MockPaymentRepository), charges)

	loans.On("FindByID", mock.Anything, "loan-1").Return(activeLoan(t), nil)
	charges.On("Append", mock.Anything, mock.AnythingOfType("*domain.LateCharge")).Return(nil)

	charge, err := svc.ApplyLateCharge(context.Background(), "loan-1")

	assert.NoError(t, err)
	assert.Equal(t, "130.00", charge.Amount.StringFixed(2))
	assert.Equal(t, domain.LateChargeReasonPenalty, charge.Reason)
	charges.AssertExpectations(t)
}

func TestApplyLateChargeOnClosedLoan(t *testing.T) {
	loans := new(MockLoanRepository)
	charges := new(MockLateChargeRepository)
	svc := newLoanService(new(MockClientRepository), loans, new(MockPaymentRepository), charges)

	loan := activeLoan(t)
	loan.Status = domain.LoanStatusRefinanced
	loans.On("FindByID", mock.Anything, "loan-1").Return(loan, nil)

	_, err := svc.ApplyLateCharge(context.Background(), "loan-1")

	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)
	charges.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestRefinance(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	loan := activeLoan(t)
	loans.On("FindByID", mock.Anything, "loan-1").Return(loan, nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(decimal.NewFromFloat(4333.33), nil)
	loans.On("SetStatus", mock.Anything, "loan-1", domain.LoanStatusActive, domain.LoanStatusRefinanced).Return(nil)
	loans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	result, err := svc.Refinance(context.Background(), "loan-1", RefinanceRequest{
		MonthlyRate:    decimal.NewFromInt(8),
		DurationMonths: 6,
		Frequency:      domain.FrequencyMonthly,
	})

	assert.NoError(t, err)
	assert.Equal(t, "8666.66", result.Balance.StringFixed(2))
	assert.Equal(t, "8666.66", result.NewLoan.Principal.StringFixed(2))
	assert.Equal(t, domain.LoanStatusActive, result.NewLoan.Status)
	assert.NotEqual(t, "loan-1", result.NewLoan.ID)
	loans.AssertExpectations(t)
}

func TestRefinanceLosesRace(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	loans.On("FindByID", mock.Anything, "loan-1").Return(activeLoan(t), nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(decimal.Zero, nil)
	loans.On("SetStatus", mock.Anything, "loan-1", domain.LoanStatusActive, domain.LoanStatusRefinanced).
		Return(domain.ErrOptimisticLock)

	_, err := svc.Refinance(context.Background(), "loan-1", RefinanceRequest{
		MonthlyRate:    decimal.NewFromInt(8),
		DurationMonths: 6,
		Frequency:      domain.FrequencyMonthly,
	})

	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)
	loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRefinanceOnAlreadyClosedLoan(t *testing.T) {
	loans := new(MockLoanRepository)
	svc := newLoanService(new(MockClientRepository), loans, new(MockPaymentRepository), new(MockLateChargeRepository))

	loan := activeLoan(t)
	loan.Status = domain.LoanStatusRefinanced
	loans.On("FindByID", mock.Anything, "loan-1").Return(loan, nil)

	_, err := svc.Refinance(context.Background(), "loan-1", RefinanceRequest{
		MonthlyRate:    decimal.NewFromInt(8),
		DurationMonths: 6,
		Frequency:      domain.FrequencyMonthly,
	})

	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)
}

func TestGetSchedule(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	loans.On("FindByID", mock.Anything, "loan-1").Return(activeLoan(t), nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(decimal.NewFromFloat(4333.33), nil)

	view, err := svc.GetSchedule(context.Background(), "loan-1")

	assert.NoError(t, err)
	assert.Len(t, view.Installments, 3)
	assert.Equal(t, domain.InstallmentPaid, view.Installments[0].Status)
	assert.NotNil(t, view.NextDue)
	assert.Equal(t, 2, view.NextDue.Number)
	assert.Equal(t, "8666.66", view.Outstanding.StringFixed(2))
}

func TestGetAccountSummarySkipsSettledLoans(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, new(MockLateChargeRepository))

	settled := activeLoan(t)
	open := activeLoan(t)
	open.ID = "loan-2"
	loans.On("FindByClientID", mock.Anything, "client-1").Return([]*domain.Loan{settled, open}, nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(settled.TotalPayable, nil)
	payments.On("SumByLoanID", mock.Anything, "loan-2").Return(decimal.Zero, nil)

	summary, err := svc.GetAccountSummary(context.Background(), "client-1")

	assert.NoError(t, err)
	assert.False(t, summary.Overdue)
	assert.NotNil(t, summary.Next)
	assert.Equal(t, "loan-2", summary.Next.LoanID)
	assert.Equal(t, 1, summary.Next.Number)
}

func TestGetAccountSummaryFlagsOverdue(t *testing.T) {
	loans := new(MockLoanRepository)
	payments := new(MockPaymentRepository)
	charges := new(MockLateChargeRepository)
	svc := newLoanService(new(MockClientRepository), loans, payments, charges)

	loan := activeLoan(t)
	// A late charge has grown TotalPayable past installments * amount, so the
	// current installment carries a live fee.
	loan.TotalPayable = loan.TotalPayable.Add(loan.LateChargeAmount())
	loans.On("FindByClientID", mock.Anything, "client-1").Return([]*domain.Loan{loan}, nil)
	payments.On("SumByLoanID", mock.Anything, "loan-1").Return(decimal.Zero, nil)

	summary, err := svc.GetAccountSummary(context.Background(), "client-1")

	assert.NoError(t, err)
	assert.True(t, summary.Overdue)
	assert.NotNil(t, summary.Next)
	assert.True(t, summary.Next.CarriesLateFee)
	assert.Equal(t, "4463.33", summary.Next.Amount.StringFixed(2))
}
