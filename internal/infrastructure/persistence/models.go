package persistence

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaledger/lending-service/internal/domain"
)

// ClientModel represents the database schema for clients
type ClientModel struct {
	ID         string `gorm:"primaryKey;type:varchar(50)"`
	Name       string `gorm:"type:varchar(120);uniqueIndex;not null"`
	NationalID string `gorm:"type:varchar(40)"`
	Phone      string `gorm:"type:varchar(30)"`
	PIN        string `gorm:"column:pin;type:varchar(8);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ClientModel) TableName() string {
	return "clients"
}

func (m *ClientModel) ToDomain() *domain.Client {
	return &domain.Client{
		ID:         m.ID,
		Name:       m.Name,
		NationalID: m.NationalID,
		Phone:      m.Phone,
		PIN:        m.PIN,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ClientModelFromDomain(client *domain.Client) *ClientModel {
	return &ClientModel{
		ID:         client.ID,
		Name:       client.Name,
		NationalID: client.NationalID,
		Phone:      client.Phone,
		PIN:        client.PIN,
		CreatedAt:  client.CreatedAt,
		UpdatedAt:  client.UpdatedAt,
	}
}

// LoanModel represents the database schema for loans
type LoanModel struct {
	ID                string          `gorm:"primaryKey;type:varchar(50)"`
	ClientID          string          `gorm:"type:varchar(50);not null;index"`
	Principal         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MonthlyRate       decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	DurationMonths    int             `gorm:"not null"`
	Frequency         string          `gorm:"type:varchar(10);not null"`
	InstallmentCount  int             `gorm:"not null"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalPayable      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	StartDate         time.Time       `gorm:"not null"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	Insurance         bool            `gorm:"not null;default:false"`
	Version           int64           `gorm:"not null;default:1"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`
}

func (LoanModel) TableName() string {
	return "loans"
}

func (m *LoanModel) ToDomain() *domain.Loan {
	return &domain.Loan{
		ID:                m.ID,
		ClientID:          m.ClientID,
		Principal:         m.Principal,
		MonthlyRate:       m.MonthlyRate,
		DurationMonths:    m.DurationMonths,
		Frequency:         domain.Frequency(m.Frequency),
		InstallmentCount:  m.InstallmentCount,
		InstallmentAmount: m.InstallmentAmount,
		TotalPayable:      m.TotalPayable,
		StartDate:         m.StartDate,
		Status:            domain.LoanStatus(m.Status),
		Insurance:         m.Insurance,
		Version:           m.Version,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func LoanModelFromDomain(loan *domain.Loan) *LoanModel {
	return &LoanModel{
		ID:                loan.ID,
		ClientID:          loan.ClientID,
		Principal:         loan.Principal,
		MonthlyRate:       loan.MonthlyRate,
		DurationMonths:    loan.DurationMonths,
		Frequency:         string(loan.Frequency),
		InstallmentCount:  loan.InstallmentCount,
		InstallmentAmount: loan.InstallmentAmount,
		TotalPayable:      loan.TotalPayable,
		StartDate:         loan.StartDate,
		Status:            string(loan.Status),
		Insurance:         loan.Insurance,
		Version:           loan.Version,
		CreatedAt:         loan.CreatedAt,
		UpdatedAt:         loan.UpdatedAt,
	}
}

// PaymentModel represents the database schema for the append-only payment log
type PaymentModel struct {
	ID        string          `gorm:"primaryKey;type:varchar(50)"`
	LoanID    string          `gorm:"type:varchar(50);not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaidAt    time.Time       `gorm:"not null;index"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (m *PaymentModel) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:        m.ID,
		LoanID:    m.LoanID,
		Amount:    m.Amount,
		PaidAt:    m.PaidAt,
		CreatedAt: m.CreatedAt,
	}
}

func PaymentModelFromDomain(payment *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:        payment.ID,
		LoanID:    payment.LoanID,
		Amount:    payment.Amount,
		PaidAt:    payment.PaidAt,
		CreatedAt: payment.CreatedAt,
	}
}

// LateChargeModel represents the database schema for the append-only charge log
type LateChargeModel struct {
	ID        string          `gorm:"primaryKey;type:varchar(50)"`
	LoanID    string          `gorm:"type:varchar(50);not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Reason    string          `gorm:"type:varchar(60);not null"`
	AppliedAt time.Time       `gorm:"not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (LateChargeModel) TableName() string {
	return "late_charges"
}

func (m *LateChargeModel) ToDomain() *domain.LateCharge {
	return &domain.LateCharge{
		ID:        m.ID,
		LoanID:    m.LoanID,
		Amount:    m.Amount,
		Reason:    m.Reason,
		AppliedAt: m.AppliedAt,
		CreatedAt: m.CreatedAt,
	}
}

func LateChargeModelFromDomain(charge *domain.LateCharge) *LateChargeModel {
	return &LateChargeModel{
		ID:        charge.ID,
		LoanID:    charge.LoanID,
		Amount:    charge.Amount,
		Reason:    charge.Reason,
		AppliedAt: charge.AppliedAt,
		CreatedAt: charge.CreatedAt,
	}
}

// FundWithdrawalModel represents the database schema for insurance-fund drawdowns
type FundWithdrawalModel struct {
	ID          string          `gorm:"primaryKey;type:varchar(50)"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	WithdrawnAt time.Time       `gorm:"not null"`
}

func (FundWithdrawalModel) TableName() string {
	return "fund_withdrawals"
}

func (m *FundWithdrawalModel) ToDomain() *domain.FundWithdrawal {
	return &domain.FundWithdrawal{
		ID:          m.ID,
		Amount:      m.Amount,
		WithdrawnAt: m.WithdrawnAt,
	}
}

func FundWithdrawalModelFromDomain(w *domain.FundWithdrawal) *FundWithdrawalModel {
	return &FundWithdrawalModel{
		ID:          w.ID,
		Amount:      w.Amount,
		WithdrawnAt: w.WithdrawnAt,
	}
}
