package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewLoan_ComputesFlatInterestTerms(t *testing.T) {
	loan, err := NewLoan("client-1", money("10000"), money("10"), 3, FrequencyMonthly, time.Now(), false)

	assert.NoError(t, err)
	assert.Equal(t, 3, loan.InstallmentCount)
	assert.True(t, money("4333.33").Equal(loan.InstallmentAmount), "installment = %s", loan.InstallmentAmount)
	assert.True(t, money("12999.99").Equal(loan.TotalPayable), "total = %s", loan.TotalPayable)
	assert.Equal(t, LoanStatusActive, loan.Status)
}

func TestNewLoan_TotalPayableAbsorbsRounding(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		frequency Frequency
	}{
		{"monthly with residual", "10000", "10", 3, FrequencyMonthly},
		{"weekly", "5000", "15", 2, FrequencyWeekly},
		{"biweekly", "7500", "8.5", 4, FrequencyBiweekly},
		{"zero rate", "1200", "0", 6, FrequencyMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := NewLoan("client-1", money(tt.principal), money(tt.rate), tt.months, tt.frequency, time.Now(), false)
			assert.NoError(t, err)

			product := loan.InstallmentAmount.Mul(decimal.NewFromInt(int64(loan.InstallmentCount)))
			assert.True(t, product.Equal(loan.TotalPayable),
				"installment*count = %s, total = %s", product, loan.TotalPayable)
		})
	}
}

func TestNewLoan_InstallmentCountFollowsFrequency(t *testing.T) {
	for freq, want := range map[Frequency]int{
		FrequencyWeekly:   12,
		FrequencyBiweekly: 6,
		FrequencyMonthly:  3,
	} {
		loan, err := NewLoan("client-1", money("1000"), money("5"), 3, freq, time.Now(), false)
		assert.NoError(t, err)
		assert.Equal(t, want, loan.InstallmentCount)
	}
}

func TestNewLoan_RejectsBadTerms(t *testing.T) {
	start := time.Now()

	_, err := NewLoan("client-1", money("0"), money("10"), 3, FrequencyMonthly, start, false)
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = NewLoan("client-1", money("-50"), money("10"), 3, FrequencyMonthly, start, false)
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = NewLoan("client-1", money("1000"), money("-1"), 3, FrequencyMonthly, start, false)
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = NewLoan("client-1", money("1000"), money("10"), 0, FrequencyMonthly, start, false)
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = NewLoan("client-1", money("1000"), money("10"), 3, Frequency("DAILY"), start, false)
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = NewLoan("", money("1000"), money("10"), 3, FrequencyMonthly, start, false)
	assert.ErrorIs(t, err, ErrInvalidClientID)
}

func TestLateChargeAmount_IsThreePercentOfInstallment(t *testing.T) {
	loan, err := NewLoan("client-1", money("10000"), money("10"), 3, FrequencyMonthly, time.Now(), false)
	assert.NoError(t, err)

	assert.True(t, money("130.00").Equal(loan.LateChargeAmount()), "charge = %s", loan.LateChargeAmount())
}

func TestOutstandingBalance(t *testing.T) {
	loan, err := NewLoan("client-1", money("10000"), money("10"), 3, FrequencyMonthly, time.Now(), false)
	assert.NoError(t, err)

	assert.True(t, money("8666.66").Equal(loan.OutstandingBalance(money("4333.33"))))
}

func TestInsuranceTotal(t *testing.T) {
	insured, _ := NewLoan("client-1", money("10000"), money("10"), 3, FrequencyMonthly, time.Now(), true)
	plain, _ := NewLoan("client-1", money("10000"), money("10"), 3, FrequencyMonthly, time.Now(), false)

	assert.True(t, money("600").Equal(insured.InsuranceTotal()), "insured = %s", insured.InsuranceTotal())
	assert.True(t, plain.InsuranceTotal().IsZero())
}

func TestNewPayment_RejectsNonPositiveAmount(t *testing.T) {
	_, err := NewPayment("loan-1", money("0"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewPayment("loan-1", money("-10"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidEvent)

	p, err := NewPayment("loan-1", money("100.005"), time.Now())
	assert.NoError(t, err)
	assert.True(t, money("100.01").Equal(p.Amount))
}

func TestNewClient_GeneratesFourDigitPIN(t *testing.T) {
	c, err := NewClient("Francisco Flores", "001-123456-0001A", "8888-1234")

	assert.NoError(t, err)
	assert.Len(t, c.PIN, 4)
	assert.True(t, c.VerifyPIN(c.PIN))
	assert.False(t, c.VerifyPIN(""))
	assert.False(t, c.VerifyPIN("abcd"))

	_, err = NewClient("", "", "")
	assert.ErrorIs(t, err, ErrInvalidClientName)
}
