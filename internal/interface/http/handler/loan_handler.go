package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/application/service"
	"github.com/prestaledger/lending-service/internal/domain"
	"github.com/prestaledger/lending-service/internal/interface/http/dto"
)

type LoanHandler struct {
	loanService *service.LoanService
	logger      *zap.Logger
}

func NewLoanHandler(loanService *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	principal, err := req.GetPrincipal()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid principal", err)
		return
	}
	rate, err := req.GetMonthlyRate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid monthly rate", err)
		return
	}
	startDate, err := req.GetStartDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start date", err)
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), service.CreateLoanRequest{
		ClientID:       req.ClientID,
		Principal:      principal,
		MonthlyRate:    rate,
		DurationMonths: req.DurationMonths,
		Frequency:      domain.Frequency(req.Frequency),
		StartDate:      startDate,
		Insurance:      req.Insurance,
	})
	if err != nil {
		if err == domain.ErrInvalidTerms || err == domain.ErrInvalidClientID {
			respondError(w, http.StatusBadRequest, "invalid loan terms", err)
			return
		}
		h.logger.Error("failed to create loan", zap.Error(err), zap.String("client_id", req.ClientID))
		respondError(w, http.StatusInternalServerError, "failed to create loan", err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(loan))
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	account, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, http.StatusNotFound, "loan not found", err)
		return
	}

	response := dto.NewLoanResponse(account.Loan)
	response.TotalPaid = account.TotalPaid.StringFixed(2)
	response.Outstanding = account.Outstanding.StringFixed(2)
	respondJSON(w, http.StatusOK, response)
}

func (h *LoanHandler) GetClientLoans(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	accounts, err := h.loanService.GetClientLoans(r.Context(), clientID)
	if err != nil {
		respondError(w, http.StatusNotFound, "client not found", err)
		return
	}

	response := make([]dto.LoanResponse, len(accounts))
	for i, account := range accounts {
		response[i] = dto.NewLoanResponse(account.Loan)
		response[i].TotalPaid = account.TotalPaid.StringFixed(2)
		response[i].Outstanding = account.Outstanding.StringFixed(2)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"client_id": clientID,
		"count":     len(response),
		"loans":     response,
	})
}

func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	if err := h.loanService.DeleteLoan(r.Context(), loanID); err != nil {
		h.logger.Error("failed to delete loan", zap.Error(err), zap.String("loan_id", loanID))
		respondError(w, http.StatusInternalServerError, "failed to delete loan", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	view, err := h.loanService.GetSchedule(r.Context(), loanID)
	if err != nil {
		if err == domain.ErrCorruptTerms {
			respondError(w, http.StatusUnprocessableEntity, "loan terms are corrupt", err)
			return
		}
		respondError(w, http.StatusNotFound, "loan not found", err)
		return
	}

	installments := make([]dto.InstallmentResponse, len(view.Installments))
	for i, inst := range view.Installments {
		installments[i] = dto.NewInstallmentResponse(inst)
	}

	response := dto.ScheduleResponse{
		Loan:         dto.NewLoanResponse(view.Loan),
		TotalPaid:    view.TotalPaid.StringFixed(2),
		Outstanding:  view.Outstanding.StringFixed(2),
		Installments: installments,
	}
	if view.NextDue != nil {
		next := dto.NewInstallmentResponse(*view.NextDue)
		response.NextDue = &next
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	amount, err := req.GetAmount()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}
	paidAt, err := req.GetPaidAt()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid paid_at date", err)
		return
	}

	result, err := h.loanService.RecordPayment(r.Context(), loanID, amount, paidAt)
	if err != nil {
		switch err {
		case domain.ErrIllegalStateTransition:
			respondError(w, http.StatusConflict, "loan is not active", err)
		case domain.ErrInvalidEvent:
			respondError(w, http.StatusBadRequest, "invalid payment", err)
		default:
			h.logger.Error("failed to record payment", zap.Error(err), zap.String("loan_id", loanID))
			respondError(w, http.StatusInternalServerError, "failed to record payment", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, dto.PaymentResponse{
		Success:     true,
		PaymentID:   result.Payment.ID,
		LoanID:      loanID,
		Amount:      result.Payment.Amount.StringFixed(2),
		TotalPaid:   result.TotalPaid.StringFixed(2),
		Outstanding: result.Outstanding.StringFixed(2),
		FullyPaid:   result.FullyPaid,
	})
}

func (h *LoanHandler) ApplyLateCharge(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	charge, err := h.loanService.ApplyLateCharge(r.Context(), loanID)
	if err != nil {
		if err == domain.ErrIllegalStateTransition {
			respondError(w, http.StatusConflict, "loan is not active", err)
			return
		}
		h.logger.Error("failed to apply late charge", zap.Error(err), zap.String("loan_id", loanID))
		respondError(w, http.StatusInternalServerError, "failed to apply late charge", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.LateChargeResponse{
		ChargeID:  charge.ID,
		LoanID:    loanID,
		Amount:    charge.Amount.StringFixed(2),
		Reason:    charge.Reason,
		AppliedAt: charge.AppliedAt.Format("2006-01-02"),
	})
}

func (h *LoanHandler) Refinance(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	var req dto.RefinanceLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	rate, err := req.GetMonthlyRate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid monthly rate", err)
		return
	}

	result, err := h.loanService.Refinance(r.Context(), loanID, service.RefinanceRequest{
		MonthlyRate:    rate,
		DurationMonths: req.DurationMonths,
		Frequency:      domain.Frequency(req.Frequency),
		Insurance:      req.Insurance,
	})
	if err != nil {
		switch err {
		case domain.ErrIllegalStateTransition:
			respondError(w, http.StatusConflict, "loan is not active", err)
		case domain.ErrInvalidTerms:
			respondError(w, http.StatusBadRequest, "invalid refinance terms", err)
		default:
			h.logger.Error("failed to refinance loan", zap.Error(err), zap.String("loan_id", loanID))
			respondError(w, http.StatusInternalServerError, "failed to refinance loan", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, dto.RefinanceResponse{
		ClosedLoanID: result.ClosedLoanID,
		Balance:      result.Balance.StringFixed(2),
		NewLoan:      dto.NewLoanResponse(result.NewLoan),
	})
}

func (h *LoanHandler) GetMovements(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	movements, err := h.loanService.GetMovements(r.Context(), loanID)
	if err != nil {
		h.logger.Error("failed to get movements", zap.Error(err), zap.String("loan_id", loanID))
		respondError(w, http.StatusInternalServerError, "failed to get movements", err)
		return
	}

	response := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		response[i] = dto.MovementResponse{
			ID:     m.ID,
			Kind:   m.Kind,
			Amount: m.Amount.StringFixed(2),
			At:     m.At.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"loan_id":   loanID,
		"count":     len(response),
		"movements": response,
	})
}

func (h *LoanHandler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	summary, err := h.loanService.GetAccountSummary(r.Context(), clientID)
	if err != nil {
		h.logger.Error("failed to get account summary", zap.Error(err), zap.String("client_id", clientID))
		respondError(w, http.StatusInternalServerError, "failed to get account summary", err)
		return
	}

	response := dto.AccountSummaryResponse{
		ClientID: summary.ClientID,
		Overdue:  summary.Overdue,
	}
	if summary.Next != nil {
		response.Next = &dto.UpcomingPaymentView{
			LoanID:         summary.Next.LoanID,
			Number:         summary.Next.Number,
			DueDate:        summary.Next.DueDate.Format("2006-01-02"),
			Amount:         summary.Next.Amount.StringFixed(2),
			CarriesLateFee: summary.Next.CarriesLateFee,
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// HealthCheck handles health check endpoint
func (h *LoanHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
