package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/application/service"
	"github.com/prestaledger/lending-service/internal/domain"
	"github.com/prestaledger/lending-service/internal/interface/http/dto"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.GetPortfolioSummary(r.Context())
	if err != nil {
		h.logger.Error("failed to build portfolio summary", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to build portfolio summary", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.PortfolioSummaryResponse{
		TotalLoaned:      summary.TotalLoaned.StringFixed(2),
		TotalCollected:   summary.TotalCollected.StringFixed(2),
		InterestGain:     summary.InterestGain.StringFixed(2),
		InsuredCollected: summary.InsuredCollected.StringFixed(2),
		FundAccrued:      summary.FundAccrued.StringFixed(2),
		FundWithdrawn:    summary.FundWithdrawn.StringFixed(2),
		FundAvailable:    summary.FundAvailable.StringFixed(2),
	})
}

func (h *ReportHandler) GetClientBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.GetClientBalances(r.Context())
	if err != nil {
		h.logger.Error("failed to build client balances", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to build client balances", err)
		return
	}

	response := make([]dto.ClientBalanceResponse, len(rows))
	for i, row := range rows {
		response[i] = dto.ClientBalanceResponse{
			ClientID:    row.ClientID,
			ClientName:  row.ClientName,
			TotalLoaned: row.TotalLoaned.StringFixed(2),
			TotalAgreed: row.TotalAgreed.StringFixed(2),
			TotalPaid:   row.TotalPaid.StringFixed(2),
			Balance:     row.TotalAgreed.Sub(row.TotalPaid).StringFixed(2),
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(response),
		"balances": response,
	})
}

func (h *ReportHandler) ExportPortfolioCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.csv"`)

	if err := h.reportService.ExportPortfolioCSV(r.Context(), w); err != nil {
		h.logger.Error("failed to export portfolio", zap.Error(err))
		// Headers are already out; the truncated body is the best we can do.
		return
	}
}

func (h *ReportHandler) WithdrawFund(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawFundRequest
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

	withdrawal, err := h.reportService.WithdrawFund(r.Context(), amount)
	if err != nil {
		switch err {
		case domain.ErrInsufficientFunds:
			respondError(w, http.StatusConflict, "insufficient funds", err)
		case domain.ErrInvalidEvent:
			respondError(w, http.StatusBadRequest, "invalid withdrawal", err)
		default:
			h.logger.Error("failed to withdraw from fund", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to withdraw from fund", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, dto.FundWithdrawalResponse{
		WithdrawalID: withdrawal.ID,
		Amount:       withdrawal.Amount.StringFixed(2),
		WithdrawnAt:  withdrawal.WithdrawnAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
