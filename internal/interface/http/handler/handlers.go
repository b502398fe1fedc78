package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/application/service"
	"github.com/prestaledger/lending-service/internal/domain"
	sqlrepository "github.com/prestaledger/lending-service/internal/infrastructure/repository/mysql"
	"github.com/prestaledger/lending-service/internal/interface/http/dto"
)

type Handlers struct {
	Client *ClientHandler
	Loan   *LoanHandler
	Report *ReportHandler
}

func NewHandlers(repos *sqlrepository.Repositories, eventPublisher domain.EventPublisher, logger *zap.Logger) *Handlers {
	clientService := service.NewClientService(repos.Client, logger)
	loanService := service.NewLoanService(repos.Client, repos.Loan, repos.Payment, repos.LateCharge, eventPublisher, logger)
	reportService := service.NewReportService(repos.Report, repos.Fund, logger)

	return &Handlers{
		Client: NewClientHandler(clientService, logger),
		Loan:   NewLoanHandler(loanService, logger),
		Report: NewReportHandler(reportService, logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Message = err.Error()
	}
	respondJSON(w, status, response)
}
