package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/internal/usecases/reporting"
	"github.com/vfg2006/ad-report-engine/pkg/apiErrors"
	"github.com/vfg2006/ad-report-engine/pkg/log"
)

// AggregateReport agrega os datasets selecionados pela dimensão pedida, com
// comparação ou mesclagem opcional de um segundo período
func AggregateReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req reporting.AggregateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("reports: invalid request body")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		logger.WithFields(log.Fields{
			"datasets":           len(req.DatasetIDs),
			"secondary_datasets": len(req.SecondaryDatasetIDs),
			"group_by":           req.GroupBy,
			"merge_mode":         req.MergeMode,
		}).Info("reports: aggregating datasets")

		result, err := service.AggregateReport(&req)
		if err != nil {
			writeReportingError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("reports: failed to encode response")
		}
	})
}

// writeReportingError traduz os erros do serviço de relatórios para os
// códigos de API correspondentes
func writeReportingError(w http.ResponseWriter, logger log.Logger, err error) {
	switch {
	case errors.Is(err, reporting.ErrNoDatasetsSelected):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nenhum dataset selecionado", nil)
	case errors.Is(err, reporting.ErrDatasetNotFound):
		apiErrors.WriteError(w, apiErrors.ErrDatasetNotFound, err.Error(), nil)
	case errors.Is(err, reporting.ErrMonthGroupNotFound), errors.Is(err, reporting.ErrMonthNotFound):
		apiErrors.WriteError(w, apiErrors.ErrMonthNotFound, err.Error(), nil)
	case errors.Is(err, reporting.ErrDatabaseOperation):
		logger.WithError(err).Error("reports: database operation failed")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro de operação de banco de dados", nil)
	case errors.Is(err, domain.ErrInvalidGroupBy):
		apiErrors.WriteError(w, apiErrors.ErrInvalidGroupBy, err.Error(), nil)
	default:
		logger.WithError(err).Error("reports: unexpected error")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
	}
}
