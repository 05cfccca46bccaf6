package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/internal/usecases/reporting"
	"github.com/vfg2006/ad-report-engine/pkg/apiErrors"
	"github.com/vfg2006/ad-report-engine/pkg/log"
)

// ListUnifiedMonths lista os meses com dados de qualquer plataforma
func ListUnifiedMonths(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		months, err := service.ListUnifiedMonths()
		if err != nil {
			writeReportingError(w, logger, err)
			return
		}

		logger.WithField("months", len(months)).Info("unified: listed available months")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(months); err != nil {
			logger.WithError(err).Error("unified: failed to encode response")
		}
	})
}

// groupByParam lê o parâmetro group_by com padrão account
func groupByParam(r *http.Request) domain.GroupBy {
	groupBy := domain.GroupBy(r.URL.Query().Get("group_by"))
	if groupBy == "" {
		groupBy = domain.GroupByAccount
	}
	return groupBy
}

// GetUnifiedView monta a visão unificada meta+google de um mês
func GetUnifiedView(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		monthID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		groupBy := groupByParam(r)

		logger.WithFields(log.Fields{
			"month_id": monthID,
			"group_by": groupBy,
		}).Info("unified: building unified view")

		view, err := service.UnifiedView(monthID, groupBy)
		if err != nil {
			writeReportingError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.WithError(err).Error("unified: failed to encode response")
		}
	})
}

// GetUnifiedComparison monta a visão de um mês comparada a um mês anterior,
// informado no parâmetro compare_with
func GetUnifiedComparison(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		monthID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		compareWith := r.URL.Query().Get("compare_with")
		if compareWith == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetro compare_with não informado", nil)
			return
		}

		groupBy := groupByParam(r)

		logger.WithFields(log.Fields{
			"month_id":     monthID,
			"compare_with": compareWith,
			"group_by":     groupBy,
		}).Info("unified: building comparison view")

		view, err := service.UnifiedComparison(monthID, compareWith, groupBy)
		if err != nil {
			writeReportingError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.WithError(err).Error("unified: failed to encode response")
		}
	})
}
