package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-report-engine/internal/usecases/reporting"
	"github.com/vfg2006/ad-report-engine/pkg/log"
)

// ListGoogleMonthGroups lista os grupos mensais dos datasets do Google,
// inferidos do nome dos arquivos, do mais recente para o mais antigo
func ListGoogleMonthGroups(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		groups, err := service.ListGoogleMonthGroups()
		if err != nil {
			writeReportingError(w, logger, err)
			return
		}

		logger.WithField("groups", len(groups)).Info("month-groups: listed google month groups")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(groups); err != nil {
			logger.WithError(err).Error("month-groups: failed to encode response")
		}
	})
}

// GetGoogleVirtualDataset materializa um grupo mensal como dataset único,
// restrito à conta do parâmetro account quando informado
func GetGoogleVirtualDataset(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		groupID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		account := r.URL.Query().Get("account")

		dataset, err := service.GoogleVirtualDataset(groupID, account)
		if err != nil {
			writeReportingError(w, logger, err)
			return
		}

		logger.WithFields(log.Fields{
			"group_id": groupID,
			"account":  account,
			"rows":     len(dataset.Rows),
		}).Info("month-groups: virtual dataset built")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(dataset); err != nil {
			logger.WithError(err).Error("month-groups: failed to encode response")
		}
	})
}
