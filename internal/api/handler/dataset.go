package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-report-engine/infrastructure/parser"
	"github.com/vfg2006/ad-report-engine/infrastructure/repository"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/apiErrors"
	"github.com/vfg2006/ad-report-engine/pkg/log"
)

// Limite de 20MB por planilha enviada
const maxUploadSize = 20 << 20

// UploadDataset recebe uma exportação CSV via multipart, normaliza e persiste
func UploadDataset(repo repository.DatasetRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			logger.WithError(err).Warn("datasets: invalid multipart upload")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Upload inválido", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Arquivo não informado", nil)
			return
		}
		defer file.Close()

		platform := domain.Platform(r.FormValue("platform"))
		if platform != domain.PlatformMeta && platform != domain.PlatformGoogle {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Plataforma inválida, use meta ou google", nil)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			logger.WithError(err).Error("datasets: failed to read uploaded file")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao ler o arquivo enviado", nil)
			return
		}

		dataset, err := parser.ParseCSV(platform, string(content), header.Filename, domain.SourceUpload)
		if err != nil {
			logger.WithFields(log.Fields{
				"file":  header.Filename,
				"error": err.Error(),
			}).Warn("datasets: failed to parse uploaded file")

			apiErrors.WriteError(w, apiErrors.ErrDatasetUnparseable, "Arquivo não pôde ser interpretado", err.Error())
			return
		}

		if err := repo.Save(dataset); err != nil {
			logger.WithError(err).Error("datasets: failed to persist dataset")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao salvar o dataset", nil)
			return
		}

		logger.WithFields(log.Fields{
			"dataset_id": dataset.Meta.ID,
			"platform":   dataset.Meta.Platform,
			"rows":       len(dataset.Rows),
		}).Info("datasets: dataset uploaded")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(dataset.Meta); err != nil {
			logger.WithError(err).Error("datasets: failed to encode response")
		}
	})
}

// ListDatasets retorna os metadados de todos os datasets persistidos
func ListDatasets(repo repository.DatasetRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var (
			datasets []domain.NormalizedDataset
			err      error
		)

		if platform := r.URL.Query().Get("platform"); platform != "" {
			datasets, err = repo.ListByPlatform(domain.Platform(platform))
		} else {
			datasets, err = repo.List()
		}
		if err != nil {
			logger.WithError(err).Error("datasets: failed to list datasets")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar datasets", nil)
			return
		}

		metas := make([]domain.DatasetMeta, 0, len(datasets))
		for _, dataset := range datasets {
			metas = append(metas, dataset.Meta)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metas); err != nil {
			logger.WithError(err).Error("datasets: failed to encode response")
		}
	})
}

// GetDataset retorna um dataset completo, com todas as linhas normalizadas
func GetDataset(repo repository.DatasetRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		dataset, err := repo.GetByID(id)
		if err != nil {
			logger.WithError(err).WithField("dataset_id", id).Error("datasets: failed to fetch dataset")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar dataset", nil)
			return
		}

		if dataset == nil {
			apiErrors.WriteError(w, apiErrors.ErrDatasetNotFound, "Dataset não encontrado", id)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(dataset); err != nil {
			logger.WithError(err).Error("datasets: failed to encode response")
		}
	})
}

// DeleteDataset remove um dataset persistido
func DeleteDataset(repo repository.DatasetRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		dataset, err := repo.GetByID(id)
		if err != nil {
			logger.WithError(err).WithField("dataset_id", id).Error("datasets: failed to fetch dataset")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar dataset", nil)
			return
		}

		if dataset == nil {
			apiErrors.WriteError(w, apiErrors.ErrDatasetNotFound, "Dataset não encontrado", id)
			return
		}

		if err := repo.Delete(id); err != nil {
			logger.WithError(err).WithField("dataset_id", id).Error("datasets: failed to delete dataset")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover dataset", nil)
			return
		}

		logger.WithField("dataset_id", id).Info("datasets: dataset deleted")
		w.WriteHeader(http.StatusNoContent)
	})
}
