package unifying

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/ad-report-engine/internal/domain"
)

// AvailableMonth é um mês lógico que atravessa as duas plataformas: carrega os
// datasets Google e Meta inferidos para aquele mês e as flags de presença
type AvailableMonth struct {
	ID             string                     `json:"id"`    // formato: "nov-2025"
	Label          string                     `json:"label"` // formato: "Novembro 2025"
	Month          int                        `json:"month"` // 1-12
	Year           int                        `json:"year"`
	HasGoogle      bool                       `json:"has_google"`
	HasMeta        bool                       `json:"has_meta"`
	GoogleDatasets []domain.NormalizedDataset `json:"google_datasets"`
	MetaDatasets   []domain.NormalizedDataset `json:"meta_datasets"`
}

// datasetYear extrai o ano da primeira linha com data; sem linhas datadas,
// assume o ano corrente
func datasetYear(dataset *domain.NormalizedDataset, now time.Time) int {
	for i := range dataset.Rows {
		date := dataset.Rows[i].Date
		if date == "" {
			continue
		}
		if year, err := strconv.Atoi(strings.SplitN(date, "-", 2)[0]); err == nil {
			return year
		}
	}

	return now.Year()
}

// GroupDatasetsByMonth agrupa todos os datasets por mês, combinando Google e
// Meta no mesmo contêiner. Datasets sem mês detectável ficam de fora.
// Resultado em ordem decrescente de (ano, mês)
func GroupDatasetsByMonth(datasets []domain.NormalizedDataset, now time.Time) []*AvailableMonth {
	months := make(map[string]*AvailableMonth)
	var order []string

	for _, dataset := range datasets {
		monthAbbr, ok := domain.MonthFromFilename(dataset.FileNameOrLabel())
		if !ok {
			continue
		}

		year := datasetYear(&dataset, now)
		monthID := fmt.Sprintf("%s-%d", monthAbbr, year)

		entry, exists := months[monthID]
		if !exists {
			entry = &AvailableMonth{
				ID:    monthID,
				Label: fmt.Sprintf("%s %d", domain.MonthName(monthAbbr), year),
				Month: domain.MonthValue(monthAbbr),
				Year:  year,
			}
			months[monthID] = entry
			order = append(order, monthID)
		}

		switch dataset.Meta.Platform {
		case domain.PlatformGoogle:
			entry.HasGoogle = true
			entry.GoogleDatasets = append(entry.GoogleDatasets, dataset)
		case domain.PlatformMeta:
			entry.HasMeta = true
			entry.MetaDatasets = append(entry.MetaDatasets, dataset)
		}
	}

	sorted := make([]*AvailableMonth, 0, len(order))
	for _, id := range order {
		sorted = append(sorted, months[id])
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a := domain.MonthSortKey(sorted[i].Year, sorted[i].Month)
		b := domain.MonthSortKey(sorted[j].Year, sorted[j].Month)
		return a > b
	})

	return sorted
}

// AllRows concatena as linhas de todos os datasets do mês, Meta primeiro
func (m *AvailableMonth) AllRows() []domain.NormalizedMetric {
	rows := make([]domain.NormalizedMetric, 0)
	for _, dataset := range m.MetaDatasets {
		rows = append(rows, dataset.Rows...)
	}
	for _, dataset := range m.GoogleDatasets {
		rows = append(rows, dataset.Rows...)
	}
	return rows
}
