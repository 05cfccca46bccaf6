package grouping

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/ad-report-engine/internal/domain"
)

func datasetSortKey(filename string, now time.Time) int {
	monthAbbr, ok := domain.MonthFromFilename(filename)
	if !ok {
		return 0
	}

	monthValue := domain.MonthValue(monthAbbr)
	year := domain.InferYear(monthValue, now)

	return domain.MonthSortKey(year, monthValue)
}

// SortDatasetsByMonth ordena datasets por mês inferido, do mais recente para
// o mais antigo. Datasets sem mês detectado vão para o fim
func SortDatasetsByMonth(datasets []domain.NormalizedDataset, now time.Time) []domain.NormalizedDataset {
	sorted := append([]domain.NormalizedDataset{}, datasets...)

	sort.SliceStable(sorted, func(i, j int) bool {
		a := datasetSortKey(sorted[i].FileNameOrLabel(), now)
		b := datasetSortKey(sorted[j].FileNameOrLabel(), now)
		return a > b
	})

	return sorted
}

// MostRecentDataset devolve o dataset do mês corrente quando existe, senão o
// do mês anterior, senão o mais recente da lista ordenada
func MostRecentDataset(datasets []domain.NormalizedDataset, now time.Time) *domain.NormalizedDataset {
	if len(datasets) == 0 {
		return nil
	}

	currentYear := now.Year()
	currentMonth := int(now.Month())

	sorted := SortDatasetsByMonth(datasets, now)

	if dataset := findByMonthYear(sorted, currentMonth, currentYear, now); dataset != nil {
		return dataset
	}

	previousMonth := currentMonth - 1
	previousYear := currentYear
	if currentMonth == 1 {
		previousMonth = 12
		previousYear = currentYear - 1
	}

	if dataset := findByMonthYear(sorted, previousMonth, previousYear, now); dataset != nil {
		return dataset
	}

	return &sorted[0]
}

func findByMonthYear(sorted []domain.NormalizedDataset, month, year int, now time.Time) *domain.NormalizedDataset {
	for i := range sorted {
		monthAbbr, ok := domain.MonthFromFilename(sorted[i].FileNameOrLabel())
		if !ok {
			continue
		}

		monthValue := domain.MonthValue(monthAbbr)
		if monthValue == month && domain.InferYear(monthValue, now) == year {
			return &sorted[i]
		}
	}

	return nil
}

// MonthDateRange devolve o primeiro e o último dia do mês em datas ISO
func MonthDateRange(year, month int) domain.DateRange {
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	return domain.DateRange{
		Start: firstDay.Format("2006-01-02"),
		End:   lastDay.Format("2006-01-02"),
	}
}

// DatasetMonthYear devolve o mês e o ano inferidos de um dataset, ou erro
// quando o nome do arquivo não rende um mês
func DatasetMonthYear(dataset *domain.NormalizedDataset, now time.Time) (month, year int, err error) {
	monthAbbr, ok := domain.MonthFromFilename(dataset.FileNameOrLabel())
	if !ok {
		return 0, 0, fmt.Errorf("nenhum mês detectado no arquivo %q", dataset.FileNameOrLabel())
	}

	monthValue := domain.MonthValue(monthAbbr)
	return monthValue, domain.InferYear(monthValue, now), nil
}
