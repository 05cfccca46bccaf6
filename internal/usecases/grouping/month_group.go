package grouping

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
)

// MonthGroup reúne os datasets Google que pertencem ao mesmo mês inferido do
// nome do arquivo. O grupo referencia os datasets, não é dono deles
type MonthGroup struct {
	ID       string                     `json:"id"`    // ex: "ago-2025"
	Month    string                     `json:"month"` // sigla, ex: "ago"
	Year     int                        `json:"year"`
	Label    string                     `json:"label"` // ex: "Agosto 2025"
	Accounts []string                   `json:"accounts"`
	Datasets []domain.NormalizedDataset `json:"datasets"`
	AllRows  []domain.NormalizedMetric  `json:"all_rows"`
}

// GroupDatasetsByMonth agrupa datasets Google por mês inferido.
// Datasets cujo nome de arquivo não rende um mês ficam fora de qualquer grupo,
// em silêncio. Grupos em ordem decrescente de (ano, mês); as contas de cada
// grupo em ordem alfabética; datasets e linhas na ordem de chegada
func GroupDatasetsByMonth(datasets []domain.NormalizedDataset, now time.Time) []*MonthGroup {
	groups := make(map[string]*MonthGroup)
	var order []string

	for _, dataset := range datasets {
		fileName := dataset.FileNameOrLabel()

		monthAbbr, ok := domain.MonthFromFilename(fileName)
		if !ok {
			continue
		}

		monthValue := domain.MonthValue(monthAbbr)
		year := domain.InferYear(monthValue, now)
		groupID := fmt.Sprintf("%s-%d", monthAbbr, year)

		accountName := domain.AccountFromFilename(fileName)

		group, exists := groups[groupID]
		if !exists {
			group = &MonthGroup{
				ID:    groupID,
				Month: monthAbbr,
				Year:  year,
				Label: fmt.Sprintf("%s %d", domain.MonthName(monthAbbr), year),
			}
			groups[groupID] = group
			order = append(order, groupID)
		}

		if !lo.Contains(group.Accounts, accountName) {
			group.Accounts = append(group.Accounts, accountName)
		}

		group.Datasets = append(group.Datasets, dataset)
		group.AllRows = append(group.AllRows, dataset.Rows...)
	}

	sorted := make([]*MonthGroup, 0, len(order))
	for _, id := range order {
		sorted = append(sorted, groups[id])
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a := domain.MonthSortKey(sorted[i].Year, domain.MonthValue(sorted[i].Month))
		b := domain.MonthSortKey(sorted[j].Year, domain.MonthValue(sorted[j].Month))
		return a > b
	})

	for _, group := range sorted {
		sort.Strings(group.Accounts)
	}

	return sorted
}

// FilterRowsByAccount devolve as linhas do grupo cuja conta casa (sem
// diferenciar maiúsculas) com a pedida. Conta vazia devolve todas as linhas
func FilterRowsByAccount(group *MonthGroup, account string) []domain.NormalizedMetric {
	if account == "" {
		return group.AllRows
	}

	return lo.Filter(group.AllRows, func(row domain.NormalizedMetric, _ int) bool {
		return strings.EqualFold(row.AccountName, account)
	})
}

// UniqueAccounts lista as contas distintas detectáveis pelos nomes de arquivo
// de uma lista de datasets Google, em ordem alfabética
func UniqueAccounts(datasets []domain.NormalizedDataset) []string {
	var accounts []string

	for _, dataset := range datasets {
		accountName := domain.AccountFromFilename(dataset.FileNameOrLabel())
		if accountName == domain.UnknownAccountLabel {
			continue
		}
		if !lo.Contains(accounts, accountName) {
			accounts = append(accounts, accountName)
		}
	}

	sort.Strings(accounts)
	return accounts
}

// VirtualDataset materializa um grupo (opcionalmente limitado a uma conta)
// como um único dataset, para reutilizar os caminhos de relatório de
// plataforma única. O período declarado é herdado do primeiro dataset
func VirtualDataset(group *MonthGroup, selectedAccount string) domain.NormalizedDataset {
	filteredRows := FilterRowsByAccount(group, selectedAccount)

	id := group.ID
	label := group.Label
	if selectedAccount != "" {
		id = fmt.Sprintf("%s-%s", group.ID, strings.ToLower(selectedAccount))
		label = fmt.Sprintf("%s (%s)", group.Label, selectedAccount)
	}

	meta := domain.DatasetMeta{
		ID:       id,
		Platform: domain.PlatformGoogle,
		Label:    label,
		Source:   domain.SourceStatic,
	}
	if len(group.Datasets) > 0 {
		meta.FileName = group.Datasets[0].Meta.FileName
		meta.DateRange = group.Datasets[0].Meta.DateRange
	}

	return domain.NormalizedDataset{
		Meta: meta,
		Rows: filteredRows,
	}
}

// MostRecentGroup devolve o grupo mais recente para seleção automática.
// Os grupos já chegam em ordem decrescente
func MostRecentGroup(groups []*MonthGroup) *MonthGroup {
	if len(groups) == 0 {
		return nil
	}
	return groups[0]
}

// GroupDateRange extrai o período real de um grupo varrendo as datas bem
// formadas das linhas: a menor vira o início, e a maior (início da última
// semana, em dados semanais) mais seis dias vira o fim, cobrindo a semana
// final por inteiro. Sem datas válidas, nil
func GroupDateRange(group *MonthGroup) *domain.DateRange {
	var allDates []string

	for _, row := range group.AllRows {
		if row.Date != "" && row.Date != "--" && utils.IsISODate(row.Date) {
			allDates = append(allDates, row.Date)
		}
	}

	if len(allDates) == 0 {
		return nil
	}

	sort.Strings(allDates)

	firstDate := allDates[0]
	lastWeekStart := allDates[len(allDates)-1]

	return &domain.DateRange{
		Start: firstDate,
		End:   utils.AddDaysISO(lastWeekStart, 6),
	}
}
