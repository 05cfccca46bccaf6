package unifying

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/internal/usecases/aggregating"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// entityMetrics acumula as métricas de um valor de dimensão em uma plataforma
type entityMetrics struct {
	spend       float64
	revenue     float64
	clicks      float64
	impressions float64
	conversions float64

	campaignBudget float64
	adGroupBudget  float64
}

// aggregateEntityMetrics soma as linhas de uma entidade. Orçamentos são
// rastreados por nome de campanha/conjunto para não contar de novo o mesmo
// orçamento repetido em cada linha diária
func aggregateEntityMetrics(rows []domain.NormalizedMetric) entityMetrics {
	var metrics entityMetrics

	campaignBudgets := make(map[string]float64)
	adGroupBudgets := make(map[string]float64)

	for i := range rows {
		row := &rows[i]
		metrics.spend += row.Spend
		metrics.revenue += row.Revenue
		metrics.clicks += row.Clicks
		metrics.impressions += row.Impressions
		metrics.conversions += row.Conversions

		if row.CampaignBudget > 0 && row.CampaignName != "" {
			campaignBudgets[row.CampaignName] = row.CampaignBudget
		}
		if row.AdGroupBudget > 0 && row.AdGroupName != "" {
			adGroupBudgets[row.AdGroupName] = row.AdGroupBudget
		}
	}

	for _, budget := range campaignBudgets {
		metrics.campaignBudget += budget
	}
	for _, budget := range adGroupBudgets {
		metrics.adGroupBudget += budget
	}

	return metrics
}

// groupRowsByDimension agrupa linhas pelo valor da dimensão, preservando a
// ordem de primeira ocorrência. Linhas sem valor na dimensão ficam de fora da
// visão unificada
func groupRowsByDimension(rows []domain.NormalizedMetric, groupBy domain.GroupBy) ([]string, map[string][]domain.NormalizedMetric, error) {
	grouped := make(map[string][]domain.NormalizedMetric)
	var order []string

	for i := range rows {
		key, err := domain.DimensionValue(&rows[i], groupBy)
		if err != nil {
			return nil, nil, err
		}
		if key == "" {
			continue
		}

		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rows[i])
	}

	return order, grouped, nil
}

func distinctDays(rows []domain.NormalizedMetric) float64 {
	days := lo.Uniq(lo.FilterMap(rows, func(row domain.NormalizedMetric, _ int) (string, bool) {
		return row.Date, row.Date != ""
	}))
	if len(days) == 0 {
		return 1
	}
	return float64(len(days))
}

func buildPlatformRows(
	allRows []domain.NormalizedMetric,
	platform domain.Platform,
	groupBy domain.GroupBy,
) ([]domain.AggregatedRow, error) {
	order, grouped, err := groupRowsByDimension(allRows, groupBy)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.AggregatedRow, 0, len(order))

	for _, key := range order {
		groupRows := grouped[key]
		metrics := aggregateEntityMetrics(groupRows)
		weeklyData := aggregating.CalculateWeeklyBreakdown(groupRows)

		campaignBudget := metrics.campaignBudget
		adGroupBudget := metrics.adGroupBudget

		// A exportação da Meta costuma vir sem orçamento: promove o orçamento
		// de conjunto quando existe, senão estima o diário pelo gasto
		if platform == domain.PlatformMeta {
			days := distinctDays(groupRows)

			switch {
			case (groupBy == domain.GroupByCampaign || groupBy == domain.GroupByAccount) && campaignBudget == 0:
				if adGroupBudget > 0 {
					campaignBudget = adGroupBudget
				} else if metrics.spend > 0 {
					campaignBudget = utils.RoundWholeNumber(metrics.spend / days)
				}
			case groupBy == domain.GroupByAdGroup && adGroupBudget == 0:
				if metrics.spend > 0 {
					adGroupBudget = utils.RoundWholeNumber(metrics.spend / days)
				}
			}
		}

		roas := 0.0
		if metrics.revenue > 0 && metrics.spend > 0 {
			roas = metrics.revenue / metrics.spend
		}
		cpa := 0.0
		if metrics.conversions > 0 {
			cpa = metrics.spend / metrics.conversions
		}

		rows = append(rows, domain.AggregatedRow{
			ID:             fmt.Sprintf("%s-%s", platform, key),
			Name:           key,
			Platform:       platform,
			Spend:          metrics.spend,
			Revenue:        metrics.revenue,
			Clicks:         metrics.clicks,
			Impressions:    metrics.impressions,
			Conversions:    metrics.conversions,
			ROAS:           roas,
			CPA:            cpa,
			CampaignBudget: campaignBudget,
			AdGroupBudget:  adGroupBudget,
			WeeklyData:     weeklyData,
		})
	}

	return rows, nil
}

// sortUnifiedRows ordena por nome com colação pt-BR insensível a caso e
// acento; em empate de nome, a linha Meta vem antes da Google, o que mantém
// as linhas da mesma marca adjacentes com ordem estável de plataforma
func sortUnifiedRows(rows []domain.AggregatedRow) {
	collator := collate.New(language.BrazilianPortuguese, collate.Loose)

	sort.SliceStable(rows, func(i, j int) bool {
		cmp := collator.CompareString(rows[i].Name, rows[j].Name)
		if cmp != 0 {
			return cmp < 0
		}
		return rows[i].Platform == domain.PlatformMeta && rows[j].Platform == domain.PlatformGoogle
	})
}

// CreateUnifiedView combina Google e Meta de um mês em um único conjunto de
// linhas: cada plataforma é agregada de forma independente pela dimensão
// escolhida e sai uma linha por par (valor, plataforma)
func CreateUnifiedView(month *AvailableMonth, groupBy domain.GroupBy) ([]domain.AggregatedRow, error) {
	if !groupBy.Valid() || groupBy == domain.GroupByDate {
		return nil, fmt.Errorf("%w para a visão unificada: %q", domain.ErrInvalidGroupBy, groupBy)
	}

	rows := make([]domain.AggregatedRow, 0)

	if len(month.MetaDatasets) > 0 {
		allMetaRows := lo.FlatMap(month.MetaDatasets, func(d domain.NormalizedDataset, _ int) []domain.NormalizedMetric {
			return d.Rows
		})

		metaRows, err := buildPlatformRows(allMetaRows, domain.PlatformMeta, groupBy)
		if err != nil {
			return nil, err
		}
		rows = append(rows, metaRows...)
	}

	if len(month.GoogleDatasets) > 0 {
		allGoogleRows := lo.FlatMap(month.GoogleDatasets, func(d domain.NormalizedDataset, _ int) []domain.NormalizedMetric {
			return d.Rows
		})

		googleRows, err := buildPlatformRows(allGoogleRows, domain.PlatformGoogle, groupBy)
		if err != nil {
			return nil, err
		}
		rows = append(rows, googleRows...)
	}

	sortUnifiedRows(rows)

	return rows, nil
}
