package aggregating

import (
	"fmt"

	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
)

// Buckets é o resultado ordenado de uma agregação: um bucket por valor da
// dimensão, na ordem em que cada valor apareceu nas linhas de entrada.
// A ordem de inserção é parte do contrato; consumidores dependem dela
type Buckets struct {
	keys []string
	rows map[string]*domain.AggregatedRow
}

func newBuckets() *Buckets {
	return &Buckets{rows: make(map[string]*domain.AggregatedRow)}
}

// Keys retorna as chaves na ordem de primeira ocorrência
func (b *Buckets) Keys() []string {
	return b.keys
}

// Get retorna o bucket da chave, quando existe
func (b *Buckets) Get(key string) (*domain.AggregatedRow, bool) {
	row, ok := b.rows[key]
	return row, ok
}

// Len retorna a quantidade de buckets
func (b *Buckets) Len() int {
	return len(b.keys)
}

func (b *Buckets) add(key string, row *domain.AggregatedRow) {
	b.rows[key] = row
	b.keys = append(b.keys, key)
}

// Aggregate agrupa as linhas pela dimensão escolhida, aplicando filtro de
// período e filtros de dimensão.
//
// dateRange nil significa nenhum filtro de data (usado quando o dataset
// secundário de uma comparação não deve ser limitado ao período do primário).
// Linhas sem nome na dimensão caem no bucket do placeholder localizado, nunca
// são descartadas. Orçamentos valem pela primeira ocorrência no bucket, para
// não somar o mesmo orçamento repetido em cada linha diária. Para a plataforma
// Meta, buckets de campanha/conjunto sem orçamento mas com gasto recebem uma
// estimativa de orçamento diário (gasto / dias distintos).
//
// groupBy inválido é violação de pré-condição e falha alto, ao contrário dos
// problemas de qualidade de dados, que degradam em silêncio
func Aggregate(
	rows []domain.NormalizedMetric,
	groupBy domain.GroupBy,
	dateRange *domain.DateRange,
	filters *domain.Filters,
) (*Buckets, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGroupBy, groupBy)
	}

	grouped := newBuckets()
	rawItemsPerKey := make(map[string][]domain.NormalizedMetric)

	for i := range rows {
		item := &rows[i]

		if dateRange != nil && !dateRange.Contains(item.Date) {
			continue
		}
		if !filters.Matches(item) {
			continue
		}

		value, err := domain.DimensionValue(item, groupBy)
		if err != nil {
			return nil, err
		}

		key := value
		if key == "" {
			key = domain.DimensionPlaceholder(groupBy)
		}

		current, ok := grouped.Get(key)
		if !ok {
			current = &domain.AggregatedRow{
				ID:       key,
				Name:     key,
				Platform: item.Platform,
			}
			if groupBy == domain.GroupByCampaign {
				current.CampaignBudget = item.CampaignBudget
			}
			if groupBy == domain.GroupByAdGroup {
				current.AdGroupBudget = item.AdGroupBudget
			}
			if groupBy == domain.GroupByDate {
				current.Date = item.Date
			}
			grouped.add(key, current)
		}

		current.Spend += item.Spend
		current.Revenue += item.Revenue
		current.Clicks += item.Clicks
		current.Impressions += item.Impressions
		current.Conversions += item.Conversions

		rawItemsPerKey[key] = append(rawItemsPerKey[key], *item)

		// Orçamentos: primeira ocorrência vence
		if groupBy == domain.GroupByCampaign && item.CampaignBudget > 0 && current.CampaignBudget == 0 {
			current.CampaignBudget = item.CampaignBudget
		}
		if groupBy == domain.GroupByAdGroup && item.AdGroupBudget > 0 && current.AdGroupBudget == 0 {
			current.AdGroupBudget = item.AdGroupBudget
		}
	}

	for _, key := range grouped.Keys() {
		row, _ := grouped.Get(key)

		row.ROAS = 0
		if row.Spend > 0 {
			row.ROAS = row.Revenue / row.Spend
		}
		row.CPA = 0
		if row.Conversions > 0 {
			row.CPA = row.Spend / row.Conversions
		}

		rawItems := rawItemsPerKey[key]
		row.WeeklyData = CalculateWeeklyBreakdown(rawItems)
		row.DailyData = CalculateDailyBreakdown(rawItems)

		// Estimativa de orçamento diário para a plataforma Meta, que exporta
		// sem orçamento em alguns relatórios
		if row.Platform == domain.PlatformMeta {
			days := float64(len(row.DailyData))
			if days == 0 {
				days = 1
			}
			if groupBy == domain.GroupByCampaign && row.CampaignBudget == 0 && row.Spend > 0 {
				row.CampaignBudget = utils.RoundWholeNumber(row.Spend / days)
			} else if groupBy == domain.GroupByAdGroup && row.AdGroupBudget == 0 && row.Spend > 0 {
				row.AdGroupBudget = utils.RoundWholeNumber(row.Spend / days)
			}
		}
	}

	return grouped, nil
}
