package aggregating

import (
	"sort"

	"github.com/vfg2006/ad-report-engine/internal/domain"
)

// AggregateResult é a saída da agregação com comparação: as linhas combinadas,
// os totais gerais e, no modo comparação, os totais do período secundário e os
// deltas entre eles
type AggregateResult struct {
	Rows            []*domain.AggregatedRow `json:"rows"`
	Totals          domain.MetricTotals     `json:"totals"`
	SecondaryTotals *domain.MetricTotals    `json:"secondary_totals,omitempty"`
	TotalsDeltas    *domain.MetricTotals    `json:"totals_deltas,omitempty"`
}

func computeTotals(rows []*domain.AggregatedRow) domain.MetricTotals {
	totals := domain.MetricTotals{}
	for _, row := range rows {
		totals.Add(row.Totals())
	}
	// Derivados sempre recalculados das somas, nunca a média das razões
	totals.DeriveRatios()
	return totals
}

// AggregateWithComparison roda a agregação sobre o período primário e,
// opcionalmente, um secundário.
//
// No modo mesclar (mergeMode) os dois períodos respeitam a mesma janela de
// datas e as métricas são somadas em um total único. No modo comparar o
// secundário é agregado sem filtro de data (o período dele vale por inteiro),
// as métricas de destaque da linha são só do primário e os dois períodos vão
// lado a lado no breakdown para exibição.
//
// O conjunto de chaves do resultado é a união dos buckets dos dois períodos;
// uma chave presente só no secundário ainda gera linha. Linhas ordenadas por
// gasto decrescente; ordenação por dimensão é responsabilidade do chamador
func AggregateWithComparison(
	primaryRows []domain.NormalizedMetric,
	secondaryRows []domain.NormalizedMetric,
	groupBy domain.GroupBy,
	dateRange *domain.DateRange,
	filters *domain.Filters,
	mergeMode bool,
) (*AggregateResult, error) {
	primaryGrouped, err := Aggregate(primaryRows, groupBy, dateRange, filters)
	if err != nil {
		return nil, err
	}

	var secondaryGrouped *Buckets
	if secondaryRows != nil {
		secondaryRange := dateRange
		if !mergeMode {
			secondaryRange = nil
		}
		secondaryGrouped, err = Aggregate(secondaryRows, groupBy, secondaryRange, filters)
		if err != nil {
			return nil, err
		}
	}

	// União das chaves: primeiro as do primário, depois as exclusivas do
	// secundário, cada lado na sua ordem de inserção
	keys := append([]string{}, primaryGrouped.Keys()...)
	if secondaryGrouped != nil {
		for _, key := range secondaryGrouped.Keys() {
			if _, ok := primaryGrouped.Get(key); !ok {
				keys = append(keys, key)
			}
		}
	}

	rows := make([]*domain.AggregatedRow, 0, len(keys))

	for _, key := range keys {
		primary, _ := primaryGrouped.Get(key)
		var secondary *domain.AggregatedRow
		if secondaryGrouped != nil {
			secondary, _ = secondaryGrouped.Get(key)
		}

		if primary == nil && secondary == nil {
			continue
		}

		base := primary
		if base == nil {
			base = secondary
		}

		combined := *base

		if mergeMode {
			combined.Spend = metricOrZero(primary, secondary, func(r *domain.AggregatedRow) float64 { return r.Spend })
			combined.Revenue = metricOrZero(primary, secondary, func(r *domain.AggregatedRow) float64 { return r.Revenue })
			combined.Clicks = metricOrZero(primary, secondary, func(r *domain.AggregatedRow) float64 { return r.Clicks })
			combined.Impressions = metricOrZero(primary, secondary, func(r *domain.AggregatedRow) float64 { return r.Impressions })
			combined.Conversions = metricOrZero(primary, secondary, func(r *domain.AggregatedRow) float64 { return r.Conversions })
		} else {
			combined.Spend = metricOrZero(primary, nil, func(r *domain.AggregatedRow) float64 { return r.Spend })
			combined.Revenue = metricOrZero(primary, nil, func(r *domain.AggregatedRow) float64 { return r.Revenue })
			combined.Clicks = metricOrZero(primary, nil, func(r *domain.AggregatedRow) float64 { return r.Clicks })
			combined.Impressions = metricOrZero(primary, nil, func(r *domain.AggregatedRow) float64 { return r.Impressions })
			combined.Conversions = metricOrZero(primary, nil, func(r *domain.AggregatedRow) float64 { return r.Conversions })
		}

		combined.ROAS = 0
		if combined.Spend > 0 {
			combined.ROAS = combined.Revenue / combined.Spend
		}
		combined.CPA = 0
		if combined.Conversions > 0 {
			combined.CPA = combined.Spend / combined.Conversions
		}

		combined.Breakdown = nil
		if primary != nil {
			breakdown := &domain.ComparisonBreakdown{
				Primary: primary.Totals(),
			}
			if secondary != nil {
				secondaryTotals := secondary.Totals()
				breakdown.Secondary = &secondaryTotals
				deltas := breakdown.Primary.Sub(secondaryTotals)
				breakdown.Deltas = &deltas
			}
			combined.Breakdown = breakdown
		}

		rows = append(rows, &combined)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Spend > rows[j].Spend })

	result := &AggregateResult{
		Rows:   rows,
		Totals: computeTotals(rows),
	}

	// Totais do secundário para comparação: calculados sobre todos os buckets
	// do próprio secundário, não só os que casam com o primário
	if secondaryGrouped != nil && !mergeMode && secondaryGrouped.Len() > 0 {
		secondaryOnly := make([]*domain.AggregatedRow, 0, secondaryGrouped.Len())
		for _, key := range secondaryGrouped.Keys() {
			row, _ := secondaryGrouped.Get(key)
			secondaryOnly = append(secondaryOnly, row)
		}

		secondaryTotals := computeTotals(secondaryOnly)
		result.SecondaryTotals = &secondaryTotals

		deltas := result.Totals.Sub(secondaryTotals)
		result.TotalsDeltas = &deltas
	}

	return result, nil
}

func metricOrZero(primary, secondary *domain.AggregatedRow, get func(*domain.AggregatedRow) float64) float64 {
	var value float64
	if primary != nil {
		value += get(primary)
	}
	if secondary != nil {
		value += get(secondary)
	}
	return value
}
