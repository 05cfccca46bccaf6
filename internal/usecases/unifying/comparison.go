package unifying

import (
	"fmt"

	"github.com/vfg2006/ad-report-engine/internal/domain"
)

// pctChange calcula a variação percentual (atual - anterior) / anterior * 100.
// Base zero produz 0%, nunca infinito: uma campanha nova aparece com 0%
func pctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// CreateComparisonView compara dois meses unificados. As linhas são casadas
// pela chave composta nome + plataforma (Kia Meta contra Kia Meta do outro
// mês). Linhas só no mês A saem com HasComparison falso; linhas só no mês B
// entram zeradas no mês atual com queda de 100% (exceto o CPA, cuja queda a
// zero não tem percentual com significado e fica em 0)
func CreateComparisonView(monthA, monthB *AvailableMonth, groupBy domain.GroupBy) ([]domain.AggregatedRow, error) {
	rowsA, err := CreateUnifiedView(monthA, groupBy)
	if err != nil {
		return nil, err
	}
	rowsB, err := CreateUnifiedView(monthB, groupBy)
	if err != nil {
		return nil, err
	}

	rowKey := func(row *domain.AggregatedRow) string {
		return fmt.Sprintf("%s::%s", row.Name, row.Platform)
	}

	monthBMap := make(map[string]*domain.AggregatedRow, len(rowsB))
	for i := range rowsB {
		monthBMap[rowKey(&rowsB[i])] = &rowsB[i]
	}

	comparisonRows := make([]domain.AggregatedRow, 0, len(rowsA))

	for i := range rowsA {
		rowA := rowsA[i]
		rowB, matched := monthBMap[rowKey(&rowA)]

		if !matched {
			rowA.HasComparison = false
			comparisonRows = append(comparisonRows, rowA)
			continue
		}

		rowA.SpendB = rowB.Spend
		rowA.ConversionsB = rowB.Conversions
		rowA.CPAB = rowB.CPA
		rowA.ClicksB = rowB.Clicks
		rowA.ImpressionsB = rowB.Impressions

		rowA.SpendChange = pctChange(rowA.Spend, rowB.Spend)
		rowA.ConversionsChange = pctChange(rowA.Conversions, rowB.Conversions)
		rowA.CPAChange = pctChange(rowA.CPA, rowB.CPA)
		rowA.ClicksChange = pctChange(rowA.Clicks, rowB.Clicks)
		rowA.ImpressionsChange = pctChange(rowA.Impressions, rowB.Impressions)
		rowA.HasComparison = true

		comparisonRows = append(comparisonRows, rowA)
	}

	// Linhas do mês B que não existem no mês A: saíram do ar
	keysInA := make(map[string]bool, len(rowsA))
	for i := range rowsA {
		keysInA[rowKey(&rowsA[i])] = true
	}

	for i := range rowsB {
		rowB := rowsB[i]
		if keysInA[rowKey(&rowB)] {
			continue
		}

		synthetic := rowB
		synthetic.ID = fmt.Sprintf("%s-only-b", rowB.ID)
		synthetic.Spend = 0
		synthetic.Conversions = 0
		synthetic.CPA = 0
		synthetic.Clicks = 0
		synthetic.Impressions = 0
		synthetic.SpendB = rowB.Spend
		synthetic.ConversionsB = rowB.Conversions
		synthetic.CPAB = rowB.CPA
		synthetic.ClicksB = rowB.Clicks
		synthetic.ImpressionsB = rowB.Impressions
		synthetic.SpendChange = -100
		synthetic.ConversionsChange = -100
		synthetic.CPAChange = 0
		synthetic.ClicksChange = -100
		synthetic.ImpressionsChange = -100
		synthetic.HasComparison = true

		comparisonRows = append(comparisonRows, synthetic)
	}

	sortUnifiedRows(comparisonRows)

	return comparisonRows, nil
}
