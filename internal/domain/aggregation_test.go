package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeContains(t *testing.T) {
	tests := []struct {
		name  string
		r     *DateRange
		date  string
		wants bool
	}{
		{
			name:  "intervalo nil aceita qualquer data",
			r:     nil,
			date:  "2025-08-01",
			wants: true,
		},
		{
			name:  "intervalo nil aceita até data vazia",
			r:     nil,
			date:  "",
			wants: true,
		},
		{
			name:  "data vazia nunca passa por um filtro ativo",
			r:     &DateRange{Start: "2025-08-01", End: "2025-08-31"},
			date:  "",
			wants: false,
		},
		{
			name:  "limites são inclusivos no início",
			r:     &DateRange{Start: "2025-08-01", End: "2025-08-31"},
			date:  "2025-08-01",
			wants: true,
		},
		{
			name:  "limites são inclusivos no fim",
			r:     &DateRange{Start: "2025-08-01", End: "2025-08-31"},
			date:  "2025-08-31",
			wants: true,
		},
		{
			name:  "data fora do intervalo",
			r:     &DateRange{Start: "2025-08-01", End: "2025-08-31"},
			date:  "2025-09-01",
			wants: false,
		},
		{
			name:  "início vazio deixa o lado esquerdo aberto",
			r:     &DateRange{End: "2025-08-31"},
			date:  "2020-01-01",
			wants: true,
		},
		{
			name:  "fim vazio deixa o lado direito aberto",
			r:     &DateRange{Start: "2025-08-01"},
			date:  "2030-01-01",
			wants: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wants, tt.r.Contains(tt.date))
		})
	}
}

func TestFiltersMatches(t *testing.T) {
	row := &NormalizedMetric{
		AccountName:  "Kia",
		CampaignName: "Lançamento",
		AdGroupName:  "Conjunto A",
		CreativeName: "Criativo 1",
	}

	var nilFilters *Filters
	assert.True(t, nilFilters.Matches(row))
	assert.True(t, (&Filters{}).Matches(row))

	assert.True(t, (&Filters{Accounts: []string{"Kia"}}).Matches(row))
	assert.False(t, (&Filters{Accounts: []string{"Zontes"}}).Matches(row))

	// Filtros de níveis diferentes são independentes e todos precisam casar
	assert.True(t, (&Filters{Accounts: []string{"Kia"}, Campaigns: []string{"Lançamento"}}).Matches(row))
	assert.False(t, (&Filters{Accounts: []string{"Kia"}, Campaigns: []string{"Outra"}}).Matches(row))

	// Linha sem valor na dimensão não casa com um filtro ativo naquele nível
	empty := &NormalizedMetric{AccountName: ""}
	assert.False(t, (&Filters{Accounts: []string{"Kia"}}).Matches(empty))
}

func TestDimensionValue(t *testing.T) {
	row := &NormalizedMetric{
		AccountName:  "Kia",
		CampaignName: "Campanha X",
		AdGroupName:  "Conjunto Y",
		CreativeName: "Anúncio Z",
		Date:         "2025-08-04",
	}

	for _, tt := range []struct {
		groupBy GroupBy
		want    string
	}{
		{GroupByAccount, "Kia"},
		{GroupByCampaign, "Campanha X"},
		{GroupByAdGroup, "Conjunto Y"},
		{GroupByCreative, "Anúncio Z"},
		{GroupByDate, "2025-08-04"},
	} {
		got, err := DimensionValue(row, tt.groupBy)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := DimensionValue(row, GroupBy("banana"))
	assert.ErrorIs(t, err, ErrInvalidGroupBy)
}

func TestMetricTotalsDeriveRatios(t *testing.T) {
	totals := MetricTotals{Spend: 1000, Revenue: 3000, Conversions: 10}
	totals.DeriveRatios()
	assert.Equal(t, 3.0, totals.ROAS)
	assert.Equal(t, 100.0, totals.CPA)

	// Denominador zero produz 0, nunca NaN ou infinito
	zero := MetricTotals{Revenue: 500}
	zero.DeriveRatios()
	assert.Equal(t, 0.0, zero.ROAS)
	assert.Equal(t, 0.0, zero.CPA)
}
