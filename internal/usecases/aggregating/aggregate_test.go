package aggregating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-report-engine/internal/domain"
)

func TestAggregateGroupsByDimensionInInsertionOrder(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{CampaignName: "B", Date: "2025-08-04", Spend: 10},
		{CampaignName: "A", Date: "2025-08-04", Spend: 20},
		{CampaignName: "B", Date: "2025-08-05", Spend: 30},
	}

	buckets, err := Aggregate(rows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)

	// Ordem de primeira ocorrência, não alfabética
	assert.Equal(t, []string{"B", "A"}, buckets.Keys())

	b, ok := buckets.Get("B")
	require.True(t, ok)
	assert.Equal(t, 40.0, b.Spend)

	a, ok := buckets.Get("A")
	require.True(t, ok)
	assert.Equal(t, 20.0, a.Spend)
}

func TestAggregateInvalidGroupByFailsLoudly(t *testing.T) {
	_, err := Aggregate(nil, domain.GroupBy("banana"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidGroupBy)
}

func TestAggregatePlaceholderBucket(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{CampaignName: "", Date: "2025-08-04", Spend: 10},
		{CampaignName: "X", Date: "2025-08-04", Spend: 20},
		{CampaignName: "", Date: "2025-08-05", Spend: 5},
	}

	buckets, err := Aggregate(rows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)

	// Linhas sem nome não são descartadas, caem no placeholder
	row, ok := buckets.Get("Sem Campanha")
	require.True(t, ok)
	assert.Equal(t, 15.0, row.Spend)
	assert.Equal(t, "Sem Campanha", row.Name)
}

func TestAggregateDateRangeAndFilters(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{AccountName: "Kia", Date: "2025-08-04", Spend: 10},
		{AccountName: "Kia", Date: "2025-09-01", Spend: 99},
		{AccountName: "Zontes", Date: "2025-08-05", Spend: 20},
		{AccountName: "Kia", Date: "", Spend: 7},
	}

	dateRange := &domain.DateRange{Start: "2025-08-01", End: "2025-08-31"}
	filters := &domain.Filters{Accounts: []string{"Kia"}}

	buckets, err := Aggregate(rows, domain.GroupByAccount, dateRange, filters)
	require.NoError(t, err)

	require.Equal(t, 1, buckets.Len())
	kia, _ := buckets.Get("Kia")
	// Fora do período e sem data ficam de fora; Zontes filtrada pela conta
	assert.Equal(t, 10.0, kia.Spend)

	// Sem intervalo não há filtro de data e a linha sem data entra
	buckets, err = Aggregate(rows, domain.GroupByAccount, nil, filters)
	require.NoError(t, err)
	kia, _ = buckets.Get("Kia")
	assert.Equal(t, 116.0, kia.Spend)
}

func TestAggregateBudgetFirstWriteWins(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{Platform: domain.PlatformGoogle, CampaignName: "X", Date: "2025-08-04", Spend: 10, CampaignBudget: 500},
		{Platform: domain.PlatformGoogle, CampaignName: "X", Date: "2025-08-05", Spend: 10, CampaignBudget: 800},
	}

	buckets, err := Aggregate(rows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)

	row, _ := buckets.Get("X")
	// O orçamento se repete em cada linha diária; somar seria contar em dobro
	assert.Equal(t, 500.0, row.CampaignBudget)
}

func TestAggregateMetaBudgetFallback(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{Platform: domain.PlatformMeta, CampaignName: "X", Date: "2025-08-04", Spend: 100},
		{Platform: domain.PlatformMeta, CampaignName: "X", Date: "2025-08-05", Spend: 50},
		{Platform: domain.PlatformMeta, CampaignName: "X", Date: "2025-08-06", Spend: 52},
	}

	buckets, err := Aggregate(rows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)

	row, _ := buckets.Get("X")
	// Sem orçamento na exportação: estimativa diária round(202/3) = 67
	assert.Equal(t, 67.0, row.CampaignBudget)

	// Google nunca recebe a estimativa
	googleRows := []domain.NormalizedMetric{
		{Platform: domain.PlatformGoogle, CampaignName: "Y", Date: "2025-08-04", Spend: 100},
	}
	buckets, err = Aggregate(googleRows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)
	y, _ := buckets.Get("Y")
	assert.Equal(t, 0.0, y.CampaignBudget)
}

func TestAggregateDerivedRatios(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{CampaignName: "X", Date: "2025-08-04", Spend: 100, Revenue: 300, Conversions: 4},
		{CampaignName: "X", Date: "2025-08-05", Spend: 100, Revenue: 100, Conversions: 0},
		{CampaignName: "Z", Date: "2025-08-04", Spend: 0, Revenue: 50},
	}

	buckets, err := Aggregate(rows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)

	x, _ := buckets.Get("X")
	// Derivados saem das somas, nunca da média das razões por linha
	assert.Equal(t, 2.0, x.ROAS)
	assert.Equal(t, 50.0, x.CPA)

	z, _ := buckets.Get("Z")
	assert.Equal(t, 0.0, z.ROAS)
	assert.Equal(t, 0.0, z.CPA)
}

func TestAggregateAttachesBreakdowns(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{CampaignName: "X", Date: "2025-08-04", Spend: 10},
		{CampaignName: "X", Date: "2025-08-11", Spend: 20},
	}

	buckets, err := Aggregate(rows, domain.GroupByCampaign, nil, nil)
	require.NoError(t, err)

	x, _ := buckets.Get("X")
	require.Len(t, x.WeeklyData, 2)
	require.Len(t, x.DailyData, 2)
	// Breakdowns são calculados só com as linhas do próprio bucket
	assert.Equal(t, 20.0, x.WeeklyData[0].Spend)
	assert.Equal(t, 10.0, x.WeeklyData[1].Spend)
}

func TestAggregateByDateKeepsDate(t *testing.T) {
	rows := []domain.NormalizedMetric{
		{CampaignName: "X", Date: "2025-08-04", Spend: 10},
		{CampaignName: "Y", Date: "2025-08-04", Spend: 20},
		{CampaignName: "X", Date: "", Spend: 5},
	}

	buckets, err := Aggregate(rows, domain.GroupByDate, nil, nil)
	require.NoError(t, err)

	day, ok := buckets.Get("2025-08-04")
	require.True(t, ok)
	assert.Equal(t, "2025-08-04", day.Date)
	assert.Equal(t, 30.0, day.Spend)

	// Linha sem data agrupada por data vai para o placeholder
	_, ok = buckets.Get("Sem Data")
	assert.True(t, ok)
}
