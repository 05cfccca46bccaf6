package unifying

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-report-engine/internal/domain"
)

func metaRow(account string, date string, spend float64) domain.NormalizedMetric {
	return domain.NormalizedMetric{
		Platform:    domain.PlatformMeta,
		AccountName: account,
		Date:        date,
		Spend:       spend,
	}
}

func googleRow(account string, date string, spend float64) domain.NormalizedMetric {
	return domain.NormalizedMetric{
		Platform:    domain.PlatformGoogle,
		AccountName: account,
		Date:        date,
		Spend:       spend,
	}
}

func unifiedMonth(metaRows, googleRows []domain.NormalizedMetric) *AvailableMonth {
	month := &AvailableMonth{ID: "ago-2025", Label: "Agosto 2025", Month: 8, Year: 2025}
	if len(metaRows) > 0 {
		month.HasMeta = true
		month.MetaDatasets = []domain.NormalizedDataset{dataset(domain.PlatformMeta, "meta-ago.csv", metaRows...)}
	}
	if len(googleRows) > 0 {
		month.HasGoogle = true
		month.GoogleDatasets = []domain.NormalizedDataset{dataset(domain.PlatformGoogle, "kia-google-ago.csv", googleRows...)}
	}
	return month
}

func TestCreateUnifiedViewRowPerPlatform(t *testing.T) {
	month := unifiedMonth(
		[]domain.NormalizedMetric{
			metaRow("Kia", "2025-08-04", 100),
			metaRow("Kia", "2025-08-05", 50),
		},
		[]domain.NormalizedMetric{
			googleRow("Kia", "2025-08-04", 80),
		},
	)

	rows, err := CreateUnifiedView(month, domain.GroupByAccount)
	require.NoError(t, err)

	// Uma linha por par (valor, plataforma), nunca misturadas
	require.Len(t, rows, 2)
	assert.Equal(t, "meta-Kia", rows[0].ID)
	assert.Equal(t, domain.PlatformMeta, rows[0].Platform)
	assert.Equal(t, 150.0, rows[0].Spend)

	assert.Equal(t, "google-Kia", rows[1].ID)
	assert.Equal(t, 80.0, rows[1].Spend)

	// Cada linha carrega seu próprio breakdown semanal
	require.Len(t, rows[0].WeeklyData, 1)
	assert.Equal(t, 150.0, rows[0].WeeklyData[0].Spend)
}

func TestCreateUnifiedViewBrandsStayAdjacent(t *testing.T) {
	month := unifiedMonth(
		[]domain.NormalizedMetric{
			metaRow("Zontes", "2025-08-04", 10),
			metaRow("Kia", "2025-08-04", 20),
		},
		[]domain.NormalizedMetric{
			googleRow("Zontes", "2025-08-04", 30),
			googleRow("Kia", "2025-08-04", 40),
		},
	)

	rows, err := CreateUnifiedView(month, domain.GroupByAccount)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Ordenação por nome e, no empate, Meta antes de Google: as duas linhas da
	// mesma marca ficam adjacentes
	assert.Equal(t, "meta-Kia", rows[0].ID)
	assert.Equal(t, "google-Kia", rows[1].ID)
	assert.Equal(t, "meta-Zontes", rows[2].ID)
	assert.Equal(t, "google-Zontes", rows[3].ID)
}

func TestCreateUnifiedViewAccentInsensitiveOrder(t *testing.T) {
	month := unifiedMonth(
		[]domain.NormalizedMetric{
			metaRow("Ágil", "2025-08-04", 10),
			metaRow("Beta", "2025-08-04", 10),
			metaRow("atlas", "2025-08-04", 10),
		},
		nil,
	)

	rows, err := CreateUnifiedView(month, domain.GroupByAccount)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Colação pt-BR: acento e caixa não mudam a posição
	assert.Equal(t, "Ágil", rows[0].Name)
	assert.Equal(t, "atlas", rows[1].Name)
	assert.Equal(t, "Beta", rows[2].Name)
}

func TestCreateUnifiedViewRejectsDateDimension(t *testing.T) {
	month := unifiedMonth([]domain.NormalizedMetric{metaRow("Kia", "2025-08-04", 10)}, nil)

	_, err := CreateUnifiedView(month, domain.GroupByDate)
	assert.ErrorIs(t, err, domain.ErrInvalidGroupBy)

	_, err = CreateUnifiedView(month, domain.GroupBy("banana"))
	assert.ErrorIs(t, err, domain.ErrInvalidGroupBy)
}

func TestCreateUnifiedViewSkipsRowsWithoutDimensionValue(t *testing.T) {
	month := unifiedMonth(
		[]domain.NormalizedMetric{
			metaRow("", "2025-08-04", 999),
			metaRow("Kia", "2025-08-04", 10),
		},
		nil,
	)

	rows, err := CreateUnifiedView(month, domain.GroupByAccount)
	require.NoError(t, err)

	// Na visão unificada linha sem valor na dimensão fica de fora; não há
	// bucket de placeholder aqui
	require.Len(t, rows, 1)
	assert.Equal(t, "Kia", rows[0].Name)
}

func TestCreateUnifiedViewRoasNeedsRevenueAndSpend(t *testing.T) {
	month := unifiedMonth(
		[]domain.NormalizedMetric{
			{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-08-04", Spend: 100, Revenue: 300},
			{Platform: domain.PlatformMeta, AccountName: "Zontes", Date: "2025-08-04", Spend: 100},
		},
		nil,
	)

	rows, err := CreateUnifiedView(month, domain.GroupByAccount)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3.0, rows[0].ROAS)
	assert.Equal(t, 0.0, rows[1].ROAS)
}

func TestCreateUnifiedViewBudgetDeduplication(t *testing.T) {
	month := unifiedMonth(
		nil,
		[]domain.NormalizedMetric{
			{Platform: domain.PlatformGoogle, AccountName: "Kia", CampaignName: "C1", Date: "2025-08-04", Spend: 10, CampaignBudget: 500},
			{Platform: domain.PlatformGoogle, AccountName: "Kia", CampaignName: "C1", Date: "2025-08-11", Spend: 10, CampaignBudget: 500},
			{Platform: domain.PlatformGoogle, AccountName: "Kia", CampaignName: "C2", Date: "2025-08-04", Spend: 10, CampaignBudget: 300},
		},
	)

	rows, err := CreateUnifiedView(month, domain.GroupByAccount)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Orçamento contado uma vez por campanha, não por linha
	assert.Equal(t, 800.0, rows[0].CampaignBudget)
}

func TestCreateUnifiedViewMetaBudgetFallback(t *testing.T) {
	t.Run("promove o orçamento de conjunto quando existe", func(t *testing.T) {
		month := unifiedMonth(
			[]domain.NormalizedMetric{
				{Platform: domain.PlatformMeta, AccountName: "Kia", AdGroupName: "G1", Date: "2025-08-04", Spend: 100, AdGroupBudget: 250},
			},
			nil,
		)

		rows, err := CreateUnifiedView(month, domain.GroupByAccount)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 250.0, rows[0].CampaignBudget)
	})

	t.Run("estima o diário pelo gasto quando não há orçamento algum", func(t *testing.T) {
		month := unifiedMonth(
			[]domain.NormalizedMetric{
				metaRow("Kia", "2025-08-04", 100),
				metaRow("Kia", "2025-08-05", 50),
			},
			nil,
		)

		rows, err := CreateUnifiedView(month, domain.GroupByAccount)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		// round(150/2) = 75
		assert.Equal(t, 75.0, rows[0].CampaignBudget)
	})
}
