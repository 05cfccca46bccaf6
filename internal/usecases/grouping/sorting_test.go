package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-report-engine/internal/domain"
)

func TestSortDatasetsByMonth(t *testing.T) {
	datasets := []domain.NormalizedDataset{
		googleDataset("kia-google-jul.csv"),
		googleDataset("kia-google-set.csv"),
		googleDataset("sem-mes.csv"),
		googleDataset("kia-google-ago.csv"),
	}

	sorted := SortDatasetsByMonth(datasets, testNow)

	require.Len(t, sorted, 4)
	assert.Equal(t, "kia-google-set.csv", sorted[0].Meta.FileName)
	assert.Equal(t, "kia-google-ago.csv", sorted[1].Meta.FileName)
	assert.Equal(t, "kia-google-jul.csv", sorted[2].Meta.FileName)
	// Sem mês detectado ordena por último
	assert.Equal(t, "sem-mes.csv", sorted[3].Meta.FileName)

	// A lista original não é alterada
	assert.Equal(t, "kia-google-jul.csv", datasets[0].Meta.FileName)
}

func TestMostRecentDataset(t *testing.T) {
	// now é setembro de 2025
	t.Run("mês corrente disponível", func(t *testing.T) {
		datasets := []domain.NormalizedDataset{
			googleDataset("kia-google-ago.csv"),
			googleDataset("kia-google-set.csv"),
		}
		got := MostRecentDataset(datasets, testNow)
		require.NotNil(t, got)
		assert.Equal(t, "kia-google-set.csv", got.Meta.FileName)
	})

	t.Run("cai para o mês anterior", func(t *testing.T) {
		datasets := []domain.NormalizedDataset{
			googleDataset("kia-google-jun.csv"),
			googleDataset("kia-google-ago.csv"),
		}
		got := MostRecentDataset(datasets, testNow)
		require.NotNil(t, got)
		assert.Equal(t, "kia-google-ago.csv", got.Meta.FileName)
	})

	t.Run("cai para o mais recente da lista", func(t *testing.T) {
		datasets := []domain.NormalizedDataset{
			googleDataset("kia-google-mai.csv"),
			googleDataset("kia-google-jun.csv"),
		}
		got := MostRecentDataset(datasets, testNow)
		require.NotNil(t, got)
		assert.Equal(t, "kia-google-jun.csv", got.Meta.FileName)
	})

	t.Run("mês anterior em janeiro é dezembro do ano passado", func(t *testing.T) {
		january := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
		datasets := []domain.NormalizedDataset{
			googleDataset("kia-google-dez.csv"),
		}
		got := MostRecentDataset(datasets, january)
		require.NotNil(t, got)
		assert.Equal(t, "kia-google-dez.csv", got.Meta.FileName)
	})

	t.Run("lista vazia", func(t *testing.T) {
		assert.Nil(t, MostRecentDataset(nil, testNow))
	})
}

func TestMonthDateRange(t *testing.T) {
	r := MonthDateRange(2025, 8)
	assert.Equal(t, "2025-08-01", r.Start)
	assert.Equal(t, "2025-08-31", r.End)

	feb := MonthDateRange(2024, 2)
	assert.Equal(t, "2024-02-29", feb.End)
}

func TestDatasetMonthYear(t *testing.T) {
	dataset := googleDataset("kia-google-ago.csv")
	month, year, err := DatasetMonthYear(&dataset, testNow)
	require.NoError(t, err)
	assert.Equal(t, 8, month)
	assert.Equal(t, 2025, year)

	invalid := googleDataset("sem-mes.csv")
	_, _, err = DatasetMonthYear(&invalid, testNow)
	assert.Error(t, err)
}
