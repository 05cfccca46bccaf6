package reporting

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-report-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)
	}
}

func storedDataset(id string, platform domain.Platform, fileName string, rows ...domain.NormalizedMetric) *domain.NormalizedDataset {
	return &domain.NormalizedDataset{
		Meta: domain.DatasetMeta{
			ID:       id,
			Platform: platform,
			Label:    fileName,
			Source:   domain.SourceUpload,
			FileName: fileName,
		},
		Rows: rows,
	}
}

func TestAggregateReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo)

	repo.EXPECT().GetByID("ds1").Return(storedDataset("ds1", domain.PlatformMeta, "meta.csv",
		domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-08-04", Spend: 100, Conversions: 2},
		domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Zontes", Date: "2025-08-04", Spend: 50, Conversions: 1},
	), nil)

	result, err := service.AggregateReport(&AggregateRequest{
		DatasetIDs: []string{"ds1"},
		GroupBy:    domain.GroupByAccount,
	})
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, 150.0, result.Totals.Spend)
	assert.Equal(t, 3.0, result.Totals.Conversions)
	assert.Nil(t, result.SecondaryTotals)
}

func TestAggregateReportWithSecondary(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo)

	repo.EXPECT().GetByID("ds1").Return(storedDataset("ds1", domain.PlatformMeta, "meta-ago.csv",
		domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-08-04", Spend: 100},
	), nil)
	repo.EXPECT().GetByID("ds2").Return(storedDataset("ds2", domain.PlatformMeta, "meta-jul.csv",
		domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-07-07", Spend: 80},
	), nil)

	result, err := service.AggregateReport(&AggregateRequest{
		DatasetIDs:          []string{"ds1"},
		SecondaryDatasetIDs: []string{"ds2"},
		GroupBy:             domain.GroupByAccount,
	})
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, 100.0, result.Rows[0].Spend)
	require.NotNil(t, result.Rows[0].Breakdown)
	assert.Equal(t, 80.0, result.Rows[0].Breakdown.Secondary.Spend)
	require.NotNil(t, result.SecondaryTotals)
	assert.Equal(t, 80.0, result.SecondaryTotals.Spend)
}

func TestAggregateReportNoDatasets(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(mocks.NewMockDatasetRepository(ctrl))

	_, err := service.AggregateReport(nil)
	assert.ErrorIs(t, err, ErrNoDatasetsSelected)

	_, err = service.AggregateReport(&AggregateRequest{GroupBy: domain.GroupByAccount})
	assert.ErrorIs(t, err, ErrNoDatasetsSelected)
}

func TestAggregateReportDatasetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo)

	repo.EXPECT().GetByID("sumiu").Return(nil, nil)

	_, err := service.AggregateReport(&AggregateRequest{
		DatasetIDs: []string{"sumiu"},
		GroupBy:    domain.GroupByAccount,
	})
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	assert.Contains(t, err.Error(), "sumiu")
}

func TestAggregateReportRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo)

	repo.EXPECT().GetByID("ds1").Return(nil, errors.New("conexão recusada"))

	_, err := service.AggregateReport(&AggregateRequest{
		DatasetIDs: []string{"ds1"},
		GroupBy:    domain.GroupByAccount,
	})
	assert.ErrorIs(t, err, ErrDatabaseOperation)
}

func TestListGoogleMonthGroups(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo).WithClock(fixedClock())

	repo.EXPECT().ListByPlatform(domain.PlatformGoogle).Return([]domain.NormalizedDataset{
		*storedDataset("g1", domain.PlatformGoogle, "kia-google-ago.csv",
			domain.NormalizedMetric{Platform: domain.PlatformGoogle, AccountName: "Kia", Date: "2025-08-04", Spend: 10},
		),
	}, nil)

	groups, err := service.ListGoogleMonthGroups()
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "ago-2025", groups[0].ID)
	assert.Equal(t, []string{"Kia"}, groups[0].Accounts)
}

func TestGoogleVirtualDatasetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo).WithClock(fixedClock())

	repo.EXPECT().ListByPlatform(domain.PlatformGoogle).Return([]domain.NormalizedDataset{}, nil)

	_, err := service.GoogleVirtualDataset("ago-2025", "")
	assert.ErrorIs(t, err, ErrMonthGroupNotFound)
}

func TestUnifiedView(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo).WithClock(fixedClock())

	repo.EXPECT().List().Return([]domain.NormalizedDataset{
		*storedDataset("m1", domain.PlatformMeta, "meta-ago.csv",
			domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-08-04", Spend: 100, Conversions: 2},
		),
		*storedDataset("g1", domain.PlatformGoogle, "kia-google-ago.csv",
			domain.NormalizedMetric{Platform: domain.PlatformGoogle, AccountName: "Kia", Date: "2025-08-04", Spend: 50, Conversions: 1},
		),
	}, nil)

	view, err := service.UnifiedView("ago-2025", domain.GroupByAccount)
	require.NoError(t, err)

	assert.Equal(t, "ago-2025", view.MonthID)
	assert.Equal(t, "Agosto 2025", view.Label)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, 150.0, view.Totals.Spend)

	// A mesma conta nas duas plataformas conta em dobro
	assert.Equal(t, 2, view.Totals.AccountCount)
}

func TestUnifiedViewMonthNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo).WithClock(fixedClock())

	repo.EXPECT().List().Return([]domain.NormalizedDataset{}, nil)

	_, err := service.UnifiedView("dez-2030", domain.GroupByAccount)
	assert.ErrorIs(t, err, ErrMonthNotFound)
}

func TestUnifiedComparison(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo).WithClock(fixedClock())

	datasets := []domain.NormalizedDataset{
		*storedDataset("m1", domain.PlatformMeta, "meta-ago.csv",
			domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-08-04", Spend: 200},
		),
		*storedDataset("m2", domain.PlatformMeta, "meta-jul.csv",
			domain.NormalizedMetric{Platform: domain.PlatformMeta, AccountName: "Kia", Date: "2025-07-07", Spend: 100},
		),
	}

	// findUnifiedMonth busca a lista uma vez por mês pedido
	repo.EXPECT().List().Return(datasets, nil).Times(2)

	view, err := service.UnifiedComparison("ago-2025", "jul-2025", domain.GroupByAccount)
	require.NoError(t, err)

	assert.Equal(t, "ago-2025", view.MonthID)
	assert.Equal(t, "jul-2025", view.CompareID)
	assert.Equal(t, "Julho 2025", view.CompareLabel)

	require.Len(t, view.Rows, 1)
	assert.True(t, view.Rows[0].HasComparison)
	assert.Equal(t, 200.0, view.Rows[0].Spend)
	assert.Equal(t, 100.0, view.Rows[0].SpendB)
	assert.Equal(t, 100.0, view.Rows[0].SpendChange)

	require.NotNil(t, view.Totals.SecondaryTotals)
	assert.Equal(t, 100.0, view.Totals.SecondaryTotals.Spend)
}

func TestServiceFailuresWrapDatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDatasetRepository(ctrl)
	service := NewService(repo).WithClock(fixedClock())

	dbErr := fmt.Errorf("timeout")
	repo.EXPECT().ListByPlatform(domain.PlatformGoogle).Return(nil, dbErr)
	_, err := service.ListGoogleMonthGroups()
	assert.ErrorIs(t, err, ErrDatabaseOperation)

	repo.EXPECT().List().Return(nil, dbErr)
	_, err = service.ListUnifiedMonths()
	assert.ErrorIs(t, err, ErrDatabaseOperation)
}
