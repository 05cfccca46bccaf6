package reporting

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-report-engine/infrastructure/repository"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/internal/usecases/aggregating"
	"github.com/vfg2006/ad-report-engine/internal/usecases/grouping"
	"github.com/vfg2006/ad-report-engine/internal/usecases/unifying"
)

// Service implementa Reporter sobre o repositório de datasets
type Service struct {
	datasetRepository repository.DatasetRepository
	nowFn             func() time.Time
}

// NewService cria uma nova instância do serviço de relatórios
func NewService(datasetRepo repository.DatasetRepository) *Service {
	return &Service{
		datasetRepository: datasetRepo,
		nowFn:             time.Now,
	}
}

// WithClock substitui o relógio do serviço. Usado em testes para fixar a
// inferência de ano dos meses
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

func (s *Service) loadRows(datasetIDs []string) ([]domain.NormalizedMetric, error) {
	rows := []domain.NormalizedMetric{}

	for _, id := range datasetIDs {
		dataset, err := s.datasetRepository.GetByID(id)
		if err != nil {
			logrus.Error("Erro ao buscar dataset no repositório", map[string]any{
				"datasetID": id,
				"error":     err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
		}

		if dataset == nil {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
		}

		rows = append(rows, dataset.Rows...)
	}

	return rows, nil
}

// AggregateReport carrega os datasets selecionados e agrega as linhas pela
// dimensão pedida, com comparação ou mesclagem opcional
func (s *Service) AggregateReport(req *AggregateRequest) (*aggregating.AggregateResult, error) {
	if req == nil || len(req.DatasetIDs) == 0 {
		return nil, ErrNoDatasetsSelected
	}

	primaryRows, err := s.loadRows(req.DatasetIDs)
	if err != nil {
		return nil, err
	}

	var secondaryRows []domain.NormalizedMetric
	if len(req.SecondaryDatasetIDs) > 0 {
		secondaryRows, err = s.loadRows(req.SecondaryDatasetIDs)
		if err != nil {
			return nil, err
		}
	}

	return aggregating.AggregateWithComparison(
		primaryRows,
		secondaryRows,
		req.GroupBy,
		req.DateRange,
		req.Filters,
		req.MergeMode,
	)
}

// ListGoogleMonthGroups agrupa os datasets do Google por mês inferido do
// nome do arquivo, do mais recente para o mais antigo
func (s *Service) ListGoogleMonthGroups() ([]*grouping.MonthGroup, error) {
	datasets, err := s.datasetRepository.ListByPlatform(domain.PlatformGoogle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}

	return grouping.GroupDatasetsByMonth(datasets, s.nowFn()), nil
}

// GoogleVirtualDataset materializa um grupo mensal do Google como dataset
// único, opcionalmente restrito a uma conta
func (s *Service) GoogleVirtualDataset(groupID string, account string) (*domain.NormalizedDataset, error) {
	groups, err := s.ListGoogleMonthGroups()
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		if group.ID == groupID {
			dataset := grouping.VirtualDataset(group, account)
			return &dataset, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMonthGroupNotFound, groupID)
}

// ListUnifiedMonths lista os meses com dados de qualquer plataforma
func (s *Service) ListUnifiedMonths() ([]*unifying.AvailableMonth, error) {
	datasets, err := s.datasetRepository.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}

	return unifying.GroupDatasetsByMonth(datasets, s.nowFn()), nil
}

func (s *Service) findUnifiedMonth(monthID string) (*unifying.AvailableMonth, error) {
	months, err := s.ListUnifiedMonths()
	if err != nil {
		return nil, err
	}

	for _, month := range months {
		if month.ID == monthID {
			return month, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMonthNotFound, monthID)
}

// UnifiedView monta a visão unificada meta+google de um mês
func (s *Service) UnifiedView(monthID string, groupBy domain.GroupBy) (*UnifiedViewResponse, error) {
	month, err := s.findUnifiedMonth(monthID)
	if err != nil {
		return nil, err
	}

	rows, err := unifying.CreateUnifiedView(month, groupBy)
	if err != nil {
		return nil, err
	}

	return &UnifiedViewResponse{
		MonthID: month.ID,
		Label:   month.Label,
		Rows:    rows,
		Totals:  unifying.CalculateUnifiedTotals(rows, month),
	}, nil
}

// UnifiedComparison monta a visão do mês atual comparada a um mês anterior
func (s *Service) UnifiedComparison(monthID string, compareMonthID string, groupBy domain.GroupBy) (*UnifiedViewResponse, error) {
	monthA, err := s.findUnifiedMonth(monthID)
	if err != nil {
		return nil, err
	}

	monthB, err := s.findUnifiedMonth(compareMonthID)
	if err != nil {
		return nil, err
	}

	rows, err := unifying.CreateComparisonView(monthA, monthB, groupBy)
	if err != nil {
		return nil, err
	}

	return &UnifiedViewResponse{
		MonthID:      monthA.ID,
		Label:        monthA.Label,
		CompareID:    monthB.ID,
		CompareLabel: monthB.Label,
		Rows:         rows,
		Totals:       unifying.CalculateUnifiedTotals(rows, monthA),
	}, nil
}
