package reporting

import (
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/internal/usecases/aggregating"
	"github.com/vfg2006/ad-report-engine/internal/usecases/grouping"
	"github.com/vfg2006/ad-report-engine/internal/usecases/unifying"
)

// AggregateRequest descreve um pedido de agregação sobre datasets persistidos.
// SecondaryDatasetIDs vazio produz um relatório simples; MergeMode soma os
// dois períodos em vez de compará-los
type AggregateRequest struct {
	DatasetIDs          []string          `json:"dataset_ids"`
	SecondaryDatasetIDs []string          `json:"secondary_dataset_ids"`
	GroupBy             domain.GroupBy    `json:"group_by"`
	DateRange           *domain.DateRange `json:"date_range"`
	Filters             *domain.Filters   `json:"filters"`
	MergeMode           bool              `json:"merge_mode"`
}

// UnifiedViewResponse é a visão unificada de um mês, com totais derivados
type UnifiedViewResponse struct {
	MonthID      string                 `json:"month_id"`
	Label        string                 `json:"label"`
	CompareID    string                 `json:"compare_month_id,omitempty"`
	CompareLabel string                 `json:"compare_label,omitempty"`
	Rows         []domain.AggregatedRow `json:"rows"`
	Totals       unifying.UnifiedTotals `json:"totals"`
}

// Reporter expõe as operações de relatório consumidas pela API HTTP
type Reporter interface {
	// AggregateReport carrega os datasets selecionados e agrega as linhas
	// pela dimensão pedida, com comparação ou mesclagem opcional
	AggregateReport(req *AggregateRequest) (*aggregating.AggregateResult, error)

	// ListGoogleMonthGroups agrupa os datasets do Google por mês inferido
	ListGoogleMonthGroups() ([]*grouping.MonthGroup, error)

	// GoogleVirtualDataset materializa um grupo mensal como dataset único,
	// opcionalmente restrito a uma conta
	GoogleVirtualDataset(groupID string, account string) (*domain.NormalizedDataset, error)

	// ListUnifiedMonths lista os meses com dados de qualquer plataforma
	ListUnifiedMonths() ([]*unifying.AvailableMonth, error)

	// UnifiedView monta a visão unificada meta+google de um mês
	UnifiedView(monthID string, groupBy domain.GroupBy) (*UnifiedViewResponse, error)

	// UnifiedComparison monta a visão do mês atual comparada a um mês anterior
	UnifiedComparison(monthID string, compareMonthID string, groupBy domain.GroupBy) (*UnifiedViewResponse, error)
}
