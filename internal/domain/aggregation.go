package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidGroupBy indica uma dimensão de agrupamento desconhecida
var ErrInvalidGroupBy = errors.New("dimensão de agrupamento inválida")

// GroupBy seleciona qual dimensão vira a chave de agrupamento
type GroupBy string

const (
	GroupByAccount  GroupBy = "account"
	GroupByCampaign GroupBy = "campaign"
	GroupByAdGroup  GroupBy = "adgroup"
	GroupByCreative GroupBy = "creative"
	GroupByDate     GroupBy = "date"
)

// Valid retorna verdadeiro se o valor é uma dimensão conhecida
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByAccount, GroupByCampaign, GroupByAdGroup, GroupByCreative, GroupByDate:
		return true
	}
	return false
}

// Placeholders exibidos quando a linha não tem nome na dimensão agrupada.
// Buckets nunca são descartados por falta de nome
const (
	NoAccountLabel  = "Sem Conta"
	NoCampaignLabel = "Sem Campanha"
	NoAdGroupLabel  = "Sem Conjunto"
	NoCreativeLabel = "Sem Anúncio"
	NoDateLabel     = "Sem Data"
)

// DimensionValue lê o valor da dimensão pedida na linha, com despacho
// explícito por dimensão. Retorna vazio quando a linha não tem valor na
// dimensão
func DimensionValue(row *NormalizedMetric, groupBy GroupBy) (string, error) {
	switch groupBy {
	case GroupByAccount:
		return row.AccountName, nil
	case GroupByCampaign:
		return row.CampaignName, nil
	case GroupByAdGroup:
		return row.AdGroupName, nil
	case GroupByCreative:
		return row.CreativeName, nil
	case GroupByDate:
		return row.Date, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGroupBy, groupBy)
}

// DimensionPlaceholder retorna o placeholder localizado da dimensão
func DimensionPlaceholder(groupBy GroupBy) string {
	switch groupBy {
	case GroupByAccount:
		return NoAccountLabel
	case GroupByCampaign:
		return NoCampaignLabel
	case GroupByAdGroup:
		return NoAdGroupLabel
	case GroupByCreative:
		return NoCreativeLabel
	case GroupByDate:
		return NoDateLabel
	}
	return ""
}

// DateRange filtra linhas por comparação inclusiva de datas ISO.
// Limite vazio significa sem restrição daquele lado
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains verifica se a data cai dentro do intervalo. Datas vazias nunca
// passam por um filtro de período
func (r *DateRange) Contains(date string) bool {
	if r == nil {
		return true
	}
	if date == "" {
		return false
	}
	return (r.Start == "" || date >= r.Start) && (r.End == "" || date <= r.End)
}

// Filters são quatro conjuntos independentes de igualdade por dimensão.
// Conjunto vazio significa sem restrição naquele nível; a hierarquia entre
// níveis é responsabilidade do chamador
type Filters struct {
	Accounts  []string `json:"accounts"`
	Campaigns []string `json:"campaigns"`
	AdGroups  []string `json:"ad_groups"`
	Creatives []string `json:"creatives"`
}

// MatchesFilter verifica se o valor pertence ao conjunto selecionado
func MatchesFilter(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if value == "" {
		return false
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// Matches aplica os quatro filtros de dimensão à linha
func (f *Filters) Matches(row *NormalizedMetric) bool {
	if f == nil {
		return true
	}
	return MatchesFilter(row.AccountName, f.Accounts) &&
		MatchesFilter(row.CampaignName, f.Campaigns) &&
		MatchesFilter(row.AdGroupName, f.AdGroups) &&
		MatchesFilter(row.CreativeName, f.Creatives)
}

// MetricTotals é o resumo mínimo reutilizado para totais por bucket e gerais
type MetricTotals struct {
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Conversions float64 `json:"conversions"`
	ROAS        float64 `json:"roas"`
	CPA         float64 `json:"cpa"`
}

// DeriveRatios recalcula ROAS e CPA a partir das somas. Denominador zero
// produz 0, nunca NaN ou infinito
func (t *MetricTotals) DeriveRatios() {
	t.ROAS = 0
	if t.Spend > 0 {
		t.ROAS = t.Revenue / t.Spend
	}
	t.CPA = 0
	if t.Conversions > 0 {
		t.CPA = t.Spend / t.Conversions
	}
}

// Add soma elemento a elemento, sem tocar nos derivados
func (t *MetricTotals) Add(other MetricTotals) {
	t.Spend += other.Spend
	t.Revenue += other.Revenue
	t.Clicks += other.Clicks
	t.Impressions += other.Impressions
	t.Conversions += other.Conversions
}

// Sub retorna a diferença elemento a elemento (deltas primário - secundário)
func (t MetricTotals) Sub(other MetricTotals) MetricTotals {
	return MetricTotals{
		Spend:       t.Spend - other.Spend,
		Revenue:     t.Revenue - other.Revenue,
		Clicks:      t.Clicks - other.Clicks,
		Impressions: t.Impressions - other.Impressions,
		Conversions: t.Conversions - other.Conversions,
		ROAS:        t.ROAS - other.ROAS,
		CPA:         t.CPA - other.CPA,
	}
}

// WeeklyBreakdown resume uma semana-calendário (segunda a domingo)
type WeeklyBreakdown struct {
	WeekStart   string  `json:"week_start"` // YYYY-MM-DD
	WeekRange   string  `json:"week_range"` // ex: "2025-07-28 - 2025-08-03"
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Conversions float64 `json:"conversions"`
}

// DailyBreakdown resume um dia-calendário
type DailyBreakdown struct {
	Date        string  `json:"date"`         // YYYY-MM-DD
	DateDisplay string  `json:"date_display"` // DD/MM/YYYY
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Conversions float64 `json:"conversions"`
}

// ComparisonBreakdown carrega os dois períodos lado a lado por bucket
type ComparisonBreakdown struct {
	Primary   MetricTotals  `json:"primary"`
	Secondary *MetricTotals `json:"secondary,omitempty"`
	Deltas    *MetricTotals `json:"deltas,omitempty"`
}

// AggregatedRow é um bucket de saída da agregação. Criada a cada chamada,
// nunca persistida
type AggregatedRow struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Platform Platform `json:"platform"`

	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Conversions float64 `json:"conversions"`
	ROAS        float64 `json:"roas"`
	CPA         float64 `json:"cpa"`

	CampaignBudget float64 `json:"campaign_budget,omitempty"`
	AdGroupBudget  float64 `json:"ad_group_budget,omitempty"`
	Date           string  `json:"date,omitempty"`

	WeeklyData []WeeklyBreakdown    `json:"weekly_data,omitempty"`
	DailyData  []DailyBreakdown     `json:"daily_data,omitempty"`
	Breakdown  *ComparisonBreakdown `json:"breakdown,omitempty"`

	// Campos do mês B (comparação mês a mês da visão unificada)
	SpendB       float64 `json:"spend_b,omitempty"`
	ConversionsB float64 `json:"conversions_b,omitempty"`
	CPAB         float64 `json:"cpa_b,omitempty"`
	ClicksB      float64 `json:"clicks_b,omitempty"`
	ImpressionsB float64 `json:"impressions_b,omitempty"`

	// Variações percentuais em relação ao mês B
	SpendChange       float64 `json:"spend_change,omitempty"`
	ConversionsChange float64 `json:"conversions_change,omitempty"`
	CPAChange         float64 `json:"cpa_change,omitempty"`
	ClicksChange      float64 `json:"clicks_change,omitempty"`
	ImpressionsChange float64 `json:"impressions_change,omitempty"`

	HasComparison bool `json:"has_comparison,omitempty"`
}

// Totals extrai o resumo de métricas da linha com os derivados recalculados
func (r *AggregatedRow) Totals() MetricTotals {
	t := MetricTotals{
		Spend:       r.Spend,
		Revenue:     r.Revenue,
		Clicks:      r.Clicks,
		Impressions: r.Impressions,
		Conversions: r.Conversions,
		ROAS:        r.ROAS,
		CPA:         r.CPA,
	}
	return t
}
