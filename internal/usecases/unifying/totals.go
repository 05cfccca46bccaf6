package unifying

import (
	"fmt"

	"github.com/vfg2006/ad-report-engine/internal/domain"
)

// UnifiedSecondaryTotals são os totais do mês B quando a visão carrega
// comparação
type UnifiedSecondaryTotals struct {
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	CPA         float64 `json:"cpa"`
}

// UnifiedTotals são os totais gerais da visão unificada, com as contagens de
// entidades distintas por plataforma
type UnifiedTotals struct {
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	CPA         float64 `json:"cpa"`

	AccountCount  int `json:"account_count"`
	CampaignCount int `json:"campaign_count"`
	AdGroupCount  int `json:"ad_group_count"`
	CreativeCount int `json:"creative_count"`

	SecondaryTotals *UnifiedSecondaryTotals `json:"secondary_totals,omitempty"`
}

// CalculateUnifiedTotals soma as métricas de destaque das linhas (e as do mês
// B quando há comparação). As contagens de entidades saem das linhas brutas do
// mês quando disponíveis, chaveadas por nome + plataforma, com mais fidelidade
// do que contar nomes agregados; sem o mês, cai para contar os nomes das
// linhas agregadas
func CalculateUnifiedTotals(rows []domain.AggregatedRow, month *AvailableMonth) UnifiedTotals {
	var spend, conversions, clicks, impressions float64
	var spendB, conversionsB, clicksB, impressionsB float64
	hasSecondary := false

	for i := range rows {
		row := &rows[i]
		spend += row.Spend
		conversions += row.Conversions
		clicks += row.Clicks
		impressions += row.Impressions

		if row.HasComparison {
			hasSecondary = true
			spendB += row.SpendB
			conversionsB += row.ConversionsB
			clicksB += row.ClicksB
			impressionsB += row.ImpressionsB
		}
	}

	uniqueAccounts := make(map[string]bool)
	uniqueCampaigns := make(map[string]bool)
	uniqueAdGroups := make(map[string]bool)
	uniqueCreatives := make(map[string]bool)

	if month != nil {
		for _, row := range month.AllRows() {
			if row.AccountName != "" {
				uniqueAccounts[fmt.Sprintf("%s-%s", row.AccountName, row.Platform)] = true
			}
			if row.CampaignName != "" {
				uniqueCampaigns[fmt.Sprintf("%s-%s", row.CampaignName, row.Platform)] = true
			}
			if row.AdGroupName != "" {
				uniqueAdGroups[fmt.Sprintf("%s-%s", row.AdGroupName, row.Platform)] = true
			}
			if row.CreativeName != "" {
				uniqueCreatives[fmt.Sprintf("%s-%s", row.CreativeName, row.Platform)] = true
			}
		}
	} else {
		// Sem as linhas brutas só dá para contar nomes agregados
		for i := range rows {
			uniqueAccounts[rows[i].Name] = true
		}
	}

	cpa := 0.0
	if conversions > 0 {
		cpa = spend / conversions
	}

	totals := UnifiedTotals{
		Spend:         spend,
		Conversions:   conversions,
		Clicks:        clicks,
		Impressions:   impressions,
		CPA:           cpa,
		AccountCount:  len(uniqueAccounts),
		CampaignCount: len(uniqueCampaigns),
		AdGroupCount:  len(uniqueAdGroups),
		CreativeCount: len(uniqueCreatives),
	}

	if hasSecondary {
		cpaB := 0.0
		if conversionsB > 0 {
			cpaB = spendB / conversionsB
		}

		totals.SecondaryTotals = &UnifiedSecondaryTotals{
			Spend:       spendB,
			Conversions: conversionsB,
			Clicks:      clicksB,
			Impressions: impressionsB,
			CPA:         cpaB,
		}
	}

	return totals
}
