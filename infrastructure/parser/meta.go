package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
)

// Colunas da exportação diária da Meta (Gerenciador de Anúncios, pt-BR)
const (
	metaColAccountName  = "Nome da conta"
	metaColCampaignName = "Nome da campanha"
	metaColAdGroupName  = "Nome do conjunto de anúncios"
	metaColCreativeName = "Nome do anúncio"
	metaColCampaignID   = "Identificação da campanha"
	metaColAdSetID      = "Identificação do conjunto de anúncios"
	metaColAdID         = "Identificação do anúncio"
	metaColDate         = "Dia"
	metaColSpend        = "Valor usado (BRL)"
	metaColImpressions  = "Impressões"
	metaColClicks       = "Cliques no link"
	metaColClicksAll    = "Cliques (todos)"
	metaColLeads        = "Leads"
	metaColConversions  = "Conversões"
	metaColCampBudget   = "Orçamento da campanha"
	metaColGroupBudget  = "Orçamento do conjunto de anúncios"
)

var (
	accountPrefixRe = regexp.MustCompile(`(?i)^Conta\s+`)
	accountSuffixRe = regexp.MustCompile(`(?i)\s+Sun Motors$`)
)

// cleanAccountName remove o prefixo "Conta" e o sufixo da agência do nome da
// conta: "Conta Kia Sun Motors" vira "Kia". A normalização mora aqui no
// parser; a agregação trata o nome recebido como opaco
func cleanAccountName(name string) string {
	name = accountPrefixRe.ReplaceAllString(name, "")
	name = accountSuffixRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

func metaRowID(row map[string]string, idx int) string {
	if id := firstNonEmpty(row, metaColCampaignID, metaColAdSetID, metaColAdID); id != "" {
		return id
	}

	base := strings.TrimSpace(row[metaColCampaignName])
	if base == "" {
		base = "meta"
	}
	return fmt.Sprintf("%s-%d", base, idx)
}

func normalizeMetaRow(row map[string]string, idx int) *domain.NormalizedMetric {
	accountName := strings.TrimSpace(row[metaColAccountName])
	campaignName := strings.TrimSpace(row[metaColCampaignName])

	// Linhas de resumo/total não têm conta nem campanha
	if accountName == "" && campaignName == "" {
		return nil
	}

	date := SanitizeDate(row[metaColDate])
	spend := ParseNumberPtBR(row[metaColSpend])
	impressions := ParseNumberPtBR(row[metaColImpressions])
	clicks := ParseNumberPtBR(firstNonEmpty(row, metaColClicks, metaColClicksAll))
	conversions := ParseNumberPtBR(firstNonEmpty(row, metaColLeads, metaColConversions))
	campaignBudget := ParseNumberPtBR(row[metaColCampBudget])
	adGroupBudget := ParseNumberPtBR(row[metaColGroupBudget])

	// Sem data e sem nenhuma métrica, a linha não informa nada
	if date == "" && spend == 0 && impressions == 0 && clicks == 0 && conversions == 0 {
		return nil
	}

	metric := &domain.NormalizedMetric{
		ID:             metaRowID(row, idx),
		Platform:       domain.PlatformMeta,
		Date:           date,
		AccountName:    cleanAccountName(accountName),
		CampaignName:   campaignName,
		AdGroupName:    strings.TrimSpace(row[metaColAdGroupName]),
		CreativeName:   strings.TrimSpace(row[metaColCreativeName]),
		Spend:          spend,
		Revenue:        0, // A exportação da Meta não traz receita
		Clicks:         clicks,
		Impressions:    impressions,
		Conversions:    conversions,
		Leads:          conversions,
		CampaignBudget: campaignBudget,
		AdGroupBudget:  adGroupBudget,
	}

	if impressions > 0 {
		metric.CPM = utils.RoundWithTwoDecimalPlace(spend / impressions * 1000)
		metric.CTR = utils.RoundWithTwoDecimalPlace(clicks / impressions * 100)
	}
	if clicks > 0 {
		metric.CPC = utils.RoundWithTwoDecimalPlace(spend / clicks)
	}

	return metric
}

// ParseMetaCSV interpreta uma exportação diária da Meta e devolve o dataset
// normalizado
func ParseMetaCSV(csvContent, fileName string, source domain.DatasetSource) (*domain.NormalizedDataset, error) {
	records, err := csvRecords(csvContent)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.NormalizedMetric, 0, len(records))
	for idx, record := range records {
		if metric := normalizeMetaRow(record, idx); metric != nil {
			rows = append(rows, *metric)
		}
	}

	meta, err := BuildDatasetMeta(domain.PlatformMeta, fileName, source, fileName, "")
	if err != nil {
		return nil, err
	}

	return &domain.NormalizedDataset{Meta: meta, Rows: rows}, nil
}
