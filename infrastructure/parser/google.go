package parser

import (
	"fmt"
	"strings"

	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
)

// Colunas da exportação semanal do Google Ads (pt-BR)
const (
	googleColCampaign     = "Campanha"
	googleColCampaignEN   = "Campaign"
	googleColCost         = "Custo"
	googleColConversions  = "Conversões"
	googleColImpressions  = "Impr."
	googleColImpressions2 = "Impressões"
	googleColClicks       = "Cliques"
	googleColInteractions = "Interações"
	googleColBudget       = "Orçamento"
	googleColWeek         = "Semana"
	googleColAdGroup      = "Conjunto"
	googleColAdGroupEN    = "Ad group"
	googleColCreative     = "Anúncio"
	googleColCreativeEN   = "Ad"
)

// headerMarker identifica a linha de cabeçalho real dos relatórios Google,
// que vem precedida de linhas de título e período
const headerMarker = "Status da campanha"

// extractDataSection descarta o preâmbulo do relatório e devolve o CSV a
// partir da linha de cabeçalho
func extractDataSection(csvContent string) string {
	lines := strings.Split(csvContent, "\n")
	for i, line := range lines {
		if strings.Contains(line, headerMarker) {
			return strings.Join(lines[i:], "\n")
		}
	}
	return csvContent
}

// extractRangeLine devolve a segunda linha do relatório, onde o Google grava
// o período coberto
func extractRangeLine(csvContent string) string {
	lines := strings.SplitN(csvContent, "\n", 3)
	if len(lines) >= 2 {
		return strings.TrimRight(lines[1], "\r")
	}
	return ""
}

func normalizeGoogleRow(row map[string]string, idx int, defaultDate, accountName string) *domain.NormalizedMetric {
	campaign := strings.TrimSpace(firstNonEmpty(row, googleColCampaign, googleColCampaignEN))

	// Linhas de resumo/total não interessam
	if campaign == "" || campaign == "--" || strings.HasPrefix(campaign, "Total") {
		return nil
	}

	spend := ParseNumberPtBR(row[googleColCost])
	conversions := ParseNumberPtBR(row[googleColConversions])
	impressions := ParseNumberPtBR(firstNonEmpty(row, googleColImpressions, googleColImpressions2))
	clicks := ParseNumberPtBR(firstNonEmpty(row, googleColClicks, googleColInteractions))
	campaignBudget := ParseNumberPtBR(row[googleColBudget])

	// A coluna Semana traz a segunda-feira da semana já agregada
	date := strings.TrimSpace(row[googleColWeek])
	if date == "" || date == "--" || !utils.IsISODate(date) {
		date = defaultDate
	}

	if spend == 0 && impressions == 0 && clicks == 0 && conversions == 0 {
		return nil
	}

	adGroup := strings.TrimSpace(firstNonEmpty(row, googleColAdGroup, googleColAdGroupEN))
	if adGroup == "" {
		adGroup = campaign
	}
	creative := strings.TrimSpace(firstNonEmpty(row, googleColCreative, googleColCreativeEN))
	if creative == "" {
		creative = campaign
	}

	metric := &domain.NormalizedMetric{
		ID:             fmt.Sprintf("%s-%s-%s-%d", accountName, campaign, date, idx),
		Platform:       domain.PlatformGoogle,
		Date:           date,
		AccountName:    accountName, // Vem do nome do arquivo, não do CSV
		CampaignName:   campaign,
		AdGroupName:    adGroup,
		CreativeName:   creative,
		Spend:          spend,
		Revenue:        0,
		Clicks:         clicks,
		Impressions:    impressions,
		Conversions:    conversions,
		Leads:          conversions,
		CampaignBudget: campaignBudget,
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

// ParseGoogleCSV interpreta uma exportação semanal do Google Ads no padrão
// multi-conta (<conta>-google-<mês>.csv), injetando o nome da conta extraído
// do nome do arquivo em todas as linhas
func ParseGoogleCSV(csvContent, fileName string, source domain.DatasetSource) (*domain.NormalizedDataset, error) {
	accountName := domain.AccountFromFilename(fileName)
	dataSection := extractDataSection(csvContent)
	rangeText := extractRangeLine(csvContent)

	rangeParts := strings.SplitN(rangeText, "-", 2)
	defaultDate := ""
	if len(rangeParts) == 2 {
		defaultDate = SanitizeDate(strings.TrimSpace(rangeParts[1]))
	}
	if defaultDate == "" {
		defaultDate = SanitizeDate(strings.TrimSpace(rangeParts[0]))
	}

	records, err := csvRecords(dataSection)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.NormalizedMetric, 0, len(records))
	for idx, record := range records {
		if metric := normalizeGoogleRow(record, idx, defaultDate, accountName); metric != nil {
			rows = append(rows, *metric)
		}
	}

	label := fileName
	if monthAbbr, ok := domain.MonthFromFilename(fileName); ok {
		label = fmt.Sprintf("%s - %s", accountName, strings.ToUpper(monthAbbr))
	}

	meta, err := BuildDatasetMeta(domain.PlatformGoogle, label, source, fileName, rangeText)
	if err != nil {
		return nil, err
	}

	return &domain.NormalizedDataset{Meta: meta, Rows: rows}, nil
}

// ParseCSV escolhe o parser pela plataforma declarada
func ParseCSV(platform domain.Platform, csvContent, fileName string, source domain.DatasetSource) (*domain.NormalizedDataset, error) {
	switch platform {
	case domain.PlatformMeta:
		return ParseMetaCSV(csvContent, fileName, source)
	case domain.PlatformGoogle:
		return ParseGoogleCSV(csvContent, fileName, source)
	}
	return nil, fmt.Errorf("plataforma desconhecida: %q", platform)
}
