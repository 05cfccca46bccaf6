package parser

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
)

// fullMonthValues mapeia nomes completos de meses em português (como aparecem
// nas linhas de período dos relatórios) para o número do mês
var fullMonthValues = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"março":     3,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

var (
	dotThousandsRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	brDateRe       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	writtenDateRe  = regexp.MustCompile(`(\d{1,2})\s+de\s+([\p{L}]+)\s+de\s+(\d{4})`)
	writtenRangeRe = regexp.MustCompile(`(?i)(\d{1,2}\s+de\s+[\p{L}]+\s+de\s+\d{4})\s*-\s*(\d{1,2}\s+de\s+[\p{L}]+\s+de\s+\d{4})`)
)

// ParseNumberPtBR converte valores numéricos dos relatórios para float64.
// Aceita tanto o formato brasileiro (1.234,56) quanto o americano (1234.56) e
// ignora símbolos de moeda e porcentagem. Valores ilegíveis ou negativos viram
// 0: as métricas normalizadas são sempre finitas e não negativas
func ParseNumberPtBR(value string) float64 {
	str := strings.TrimSpace(value)
	str = strings.TrimPrefix(str, "R$")
	str = strings.TrimSuffix(str, "%")
	str = strings.ReplaceAll(str, " ", "")
	str = strings.ReplaceAll(str, " ", "")
	if str == "" {
		return 0
	}

	hasComma := strings.Contains(str, ",")
	hasDot := strings.Contains(str, ".")

	switch {
	case hasComma && hasDot:
		// Formato brasileiro: ponto é milhar, vírgula é decimal
		str = strings.ReplaceAll(str, ".", "")
		str = strings.Replace(str, ",", ".", 1)
	case hasComma:
		str = strings.Replace(str, ",", ".", 1)
	case hasDot && dotThousandsRe.MatchString(str):
		// "5.000" é milhar no formato brasileiro, não 5 com três casas
		str = strings.ReplaceAll(str, ".", "")
	}

	parsed, err := strconv.ParseFloat(str, 64)
	if err != nil || parsed < 0 {
		return 0
	}

	return parsed
}

// SanitizeDate normaliza datas dos relatórios para YYYY-MM-DD. Aceita ISO,
// DD/MM/YYYY e "12 de agosto de 2025". Datas ilegíveis viram string vazia
func SanitizeDate(value string) string {
	str := strings.TrimSpace(value)
	if str == "" {
		return ""
	}

	if utils.IsISODate(str) {
		return str
	}

	if match := brDateRe.FindStringSubmatch(str); match != nil {
		day, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		year, _ := strconv.Atoi(match[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}

	if match := writtenDateRe.FindStringSubmatch(str); match != nil {
		day, _ := strconv.Atoi(match[1])
		month := fullMonthValues[strings.ToLower(match[2])]
		year, _ := strconv.Atoi(match[3])
		if month > 0 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		}
	}

	return ""
}

// InferRangeFromText procura um período "X de mês de ano - Y de mês de ano"
// no texto (segunda linha dos relatórios Google)
func InferRangeFromText(text string) *domain.DateRangeMeta {
	match := writtenRangeRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	start := SanitizeDate(match[1])
	end := SanitizeDate(match[2])
	if start == "" && end == "" {
		return nil
	}

	return &domain.DateRangeMeta{Start: start, End: end}
}

// BuildDatasetMeta monta a identidade de um dataset recém-ingerido
func BuildDatasetMeta(
	platform domain.Platform,
	label string,
	source domain.DatasetSource,
	fileName string,
	rangeText string,
) (domain.DatasetMeta, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return domain.DatasetMeta{}, errors.Wrap(err, "gerando id do dataset")
	}

	return domain.DatasetMeta{
		ID:        id,
		Platform:  platform,
		Label:     label,
		Source:    source,
		FileName:  fileName,
		DateRange: InferRangeFromText(rangeText),
	}, nil
}

// csvRecords lê um CSV com cabeçalho e devolve cada linha como mapa
// coluna -> valor. Linhas mais curtas que o cabeçalho são preenchidas com
// vazio; linhas vazias são puladas
func csvRecords(content string) ([]map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "lendo CSV")
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV vazio")
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)

	for _, record := range records[1:] {
		empty := true
		row := make(map[string]string, len(header))
		for i, column := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			row[strings.TrimSpace(column)] = value
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func firstNonEmpty(row map[string]string, columns ...string) string {
	for _, column := range columns {
		if value := strings.TrimSpace(row[column]); value != "" {
			return value
		}
	}
	return ""
}
