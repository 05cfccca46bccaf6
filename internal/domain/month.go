package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tabelas de meses compartilhadas por todos os componentes que inferem ou
// exibem meses. Mantidas em um único lugar para garantir consistência
var monthValues = map[string]int{
	"jan": 1, "fev": 2, "mar": 3, "abr": 4,
	"mai": 5, "jun": 6, "jul": 7, "ago": 8,
	"set": 9, "out": 10, "nov": 11, "dez": 12,
}

var monthNames = map[string]string{
	"jan": "Janeiro",
	"fev": "Fevereiro",
	"mar": "Março",
	"abr": "Abril",
	"mai": "Maio",
	"jun": "Junho",
	"jul": "Julho",
	"ago": "Agosto",
	"set": "Setembro",
	"out": "Outubro",
	"nov": "Novembro",
	"dez": "Dezembro",
}

// UnknownAccountLabel é o sentinela para arquivos Google fora do padrão
// <conta>-google-<mês>.<ext>
const UnknownAccountLabel = "Desconhecido"

var (
	spreadsheetExtRe = regexp.MustCompile(`(?i)\.(csv|xlsx|xls)$`)
	googleAccountRe  = regexp.MustCompile(`(?i)^([^-]+)-google-`)
	notLowerAlphaRe  = regexp.MustCompile(`[^a-z]`)
)

// removeDiacritics decompõe em NFD e descarta as marcas de combinação
var removeDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

func baseName(filename string) string {
	if idx := strings.LastIndex(filename, "/"); idx >= 0 {
		return filename[idx+1:]
	}
	return filename
}

// MonthFromFilename extrai a sigla de mês do nome do arquivo.
// O formato esperado é ...-MES.csv (ou .xlsx/.xls), onde MES é a sigla de três
// letras em português. Só aceita o último segmento após o último hífen, e só
// quando, normalizado (minúsculas, sem acentos, só letras), ele é exatamente
// uma sigla válida. Senão, o dataset fica sem mês e fora de qualquer grupo
func MonthFromFilename(filename string) (string, bool) {
	nameWithoutExt := spreadsheetExtRe.ReplaceAllString(baseName(filename), "")

	var lastPart string
	for _, part := range strings.Split(nameWithoutExt, "-") {
		if part != "" {
			lastPart = part
		}
	}

	normalized, _, err := transform.String(removeDiacritics, strings.ToLower(lastPart))
	if err != nil {
		normalized = strings.ToLower(lastPart)
	}
	normalized = notLowerAlphaRe.ReplaceAllString(normalized, "")

	if len(normalized) == 3 {
		if _, ok := monthValues[normalized]; ok {
			return normalized, true
		}
	}

	return "", false
}

// MonthValue converte a sigla em número de mês (1-12), ou 0 quando inválida
func MonthValue(abbr string) int {
	return monthValues[strings.ToLower(abbr)]
}

// MonthName retorna o nome completo do mês para exibição; siglas desconhecidas
// voltam como estão
func MonthName(abbr string) string {
	if name, ok := monthNames[abbr]; ok {
		return name
	}
	return abbr
}

// InferYear infere o ano de um arquivo a partir do mês detectado e da data
// atual. Arquivos nunca são do futuro: se o mês do arquivo é maior que o mês
// corrente, assume o ano anterior. Um ano explícito no nome do arquivo é
// ignorado; essa fragilidade é preservada de propósito, consumidores dependem
// da heurística exata
func InferYear(monthValue int, now time.Time) int {
	currentYear := now.Year()
	currentMonth := int(now.Month())

	if monthValue > currentMonth {
		return currentYear - 1
	}
	return currentYear
}

// MonthSortKey calcula o valor de ordenação (ano*100 + mês). Maior = mais
// recente; datasets sem mês detectado ordenam com a menor chave (0)
func MonthSortKey(year, monthValue int) int {
	if monthValue == 0 {
		return 0
	}
	return year*100 + monthValue
}

// AccountFromFilename extrai o nome da conta de arquivos Google no padrão
// <conta>-google-<mês>.<ext>. Exemplo: "kia-google-ago.csv" -> "Kia".
// Fora do padrão, retorna o sentinela "Desconhecido"
func AccountFromFilename(filename string) string {
	match := googleAccountRe.FindStringSubmatch(baseName(filename))
	if match == nil {
		return UnknownAccountLabel
	}

	account := strings.ToLower(match[1])
	return strings.ToUpper(account[:1]) + account[1:]
}
