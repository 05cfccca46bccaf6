package utils

import (
	"fmt"
	"regexp"
	"time"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsISODate verifica se a string está no formato YYYY-MM-DD
func IsISODate(date string) bool {
	return isoDateRe.MatchString(date)
}

// ParseDate converte uma string YYYY-MM-DD em time.Time. String vazia retorna
// o zero value sem erro
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// AddDaysISO soma dias a uma data ISO e devolve de volta em ISO.
// Datas malformadas voltam como estão
func AddDaysISO(date string, days int) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.AddDate(0, 0, days).Format("2006-01-02")
}

// FormatDateBR reformata YYYY-MM-DD para DD/MM/YYYY. Datas fora do formato
// voltam como estão
func FormatDateBR(date string) string {
	if !IsISODate(date) {
		return date
	}
	return fmt.Sprintf("%s/%s/%s", date[8:10], date[5:7], date[0:4])
}
