package aggregating

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/ad-report-engine/internal/domain"
	"github.com/vfg2006/ad-report-engine/pkg/utils"
)

// weekStart devolve a segunda-feira da semana ISO da data.
// Domingo recua 6 dias; os demais dias recuam (dia-da-semana - 1)
func weekStart(date time.Time) time.Time {
	day := int(date.Weekday()) // 0 = domingo
	daysToSubtract := day - 1
	if day == 0 {
		daysToSubtract = 6
	}
	return date.AddDate(0, 0, -daysToSubtract)
}

// CalculateWeeklyBreakdown agrupa as linhas por semana-calendário.
// Para dados diários (Meta) a semana é calculada a partir da data da linha;
// dados já semanais (Google) carregam a própria segunda-feira como data e caem
// no seu próprio bucket sem alteração. Linhas com data vazia ou malformada
// são descartadas silenciosamente. Resultado em ordem decrescente de semana
func CalculateWeeklyBreakdown(items []domain.NormalizedMetric) []domain.WeeklyBreakdown {
	weekly := make(map[string]*domain.WeeklyBreakdown)
	var order []string

	for i := range items {
		item := &items[i]
		if item.Date == "" || !utils.IsISODate(item.Date) {
			continue
		}

		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			continue
		}

		start := weekStart(date).Format("2006-01-02")

		week, ok := weekly[start]
		if !ok {
			end := utils.AddDaysISO(start, 6)
			week = &domain.WeeklyBreakdown{
				WeekStart: start,
				WeekRange: fmt.Sprintf("%s - %s", start, end),
			}
			weekly[start] = week
			order = append(order, start)
		}

		week.Spend += item.Spend
		week.Revenue += item.Revenue
		week.Clicks += item.Clicks
		week.Impressions += item.Impressions
		week.Conversions += item.Conversions
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i] > order[j] })

	result := make([]domain.WeeklyBreakdown, 0, len(order))
	for _, key := range order {
		result = append(result, *weekly[key])
	}

	return result
}

// CalculateDailyBreakdown agrupa as linhas por dia-calendário, com o label
// reformatado para DD/MM/YYYY. Resultado em ordem decrescente de data
func CalculateDailyBreakdown(items []domain.NormalizedMetric) []domain.DailyBreakdown {
	daily := make(map[string]*domain.DailyBreakdown)
	var order []string

	for i := range items {
		item := &items[i]
		if item.Date == "" || !utils.IsISODate(item.Date) {
			continue
		}

		day, ok := daily[item.Date]
		if !ok {
			day = &domain.DailyBreakdown{
				Date:        item.Date,
				DateDisplay: utils.FormatDateBR(item.Date),
			}
			daily[item.Date] = day
			order = append(order, item.Date)
		}

		day.Spend += item.Spend
		day.Revenue += item.Revenue
		day.Clicks += item.Clicks
		day.Impressions += item.Impressions
		day.Conversions += item.Conversions
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i] > order[j] })

	result := make([]domain.DailyBreakdown, 0, len(order))
	for _, key := range order {
		result = append(result, *daily[key])
	}

	return result
}
