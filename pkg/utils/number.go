package utils

import "math"

// RoundWithTwoDecimalPlace arredonda razões derivadas (CPC, CPM, CTR) para
// duas casas decimais
func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// RoundWholeNumber arredonda para o inteiro mais próximo. Usado na estimativa
// de orçamento diário da Meta, que é exibida sem centavos
func RoundWholeNumber(f float64) float64 {
	return math.Round(f)
}
