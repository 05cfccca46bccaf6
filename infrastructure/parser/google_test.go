package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-report-engine/internal/domain"
)

const googleCSVSample = `Relatório de campanhas
4 de agosto de 2025 - 31 de agosto de 2025
Status da campanha,Campanha,Custo,Conversões,Impr.,Cliques,Orçamento,Semana
Ativada,Institucional,"1.000,00","10,00","5.000",200,300,2025-08-04
Ativada,Institucional,"500,00","5,00","2.500",100,300,--
Ativada,--,"100,00","1,00",100,10,300,2025-08-04
Total: campanhas,Total: campanhas,"1.600,00","16,00","7.600",310,,
`

func TestParseGoogleCSV(t *testing.T) {
	ds, err := ParseGoogleCSV(googleCSVSample, "kia-google-ago.csv", domain.SourceUpload)
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformGoogle, ds.Meta.Platform)
	assert.Equal(t, "Kia - AGO", ds.Meta.Label)
	assert.Equal(t, "kia-google-ago.csv", ds.Meta.FileName)

	// O período vem da segunda linha do relatório
	require.NotNil(t, ds.Meta.DateRange)
	assert.Equal(t, "2025-08-04", ds.Meta.DateRange.Start)
	assert.Equal(t, "2025-08-31", ds.Meta.DateRange.End)

	// Linhas "--" e de total são descartadas
	require.Len(t, ds.Rows, 2)

	row := ds.Rows[0]
	assert.Equal(t, "Kia", row.AccountName)
	assert.Equal(t, "Institucional", row.CampaignName)
	assert.Equal(t, "2025-08-04", row.Date)
	assert.Equal(t, 1000.0, row.Spend)
	assert.Equal(t, 10.0, row.Conversions)
	assert.Equal(t, 5000.0, row.Impressions)
	assert.Equal(t, 200.0, row.Clicks)
	assert.Equal(t, 300.0, row.CampaignBudget)

	// Conjunto e anúncio ausentes herdam o nome da campanha
	assert.Equal(t, "Institucional", row.AdGroupName)
	assert.Equal(t, "Institucional", row.CreativeName)

	// Sem a coluna Semana, a linha assume o fim do período do relatório
	assert.Equal(t, "2025-08-31", ds.Rows[1].Date)
}

func TestParseGoogleCSVUnknownAccount(t *testing.T) {
	content := `Relatório
qualquer coisa
Status da campanha,Campanha,Custo
Ativada,Institucional,"10,00"
`

	ds, err := ParseGoogleCSV(content, "relatorio.csv", domain.SourceStatic)
	require.NoError(t, err)

	// Nome fora do padrão <conta>-google-<mês>: conta desconhecida e o
	// rótulo cai para o nome do arquivo
	assert.Equal(t, "relatorio.csv", ds.Meta.Label)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, domain.UnknownAccountLabel, ds.Rows[0].AccountName)
}

func TestParseGoogleCSVWithoutPreamble(t *testing.T) {
	content := `Status da campanha,Campanha,Custo,Semana
Ativada,Institucional,"10,00",2025-08-11
`

	ds, err := ParseGoogleCSV(content, "kia-google-ago.csv", domain.SourceStatic)
	require.NoError(t, err)

	assert.Nil(t, ds.Meta.DateRange)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "2025-08-11", ds.Rows[0].Date)
}

func TestParseCSVDispatch(t *testing.T) {
	_, err := ParseCSV(domain.Platform("tiktok"), "a,b\n1,2\n", "x.csv", domain.SourceUpload)
	assert.Error(t, err)

	ds, err := ParseCSV(domain.PlatformGoogle, googleCSVSample, "kia-google-ago.csv", domain.SourceUpload)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformGoogle, ds.Meta.Platform)
}
