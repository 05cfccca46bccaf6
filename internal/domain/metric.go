package domain

// Platform identifica a origem dos dados de anúncios
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
)

// DatasetSource indica como o dataset chegou ao sistema
type DatasetSource string

const (
	SourceStatic DatasetSource = "static"
	SourceUpload DatasetSource = "upload"
)

// DateRangeMeta é o período declarado pelo próprio arquivo de origem (quando existe)
type DateRangeMeta struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// DatasetMeta descreve um dataset normalizado: de onde veio e como deve ser exibido
type DatasetMeta struct {
	ID        string         `json:"id"`
	Platform  Platform       `json:"platform"`
	Label     string         `json:"label"`
	Source    DatasetSource  `json:"source"`
	FileName  string         `json:"file_name,omitempty"`
	DateRange *DateRangeMeta `json:"date_range,omitempty"`
}

// NormalizedMetric é uma linha de desempenho de anúncio já convertida para o
// esquema comum. Todos os campos numéricos são finitos e >= 0 após o parsing.
type NormalizedMetric struct {
	ID           string   `json:"id"`
	Platform     Platform `json:"platform"`
	Date         string   `json:"date"` // YYYY-MM-DD, vazio quando desconhecida
	AccountName  string   `json:"account_name,omitempty"`
	CampaignName string   `json:"campaign_name,omitempty"`
	AdGroupName  string   `json:"ad_group_name,omitempty"`
	CreativeName string   `json:"creative_name,omitempty"`

	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Conversions float64 `json:"conversions"`

	Leads float64 `json:"leads,omitempty"`
	CTR   float64 `json:"ctr,omitempty"`
	CPC   float64 `json:"cpc,omitempty"`
	CPM   float64 `json:"cpm,omitempty"`

	// Orçamentos repetidos em cada linha diária da mesma campanha/conjunto;
	// a agregação deduplica (primeira ocorrência vence)
	CampaignBudget float64 `json:"campaign_budget,omitempty"`
	AdGroupBudget  float64 `json:"ad_group_budget,omitempty"`
}

// NormalizedDataset é o pacote imutável (meta + linhas) produzido uma única vez
// na ingestão. A agregação nunca altera as linhas, apenas lê
type NormalizedDataset struct {
	Meta DatasetMeta        `json:"meta"`
	Rows []NormalizedMetric `json:"rows"`
}

// FileNameOrLabel retorna o nome de arquivo do dataset, ou o label quando o
// arquivo não tem nome (única informação lida pela inferência de mês)
func (d *NormalizedDataset) FileNameOrLabel() string {
	if d.Meta.FileName != "" {
		return d.Meta.FileName
	}
	return d.Meta.Label
}
