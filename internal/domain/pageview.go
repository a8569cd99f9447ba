package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Colunas da tabela de destino, na ordem em que são inseridas
const (
	ColumnDate        = "Date"
	ColumnPageTitle   = "Page_title"
	ColumnDeviceBrand = "Device_brand"
	ColumnCountry     = "Country"
	ColumnState       = "State"
	ColumnCity        = "City"
	ColumnViews       = "Views"
)

// PageViewColumns lista as colunas da tabela de destino
var PageViewColumns = []string{
	ColumnDate,
	ColumnPageTitle,
	ColumnDeviceBrand,
	ColumnCountry,
	ColumnState,
	ColumnCity,
	ColumnViews,
}

// ReportRequest representa a consulta de page views para uma propriedade GA4
type ReportRequest struct {
	PropertyID string
	StartDate  string
	EndDate    string
	Dimensions []string
	Metrics    []string
	PageSize   int64
}

// Property retorna o nome do recurso da propriedade no formato esperado pela API
func (r ReportRequest) Property() string {
	if strings.HasPrefix(r.PropertyID, "properties/") {
		return r.PropertyID
	}
	return "properties/" + r.PropertyID
}

// AnalyticsRecord é uma linha do relatório já rotulada pelas colunas da tabela de destino
type AnalyticsRecord struct {
	Date        string `json:"Date"`
	PageTitle   string `json:"Page_title"`
	DeviceBrand string `json:"Device_brand"`
	Country     string `json:"Country"`
	State       string `json:"State"`
	City        string `json:"City"`
	Views       string `json:"Views"`
}

// ViewCount converte o valor textual de Views para inteiro
func (r AnalyticsRecord) ViewCount() (int64, error) {
	views, err := strconv.ParseInt(strings.TrimSpace(r.Views), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid views value %q: %w", r.Views, err)
	}
	return views, nil
}

// Values retorna os valores do registro na ordem de PageViewColumns, com Views já convertido
func (r AnalyticsRecord) Values() ([]any, error) {
	views, err := r.ViewCount()
	if err != nil {
		return nil, err
	}

	return []any{
		r.Date,
		r.PageTitle,
		r.DeviceBrand,
		r.Country,
		r.State,
		r.City,
		views,
	}, nil
}

// AnalyticsTable mantém os registros na mesma ordem das linhas da resposta
type AnalyticsTable []AnalyticsRecord

func (t AnalyticsTable) Len() int {
	return len(t)
}

// SyncResult resume uma execução do job
type SyncResult struct {
	RunID        string
	FetchedRows  int
	MappedRows   int
	InsertedRows int64
	DryRun       bool
	StartedAt    time.Time
	CompletedAt  time.Time
}

func (r *SyncResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
