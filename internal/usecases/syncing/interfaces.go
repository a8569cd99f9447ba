package syncing

import (
	"context"

	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/repository"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// Fetcher define a busca do relatório bruto de page views
type Fetcher interface {
	// FetchPageViews executa o relatório para a propriedade e o intervalo informados
	FetchPageViews(ctx context.Context, req domain.ReportRequest) (*analyticsdata.RunReportResponse, error)
}

// Mapper converte a resposta bruta na tabela de registros
type Mapper func(resp *analyticsdata.RunReportResponse) (domain.AnalyticsTable, error)

// Loader grava a tabela no banco de destino
type Loader = repository.PageViewRepository
