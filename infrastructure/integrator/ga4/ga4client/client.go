package ga4client

import (
	"context"

	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

//go:generate mockgen -source=client.go -destination=../mocks/mock_client.go -package=mocks

type Client interface {
	RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error)
}

type GA4Client struct {
	service *analyticsdata.Service
}

// NewClient cria o cliente da GA4 Data API com as credenciais informadas explicitamente.
// opts permite trocar endpoint e transporte (usado nos testes).
func NewClient(ctx context.Context, cfg config.Directories, opts ...option.ClientOption) (Client, error) {
	clientOpts := []option.ClientOption{
		option.WithScopes(analyticsdata.AnalyticsReadonlyScope),
	}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := analyticsdata.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, &domain.FetchError{
			Err:        domain.ErrFetchUnauthorized,
			PropertyID: cfg.PropertyID,
			Cause:      err,
		}
	}

	return &GA4Client{service: service}, nil
}

// RunReport executa uma única chamada runReport para a propriedade
func (c *GA4Client) RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return c.service.Properties.RunReport(property, req).Context(ctx).Do()
}
