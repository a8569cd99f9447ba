package ga4

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	ga4domain "github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4/domain"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4/ga4client"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
	"github.com/vfg2006/ga4-pageviews-etl/pkg/utils"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

type GA4Integrator struct {
	Client ga4client.Client
}

func New(client ga4client.Client) *GA4Integrator {
	return &GA4Integrator{
		Client: client,
	}
}

// NewPageViewRequest monta a consulta fixa de page views para o intervalo informado
func NewPageViewRequest(propertyID, startDate, endDate string, pageSize int64) domain.ReportRequest {
	return domain.ReportRequest{
		PropertyID: propertyID,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: append([]string{}, ga4domain.PageViewDimensions...),
		Metrics:    append([]string{}, ga4domain.PageViewMetrics...),
		PageSize:   pageSize,
	}
}

// BuildRunReportRequest converte a consulta para o formato da GA4 Data API
func BuildRunReportRequest(req domain.ReportRequest) *analyticsdata.RunReportRequest {
	dimensions := make([]*analyticsdata.Dimension, 0, len(req.Dimensions))
	for _, name := range req.Dimensions {
		dimensions = append(dimensions, &analyticsdata.Dimension{Name: name})
	}

	metrics := make([]*analyticsdata.Metric, 0, len(req.Metrics))
	for _, name := range req.Metrics {
		metrics = append(metrics, &analyticsdata.Metric{Name: name})
	}

	return &analyticsdata.RunReportRequest{
		Dimensions: dimensions,
		Metrics:    metrics,
		DateRanges: []*analyticsdata.DateRange{
			{StartDate: req.StartDate, EndDate: req.EndDate},
		},
		Limit: req.PageSize,
	}
}

// FetchPageViews executa o relatório e devolve a resposta bruta da API.
// Com PageSize zero é feita uma única chamada; caso contrário as páginas são buscadas
// em sequência até RowCount e concatenadas em uma resposta.
func (s *GA4Integrator) FetchPageViews(ctx context.Context, req domain.ReportRequest) (*analyticsdata.RunReportResponse, error) {
	if err := utils.ValidateReportRange(req.StartDate, req.EndDate); err != nil {
		return nil, &domain.FetchError{
			Err:        domain.ErrFetchInvalidRequest,
			PropertyID: req.PropertyID,
			Cause:      err,
		}
	}

	apiReq := BuildRunReportRequest(req)
	property := req.Property()

	logrus.WithFields(logrus.Fields{
		"property":   property,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
		"page_size":  req.PageSize,
	}).Debug("ga4: executando relatório")

	start := time.Now()
	resp, err := s.Client.RunReport(ctx, property, apiReq)
	if err != nil {
		return nil, s.fetchError(req, err)
	}
	if resp == nil {
		resp = &analyticsdata.RunReportResponse{}
	}

	if req.PageSize > 0 {
		if err := s.fetchRemainingPages(ctx, req, apiReq, resp); err != nil {
			return nil, err
		}
	} else if resp.RowCount > int64(len(resp.Rows)) {
		logrus.WithFields(logrus.Fields{
			"property":  property,
			"rows":      len(resp.Rows),
			"row_count": resp.RowCount,
		}).Warn("ga4: relatório truncado pela API, configure REPORT.PAGE_SIZE para paginar")
	}

	logrus.WithFields(logrus.Fields{
		"property":  property,
		"rows":      len(resp.Rows),
		"row_count": resp.RowCount,
		"duration":  time.Since(start).String(),
	}).Debug("ga4: relatório recebido")

	return resp, nil
}

func (s *GA4Integrator) fetchRemainingPages(
	ctx context.Context,
	req domain.ReportRequest,
	apiReq *analyticsdata.RunReportRequest,
	resp *analyticsdata.RunReportResponse,
) error {
	offset := int64(len(resp.Rows))
	for offset < resp.RowCount {
		pageReq := *apiReq
		pageReq.Offset = offset

		logrus.WithFields(logrus.Fields{
			"property":  req.Property(),
			"offset":    offset,
			"row_count": resp.RowCount,
		}).Debug("ga4: buscando próxima página")

		page, err := s.Client.RunReport(ctx, req.Property(), &pageReq)
		if err != nil {
			return s.fetchError(req, err)
		}
		if page == nil || len(page.Rows) == 0 {
			logrus.WithFields(logrus.Fields{
				"offset":    offset,
				"row_count": resp.RowCount,
			}).Error("ga4: página vazia antes de atingir o total de linhas")
			return &domain.FetchError{
				PropertyID: req.PropertyID,
				Cause:      fmt.Errorf("empty page at offset %d of %d rows", offset, resp.RowCount),
			}
		}

		resp.Rows = append(resp.Rows, page.Rows...)
		offset += int64(len(page.Rows))
	}

	return nil
}

func (s *GA4Integrator) fetchError(req domain.ReportRequest, err error) error {
	fetchErr := &domain.FetchError{
		PropertyID: req.PropertyID,
		StatusCode: ga4domain.StatusCode(err),
		Cause:      err,
	}

	switch {
	case ga4domain.IsUnauthorized(err):
		fetchErr.Err = domain.ErrFetchUnauthorized
	case ga4domain.IsInvalidRequest(err):
		fetchErr.Err = domain.ErrFetchInvalidRequest
	}

	logrus.WithFields(logrus.Fields{
		"property_id": req.PropertyID,
		"status_code": fetchErr.StatusCode,
		"error":       err.Error(),
	}).Error("ga4: erro ao executar relatório")

	return fetchErr
}
