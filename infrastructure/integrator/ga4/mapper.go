package ga4

import (
	"fmt"

	ga4domain "github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4/domain"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

// columnLayout guarda a posição de cada dimensão/métrica esperada dentro das linhas da resposta
type columnLayout struct {
	date, pageTitle, deviceBrand, country, region, city int
	views                                               int
	minDimensions, minMetrics                           int
}

// MapReport converte a resposta em uma AnalyticsTable: um registro por linha, na mesma ordem
func MapReport(resp *analyticsdata.RunReportResponse) (domain.AnalyticsTable, error) {
	if resp == nil || len(resp.Rows) == 0 {
		return domain.AnalyticsTable{}, nil
	}

	layout, err := resolveLayout(resp)
	if err != nil {
		return nil, err
	}

	table := make(domain.AnalyticsTable, 0, len(resp.Rows))
	for i, row := range resp.Rows {
		record, err := layout.mapRow(i, row)
		if err != nil {
			return nil, err
		}
		table = append(table, record)
	}

	return table, nil
}

// resolveLayout usa os headers da resposta quando presentes; sem headers vale a ordem da requisição
func resolveLayout(resp *analyticsdata.RunReportResponse) (*columnLayout, error) {
	dims := positions(ga4domain.PageViewDimensions)
	metrics := positions(ga4domain.PageViewMetrics)

	if len(resp.DimensionHeaders) > 0 {
		names := make([]string, 0, len(resp.DimensionHeaders))
		for _, h := range resp.DimensionHeaders {
			names = append(names, headerName(h))
		}
		resolved, err := lookup("dimension", ga4domain.PageViewDimensions, names)
		if err != nil {
			return nil, err
		}
		dims = resolved
	}

	if len(resp.MetricHeaders) > 0 {
		names := make([]string, 0, len(resp.MetricHeaders))
		for _, h := range resp.MetricHeaders {
			if h == nil {
				names = append(names, "")
				continue
			}
			names = append(names, h.Name)
		}
		resolved, err := lookup("metric", ga4domain.PageViewMetrics, names)
		if err != nil {
			return nil, err
		}
		metrics = resolved
	}

	layout := &columnLayout{
		date:        dims[ga4domain.DimensionDate],
		pageTitle:   dims[ga4domain.DimensionPageTitle],
		deviceBrand: dims[ga4domain.DimensionDeviceBrand],
		country:     dims[ga4domain.DimensionCountry],
		region:      dims[ga4domain.DimensionRegion],
		city:        dims[ga4domain.DimensionCity],
		views:       metrics[ga4domain.MetricPageViews],
	}
	layout.minDimensions = maxIndex(dims) + 1
	layout.minMetrics = maxIndex(metrics) + 1

	return layout, nil
}

func (l *columnLayout) mapRow(i int, row *analyticsdata.Row) (domain.AnalyticsRecord, error) {
	if row == nil {
		return domain.AnalyticsRecord{}, &domain.MalformedRowError{Row: i, Details: "row is empty"}
	}
	if len(row.DimensionValues) < l.minDimensions || len(row.MetricValues) < l.minMetrics {
		return domain.AnalyticsRecord{}, &domain.MalformedRowError{
			Row:        i,
			Dimensions: len(row.DimensionValues),
			Metrics:    len(row.MetricValues),
		}
	}

	dim := func(idx int) string {
		if v := row.DimensionValues[idx]; v != nil {
			return v.Value
		}
		return ""
	}

	views := ""
	if v := row.MetricValues[l.views]; v != nil {
		views = v.Value
	}

	return domain.AnalyticsRecord{
		Date:        dim(l.date),
		PageTitle:   dim(l.pageTitle),
		DeviceBrand: dim(l.deviceBrand),
		Country:     dim(l.country),
		State:       dim(l.region),
		City:        dim(l.city),
		Views:       views,
	}, nil
}

func positions(names []string) map[string]int {
	out := make(map[string]int, len(names))
	for i, name := range names {
		out[name] = i
	}
	return out
}

func lookup(kind string, expected []string, headers []string) (map[string]int, error) {
	byName := make(map[string]int, len(headers))
	for i, name := range headers {
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	out := make(map[string]int, len(expected))
	for _, name := range expected {
		idx, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s %q not found in %v", domain.ErrSchemaMismatch, kind, name, headers)
		}
		out[name] = idx
	}
	return out, nil
}

func headerName(h *analyticsdata.DimensionHeader) string {
	if h == nil {
		return ""
	}
	return h.Name
}

func maxIndex(m map[string]int) int {
	highest := -1
	for _, idx := range m {
		if idx > highest {
			highest = idx
		}
	}
	return highest
}
