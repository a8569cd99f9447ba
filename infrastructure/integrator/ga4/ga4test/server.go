// Package ga4test sobe um endpoint runReport falso para testes do cliente GA4
package ga4test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	ga4domain "github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4/domain"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4/ga4client"
	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server responde runReport com linhas fixas, paginando por limit/offset quando pedido
type Server struct {
	*httptest.Server

	// Status diferente de zero faz toda chamada falhar com esse código
	Status int

	mu       sync.Mutex
	rows     [][]string
	requests []*analyticsdata.RunReportRequest
	paths    []string
}

// NewServer cria o servidor; cada linha tem as seis dimensões seguidas do valor de views
func NewServer(t *testing.T, rows [][]string) *Server {
	t.Helper()

	s := &Server{rows: rows}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

// Client cria um ga4client.Client apontado para o servidor falso
func (s *Server) Client(t *testing.T, propertyID string) ga4client.Client {
	t.Helper()

	client, err := ga4client.NewClient(context.Background(),
		config.Directories{PropertyID: propertyID},
		option.WithEndpoint(s.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(s.Server.Client()),
	)
	if err != nil {
		t.Fatalf("ga4test: could not create client: %v", err)
	}
	return client
}

// Requests retorna as requisições recebidas, na ordem
func (s *Server) Requests() []*analyticsdata.RunReportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*analyticsdata.RunReportRequest{}, s.requests...)
}

// Paths retorna os caminhos chamados, na ordem
func (s *Server) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.paths...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	req := &analyticsdata.RunReportRequest{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
			return
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.paths = append(s.paths, r.URL.Path)
	s.mu.Unlock()

	if s.Status != 0 {
		writeError(w, s.Status, http.StatusText(s.Status), "fake failure")
		return
	}
	if !strings.HasSuffix(r.URL.Path, ":runReport") {
		writeError(w, http.StatusNotFound, "NOT_FOUND", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.page(req))
}

func (s *Server) page(req *analyticsdata.RunReportRequest) *analyticsdata.RunReportResponse {
	resp := Response(s.rows)

	start := req.Offset
	if start > int64(len(resp.Rows)) {
		start = int64(len(resp.Rows))
	}
	end := int64(len(resp.Rows))
	if req.Limit > 0 && start+req.Limit < end {
		end = start + req.Limit
	}
	resp.Rows = resp.Rows[start:end]

	return resp
}

// Response monta uma RunReportResponse com os headers do relatório de page views
func Response(rows [][]string) *analyticsdata.RunReportResponse {
	resp := &analyticsdata.RunReportResponse{
		RowCount: int64(len(rows)),
	}
	for _, name := range ga4domain.PageViewDimensions {
		resp.DimensionHeaders = append(resp.DimensionHeaders, &analyticsdata.DimensionHeader{Name: name})
	}
	for _, name := range ga4domain.PageViewMetrics {
		resp.MetricHeaders = append(resp.MetricHeaders, &analyticsdata.MetricHeader{Name: name, Type: "TYPE_INTEGER"})
	}

	dims := len(ga4domain.PageViewDimensions)
	for _, values := range rows {
		row := &analyticsdata.Row{}
		for i, v := range values {
			if i < dims {
				row.DimensionValues = append(row.DimensionValues, &analyticsdata.DimensionValue{Value: v})
				continue
			}
			row.MetricValues = append(row.MetricValues, &analyticsdata.MetricValue{Value: v})
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp
}

func writeError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"status":  reason,
		},
	})
}
