package syncing

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4"
	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
	"github.com/vfg2006/ga4-pageviews-etl/pkg/log"
	"github.com/vfg2006/ga4-pageviews-etl/pkg/utils"
)

// PageViewSyncService executa fetch, map e load em sequência; qualquer falha interrompe a execução
type PageViewSyncService struct {
	cfg     *config.Config
	fetcher Fetcher
	mapper  Mapper
	loader  Loader
	dryRun  bool
	output  io.Writer
}

// NewPageViewSyncService cria o serviço com o mapper padrão do relatório GA4
func NewPageViewSyncService(cfg *config.Config, fetcher Fetcher, loader Loader) *PageViewSyncService {
	return &PageViewSyncService{
		cfg:     cfg,
		fetcher: fetcher,
		mapper:  ga4.MapReport,
		loader:  loader,
	}
}

// WithDryRun faz o serviço escrever a tabela mapeada como JSON em w em vez de gravar no banco
func (s *PageViewSyncService) WithDryRun(w io.Writer) *PageViewSyncService {
	s.dryRun = w != nil
	s.output = w
	return s
}

// WithMapper troca o mapper padrão
func (s *PageViewSyncService) WithMapper(mapper Mapper) *PageViewSyncService {
	s.mapper = mapper
	return s
}

// Run executa o job uma vez. Sem retry: uma execução que falha não grava nada.
func (s *PageViewSyncService) Run(ctx context.Context) (*domain.SyncResult, error) {
	ctx, runID := log.WithRunID(ctx)
	logger := log.ForContext(ctx)

	result := &domain.SyncResult{
		RunID:     runID,
		DryRun:    s.dryRun,
		StartedAt: time.Now(),
	}

	logger.WithField("dry_run", s.dryRun).Debug("Iniciando execução")

	req := ga4.NewPageViewRequest(
		s.cfg.Directories.PropertyID,
		s.cfg.Dates.StartDate,
		s.cfg.Dates.EndDate,
		s.cfg.Report.PageSize,
	)

	fetchLog := logger.WithField("stage", "fetch")
	fetchLog.WithFields(log.Fields{
		"property_id": req.PropertyID,
		"start_date":  req.StartDate,
		"end_date":    req.EndDate,
	}).Info("Buscando page views no GA4...")

	resp, err := s.fetcher.FetchPageViews(ctx, req)
	if err != nil {
		fetchLog.WithError(err).Error("Erro ao buscar page views no GA4")
		return nil, errors.Wrap(err, "fetch page views")
	}
	if resp != nil {
		result.FetchedRows = len(resp.Rows)
	}

	fetchLog.WithField("rows", result.FetchedRows).Info("Page views recebidos do GA4")
	if result.FetchedRows == 0 {
		fetchLog.Warn("Nenhuma linha retornada pelo GA4 para o período")
	}

	mapLog := logger.WithField("stage", "map")
	mapLog.Info("Mapeando linhas do relatório...")

	table, err := s.mapper(resp)
	if err != nil {
		mapLog.WithError(err).Error("Erro ao mapear resposta do GA4")
		return nil, errors.Wrap(err, "map report")
	}
	result.MappedRows = table.Len()

	mapLog.WithField("rows", result.MappedRows).Info("Linhas do relatório mapeadas")

	if s.dryRun {
		logger.Info("Dry run: carga ignorada, registros escritos em JSON")
		if err := utils.WriteJSON(s.output, table); err != nil {
			return nil, errors.Wrap(err, "write dry run output")
		}
		result.CompletedAt = time.Now()
		return result, nil
	}

	loadLog := logger.WithField("stage", "load")
	loadLog.WithFields(log.Fields{
		"table":  s.cfg.Database.Table,
		"driver": s.cfg.Database.Driver,
	}).Info("Carregando registros no banco de dados...")

	inserted, err := s.loader.InsertBatch(ctx, table)
	if err != nil {
		loadLog.WithError(err).Error("Erro ao carregar page views no banco")
		return nil, errors.Wrap(err, "load page views")
	}
	result.InsertedRows = inserted
	result.CompletedAt = time.Now()

	loadLog.WithFields(log.Fields{
		"table":    s.cfg.Database.Table,
		"driver":   s.cfg.Database.Driver,
		"inserted": inserted,
		"duration": result.Duration().String(),
	}).Info("Dados carregados com sucesso no banco de dados!")

	return result, nil
}
