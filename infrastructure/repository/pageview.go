// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
)

//go:generate mockgen -source=pageview.go -destination=mocks/mock_pageview.go -package=mocks

type PageViewRepository interface {
	// InsertBatch insere todos os registros numa única transação e retorna quantos foram inseridos.
	// Em caso de erro nada é gravado.
	InsertBatch(ctx context.Context, table domain.AnalyticsTable) (int64, error)
}

type pageViewRepository struct {
	open  sqldb.Opener
	table string
}

// NewPageViewRepository cria o repositório; a conexão só é aberta em InsertBatch e é sempre fechada ao final
func NewPageViewRepository(open sqldb.Opener, table string) PageViewRepository {
	return &pageViewRepository{
		open:  open,
		table: table,
	}
}

func (r *pageViewRepository) InsertBatch(ctx context.Context, table domain.AnalyticsTable) (int64, error) {
	conn, err := r.open(ctx)
	if err != nil {
		return 0, domain.NewLoadError(r.table, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Warn("repository: erro ao fechar conexão")
		}
	}()

	dialect := conn.Dialect()
	start := time.Now()

	var inserted int64
	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, record := range table {
			if err := ctx.Err(); err != nil {
				return domain.NewRowLoadError(r.table, i, record, err)
			}

			query, args, err := r.buildInsert(dialect, record)
			if err != nil {
				return domain.NewRowLoadError(r.table, i, record, err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return domain.NewRowLoadError(r.table, i, record, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		var loadErr *domain.LoadError
		if !errors.As(err, &loadErr) {
			loadErr = domain.NewLoadError(r.table, err)
		}

		logrus.WithFields(logrus.Fields{
			"table":     r.table,
			"row":       loadErr.Row,
			"attempted": len(table),
		}).WithError(loadErr.Cause).Error("repository: carga revertida")

		return 0, loadErr
	}

	logrus.WithFields(logrus.Fields{
		"table":    r.table,
		"inserted": inserted,
		"duration": time.Since(start).String(),
	}).Debug("repository: carga confirmada")

	return inserted, nil
}

func (r *pageViewRepository) buildInsert(dialect sqldb.Dialect, record domain.AnalyticsRecord) (string, []interface{}, error) {
	values, err := record.Values()
	if err != nil {
		return "", nil, err
	}

	columns := make([]string, 0, len(domain.PageViewColumns))
	for _, column := range domain.PageViewColumns {
		columns = append(columns, dialect.QuoteIdent(column))
	}

	query, args, err := squirrel.
		Insert(dialect.QuoteTable(r.table)).
		Columns(columns...).
		Values(values...).
		PlaceholderFormat(dialect.Placeholder).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}
