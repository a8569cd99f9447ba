package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
	_ "modernc.org/sqlite"
)

type Conn interface {
	Queryer
	Dialect() Dialect
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
}

// Opener abre uma conexão nova a cada chamada; quem chama é dono da conexão e deve fechá-la
type Opener func(ctx context.Context) (Conn, error)

type Connection struct {
	*sql.DB
	dialect Dialect
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqldb: open %s: %w", dialect.DriverName, err)
	}

	// Uma execução do job usa uma única conexão
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqldb: ping %s on %s: %w", dialect.DriverName, cfg.Server, err)
	}

	logrus.WithFields(logrus.Fields{
		"driver":   dialect.DriverName,
		"server":   cfg.Server,
		"database": cfg.Name,
	}).Debug("sqldb: conexão estabelecida")

	return &Connection{DB: db, dialect: dialect}, nil
}

// NewWithDB embrulha um *sql.DB já aberto (sqlmock nos testes)
func NewWithDB(db *sql.DB, dialect Dialect) *Connection {
	return &Connection{DB: db, dialect: dialect}
}

// NewOpener devolve um Opener que conecta com a configuração informada
func NewOpener(cfg config.Database) Opener {
	return func(ctx context.Context) (Conn, error) {
		return NewConnection(ctx, cfg)
	}
}

func (c *Connection) Dialect() Dialect {
	return c.dialect
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Connection) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

func (c *Connection) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}

// RunInTransaction executa fn numa transação: commit se fn retornar nil, rollback caso contrário.
// O erro de fn tem prioridade sobre o erro do rollback.
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("sqldb: erro no rollback")
		}
		return err
	}

	return tx.Commit()
}
