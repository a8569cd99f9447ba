package sqldb

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
)

// Dialect agrupa o que muda entre os bancos suportados
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder squirrel.PlaceholderFormat
	quoteIdent  func(string) string
	// schemaless: o banco não tem database/schema no nome da tabela
	schemaless bool
}

var (
	SQLServer = Dialect{
		Name:        config.DriverSQLServer,
		DriverName:  "sqlserver",
		Placeholder: squirrel.AtP,
		quoteIdent:  bracketIdent,
	}
	Postgres = Dialect{
		Name:        config.DriverPostgres,
		DriverName:  "postgres",
		Placeholder: squirrel.Dollar,
		quoteIdent:  doubleQuoteIdent,
	}
	SQLite = Dialect{
		Name:        config.DriverSQLite,
		DriverName:  "sqlite",
		Placeholder: squirrel.Question,
		quoteIdent:  doubleQuoteIdent,
		schemaless:  true,
	}
)

func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case config.DriverSQLServer, "":
		return SQLServer, nil
	case config.DriverPostgres:
		return Postgres, nil
	case config.DriverSQLite:
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("sqldb: unsupported driver %q", driver)
}

// QuoteIdent protege um identificador simples
func (d Dialect) QuoteIdent(name string) string {
	return d.quoteIdent(strings.TrimSpace(name))
}

// QuoteTable protege um nome qualificado, ex: "Test.Subaru.ga4_qr_codes" -> [Test].[Subaru].[ga4_qr_codes].
// No SQLite só a última parte é usada.
func (d Dialect) QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	if d.schemaless {
		parts = parts[len(parts)-1:]
	}
	for i := range parts {
		parts[i] = d.QuoteIdent(parts[i])
	}
	return strings.Join(parts, ".")
}

func bracketIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func doubleQuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
