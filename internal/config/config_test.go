package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
)

const validINI = `
[DIRECTORIES]
FILENAME = /etc/ga4/credentials.json
PROPERTY_ID = 123456

[DATES]
START_DATE = 2024-01-01
END_DATE = 2024-01-31

[SQL]
SERVER = analyticssql01
DATABASE = Test
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validINI))
	require.NoError(t, err)

	assert.Equal(t, "/etc/ga4/credentials.json", cfg.Directories.CredentialsFile)
	assert.Equal(t, "123456", cfg.Directories.PropertyID)
	assert.Equal(t, "2024-01-01", cfg.Dates.StartDate)
	assert.Equal(t, "2024-01-31", cfg.Dates.EndDate)
	assert.Equal(t, "analyticssql01", cfg.Database.Server)
	assert.Equal(t, "Test", cfg.Database.Name)

	// Valores padrão
	assert.Equal(t, DriverSQLServer, cfg.Database.Driver)
	assert.Equal(t, "Test.Subaru.ga4_qr_codes", cfg.Database.Table)
	assert.Equal(t, int64(0), cfg.Report.PageSize)
	assert.Equal(t, "logfile.log", cfg.App.LogFile)
	assert.Equal(t, time.Duration(0), cfg.App.Timeout)

	assert.Equal(t, "odbc:server={analyticssql01};database={Test};app name={ga4-pageviews-etl}", cfg.Database.DSN)
}

func TestNewConfig_OptionalSections(t *testing.T) {
	content := validINI + `
[REPORT]
PAGE_SIZE = 500

[APP]
LOG_LEVEL = warn
TIMEOUT = 90s
`
	cfg, err := NewConfig(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, int64(500), cfg.Report.PageSize)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.App.Timeout)
}

func TestNewConfig_EnvOverride(t *testing.T) {
	t.Setenv("GA4ETL_SQL_SERVER", "override-host")
	t.Setenv("GA4ETL_SQL_DRIVER", "postgres")

	cfg, err := NewConfig(writeConfig(t, validINI))
	require.NoError(t, err)

	assert.Equal(t, "override-host", cfg.Database.Server)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "host=override-host")
}

func TestNewConfig_TrimsAppName(t *testing.T) {
	t.Setenv("GA4ETL_SQL_APP_NAME", "  pageviews-job  ")

	cfg, err := NewConfig(writeConfig(t, validINI))
	require.NoError(t, err)

	assert.Equal(t, "pageviews-job", cfg.Database.AppName)
	assert.Contains(t, cfg.Database.DSN, "app name={pageviews-job}")
}

func TestNewConfig_MissingKeys(t *testing.T) {
	content := `
[DIRECTORIES]
FILENAME = /etc/ga4/credentials.json

[DATES]
START_DATE = 2024-01-01
END_DATE = 2024-01-31

[SQL]
SERVER = analyticssql01
`
	_, err := NewConfig(writeConfig(t, content))
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, domain.ErrConfigMissingKey)
	assert.Equal(t, []string{"DIRECTORIES.PROPERTY_ID", "SQL.DATABASE"}, cfgErr.Keys)
	assert.Contains(t, err.Error(), "DIRECTORIES.PROPERTY_ID")
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestNewConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		key   string
	}{
		{
			name:  "data inválida",
			extra: "[DATES]\nSTART_DATE = 01/02/2024\n",
			key:   "DATES.START_DATE",
		},
		{
			name:  "intervalo invertido",
			extra: "[DATES]\nSTART_DATE = 2024-02-01\n",
			key:   "DATES.END_DATE",
		},
		{
			name:  "driver desconhecido",
			extra: "[SQL]\nDRIVER = oracle\n",
			key:   "SQL.DRIVER",
		},
		{
			name:  "page size negativo",
			extra: "[REPORT]\nPAGE_SIZE = -1\n",
			key:   "REPORT.PAGE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, validINI+"\n"+tt.extra))
			require.Error(t, err)

			var cfgErr *domain.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.ErrorIs(t, err, domain.ErrConfigInvalid)
			assert.Contains(t, cfgErr.Keys, tt.key)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t,
		"host=db dbname=analytics application_name=etl sslmode=disable",
		Database{Driver: DriverPostgres, Server: "db", Name: "analytics", AppName: "etl"}.BuildDSN())
	assert.Equal(t,
		"file:pageviews.db",
		Database{Driver: DriverSQLite, Name: "file:pageviews.db"}.BuildDSN())
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, WriteTemplate(path))

	// O template não tem PROPERTY_ID preenchido, então precisa falhar apontando a chave
	_, err := NewConfig(path)
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"DIRECTORIES.PROPERTY_ID"}, cfgErr.Keys)

	assert.Error(t, WriteTemplate(path), "must not overwrite an existing file")
}
