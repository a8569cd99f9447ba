package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
	"github.com/vfg2006/ga4-pageviews-etl/pkg/utils"
)

const EnvPrefix = "GA4ETL"

// Drivers suportados pelo loader
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

type Config struct {
	App         App         `mapstructure:"app"`
	Directories Directories `mapstructure:"directories"`
	Dates       Dates       `mapstructure:"dates"`
	Database    Database    `mapstructure:"sql"`
	Report      Report      `mapstructure:"report"`
}

type App struct {
	LogFile  string        `mapstructure:"log_file"`
	LogLevel string        `mapstructure:"log_level"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Directories guarda o arquivo de credenciais da service account e a propriedade GA4
type Directories struct {
	CredentialsFile string `mapstructure:"filename"`
	PropertyID      string `mapstructure:"property_id"`
}

type Dates struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
}

type Database struct {
	DSN     string `mapstructure:"-"`
	Driver  string `mapstructure:"driver"`
	Server  string `mapstructure:"server"`
	Name    string `mapstructure:"database"`
	Table   string `mapstructure:"table"`
	AppName string `mapstructure:"app_name"`
}

type Report struct {
	PageSize int64 `mapstructure:"page_size"`
}

// requiredKeys são as chaves sem valor padrão; a ausência de qualquer uma é fatal
var requiredKeys = []string{
	"directories.filename",
	"directories.property_id",
	"dates.start_date",
	"dates.end_date",
	"sql.server",
	"sql.database",
}

var optionalKeys = []string{
	"sql.driver",
	"sql.table",
	"sql.app_name",
	"report.page_size",
	"app.log_file",
	"app.log_level",
	"app.timeout",
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("sql.driver", DriverSQLServer)
	v.SetDefault("sql.table", "Test.Subaru.ga4_qr_codes")
	v.SetDefault("sql.app_name", "ga4-pageviews-etl")

	v.SetDefault("report.page_size", 0) // 0 = uma única requisição

	v.SetDefault("app.log_file", "logfile.log")
	v.SetDefault("app.log_level", "debug")
	v.SetDefault("app.timeout", "0s") // sem timeout
}

// NewConfig lê o arquivo INI em path, aplica overrides de ambiente e valida as chaves obrigatórias
func NewConfig(path string) (*Config, error) {
	loadEnvFile(filepath.Dir(path))

	v := viper.New()
	SetDefaults(v)

	v.SetConfigType("ini")
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range append(append([]string{}, requiredKeys...), optionalKeys...) {
		if err := v.BindEnv(key); err != nil {
			return nil, domain.NewConfigError(domain.ErrConfigInvalid, err, displayKey(key))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(domain.ErrConfigInvalid, fmt.Errorf("read %s: %w", path, err))
	}
	logrus.WithField("config_file", v.ConfigFileUsed()).Debug("config: arquivo carregado")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	missing := make([]string, 0)
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, displayKey(key))
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewConfigError(domain.ErrConfigMissingKey, nil, missing...)
	}

	config := &Config{}
	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, domain.NewConfigError(domain.ErrConfigInvalid, err)
	}

	trimAll(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

// Validate confere valores que o viper não consegue validar por tipo
func (c *Config) Validate() error {
	if err := utils.ValidateReportDate(c.Dates.StartDate); err != nil {
		return domain.NewConfigError(domain.ErrConfigInvalid, err, "DATES.START_DATE")
	}
	if err := utils.ValidateReportDate(c.Dates.EndDate); err != nil {
		return domain.NewConfigError(domain.ErrConfigInvalid, err, "DATES.END_DATE")
	}
	if err := utils.ValidateReportRange(c.Dates.StartDate, c.Dates.EndDate); err != nil {
		return domain.NewConfigError(domain.ErrConfigInvalid, err, "DATES.START_DATE", "DATES.END_DATE")
	}

	switch c.Database.Driver {
	case DriverSQLServer, DriverPostgres, DriverSQLite:
	default:
		return domain.NewConfigError(domain.ErrConfigInvalid,
			fmt.Errorf("unsupported driver %q", c.Database.Driver), "SQL.DRIVER")
	}

	if c.Database.Table == "" {
		return domain.NewConfigError(domain.ErrConfigInvalid, errors.New("table name is empty"), "SQL.TABLE")
	}
	if c.Report.PageSize < 0 {
		return domain.NewConfigError(domain.ErrConfigInvalid,
			fmt.Errorf("page size %d is negative", c.Report.PageSize), "REPORT.PAGE_SIZE")
	}
	if c.App.Timeout < 0 {
		return domain.NewConfigError(domain.ErrConfigInvalid,
			fmt.Errorf("timeout %s is negative", c.App.Timeout), "APP.TIMEOUT")
	}

	return nil
}

// BuildDSN monta a string de conexão do driver configurado.
// SQL Server usa o formato ODBC com autenticação integrada: sem usuário e senha o driver
// negocia a identidade do processo.
func (d Database) BuildDSN() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s dbname=%s application_name=%s sslmode=disable", d.Server, d.Name, d.AppName)
	case DriverSQLite:
		return d.Name
	default:
		return fmt.Sprintf("odbc:server={%s};database={%s};app name={%s}", d.Server, d.Name, d.AppName)
	}
}

func displayKey(key string) string {
	return strings.ToUpper(key)
}

func trimAll(c *Config) {
	c.Directories.CredentialsFile = strings.TrimSpace(c.Directories.CredentialsFile)
	c.Directories.PropertyID = strings.TrimSpace(c.Directories.PropertyID)
	c.Dates.StartDate = strings.TrimSpace(c.Dates.StartDate)
	c.Dates.EndDate = strings.TrimSpace(c.Dates.EndDate)
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Database.Server = strings.TrimSpace(c.Database.Server)
	c.Database.Name = strings.TrimSpace(c.Database.Name)
	c.Database.AppName = strings.TrimSpace(c.Database.AppName)
	c.Database.Table = strings.TrimSpace(c.Database.Table)
}

// loadEnvFile carrega um .env do diretório de trabalho ou do diretório do arquivo de configuração
func loadEnvFile(configDir string) {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("config: não foi possível resolver o diretório de trabalho: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(configDir, ".env"),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err != nil {
			continue
		}
		if err := godotenv.Load(location); err != nil {
			logrus.WithError(err).Warn("config: não foi possível carregar ", location)
			continue
		}
		logrus.Debug("config: .env carregado de ", location)
		return
	}
}
