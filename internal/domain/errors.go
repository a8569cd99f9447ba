package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Erros base para cada etapa do job
var (
	// Erros de configuração
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrConfigMissingKey = errors.New("missing configuration key")

	// Erros da busca no GA4
	ErrFetchFailed         = errors.New("fetch failed")
	ErrFetchUnauthorized   = errors.New("ga4 authentication failed")
	ErrFetchInvalidRequest = errors.New("ga4 rejected the report request")

	// Erros de mapeamento da resposta
	ErrMalformedRow   = errors.New("malformed response row")
	ErrSchemaMismatch = errors.New("response headers do not match the expected schema")

	// Erros de carga no banco de dados
	ErrLoadFailed = errors.New("load failed")
)

// ConfigError indica uma configuração ausente ou inválida, com as chaves envolvidas
type ConfigError struct {
	Err   error    // Erro base
	Keys  []string // Chaves no formato SECAO.CHAVE
	Cause error    // Erro original (quando houver)
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if len(e.Keys) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Keys, ", "))
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	return nonNil(e.Err, e.Cause)
}

// NewConfigError cria um novo ConfigError
func NewConfigError(err error, cause error, keys ...string) *ConfigError {
	return &ConfigError{
		Err:   err,
		Keys:  keys,
		Cause: cause,
	}
}

// FetchError indica falha na chamada à API de relatórios
type FetchError struct {
	Err        error // ErrFetchUnauthorized, ErrFetchInvalidRequest ou nil
	PropertyID string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s for property %s", ErrFetchFailed.Error(), e.PropertyID)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	return nonNil(ErrFetchFailed, e.Err, e.Cause)
}

// MalformedRowError indica uma linha da resposta fora do formato esperado
type MalformedRowError struct {
	Row        int
	Dimensions int
	Metrics    int
	Details    string
}

func (e *MalformedRowError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s %d: %s", ErrMalformedRow.Error(), e.Row, e.Details)
	}
	return fmt.Sprintf("%s %d: got %d dimension values and %d metric values",
		ErrMalformedRow.Error(), e.Row, e.Dimensions, e.Metrics)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// LoadError indica falha na carga, com a linha que causou a falha quando conhecida
type LoadError struct {
	Row    int // -1 quando a falha não é de uma linha específica
	Record *AnalyticsRecord
	Table  string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("%s into %s: %v", ErrLoadFailed.Error(), e.Table, e.Cause)
	}
	return fmt.Sprintf("%s into %s at row %d (date=%q page=%q city=%q): %v",
		ErrLoadFailed.Error(), e.Table, e.Row, e.Record.Date, e.Record.PageTitle, e.Record.City, e.Cause)
}

func (e *LoadError) Unwrap() []error {
	return nonNil(ErrLoadFailed, e.Cause)
}

// NewLoadError cria um LoadError que não está associado a uma linha
func NewLoadError(table string, cause error) *LoadError {
	return &LoadError{Row: -1, Table: table, Cause: cause}
}

// NewRowLoadError cria um LoadError para a linha row da tabela
func NewRowLoadError(table string, row int, record AnalyticsRecord, cause error) *LoadError {
	return &LoadError{Row: row, Record: &record, Table: table, Cause: cause}
}

func nonNil(errs ...error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
