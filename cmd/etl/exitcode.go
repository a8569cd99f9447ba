package main

import (
	"errors"

	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
)

// Códigos de saída do processo
const (
	exitOK         = 0
	exitUnexpected = 1
	exitConfig     = 2
	exitFetch      = 3
	exitLoad       = 4
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrConfigInvalid), errors.Is(err, domain.ErrConfigMissingKey):
		return exitConfig
	case errors.Is(err, domain.ErrFetchFailed),
		errors.Is(err, domain.ErrMalformedRow),
		errors.Is(err, domain.ErrSchemaMismatch):
		return exitFetch
	case errors.Is(err, domain.ErrLoadFailed):
		return exitLoad
	}
	return exitUnexpected
}
