package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

type templateKey struct {
	section string
	key     string
	value   string
	comment string
}

var templateKeys = []templateKey{
	{"DIRECTORIES", "FILENAME", "service-account.json", "Service account credentials (JSON key file)"},
	{"DIRECTORIES", "PROPERTY_ID", "", "GA4 property id"},
	{"DATES", "START_DATE", "7daysAgo", "YYYY-MM-DD, today, yesterday or NdaysAgo"},
	{"DATES", "END_DATE", "yesterday", ""},
	{"SQL", "SERVER", "localhost", ""},
	{"SQL", "DATABASE", "Test", ""},
	{"SQL", "DRIVER", DriverSQLServer, "sqlserver, postgres or sqlite"},
	{"SQL", "TABLE", "Test.Subaru.ga4_qr_codes", ""},
	{"REPORT", "PAGE_SIZE", "0", "0 sends a single request"},
	{"APP", "LOG_FILE", "logfile.log", ""},
	{"APP", "LOG_LEVEL", "info", ""},
	{"APP", "TIMEOUT", "0s", ""},
}

// WriteTemplate grava um config.ini de exemplo em path. Não sobrescreve arquivos existentes.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}

	file := ini.Empty()
	for _, tk := range templateKeys {
		section, err := file.NewSection(tk.section)
		if err != nil {
			return fmt.Errorf("config: section %s: %w", tk.section, err)
		}

		key, err := section.NewKey(tk.key, tk.value)
		if err != nil {
			return fmt.Errorf("config: key %s.%s: %w", tk.section, tk.key, err)
		}
		if tk.comment != "" {
			key.Comment = "; " + tk.comment
		}
	}

	return file.SaveTo(path)
}
