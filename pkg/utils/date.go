package utils

import (
	"fmt"
	"regexp"
	"time"
)

var relativeDatePattern = regexp.MustCompile(`^[0-9]+daysAgo$`)

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ValidateReportDate aceita os formatos de data do GA4: YYYY-MM-DD, today, yesterday e NdaysAgo
func ValidateReportDate(dateStr string) error {
	switch {
	case dateStr == "today", dateStr == "yesterday":
		return nil
	case relativeDatePattern.MatchString(dateStr):
		return nil
	}

	if _, err := time.Parse(time.DateOnly, dateStr); err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD, today, yesterday or NdaysAgo", dateStr)
	}

	return nil
}

// ValidateReportRange rejeita intervalos absolutos com início após o fim.
// Datas relativas não são comparadas.
func ValidateReportRange(startDate, endDate string) error {
	if err := ValidateReportDate(startDate); err != nil {
		return err
	}
	if err := ValidateReportDate(endDate); err != nil {
		return err
	}

	start, errStart := ParseDate(startDate)
	end, errEnd := ParseDate(endDate)
	if errStart != nil || errEnd != nil {
		return nil
	}

	if start.After(*end) {
		return fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}

	return nil
}
