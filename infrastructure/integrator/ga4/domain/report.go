package ga4domain

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Dimensões e métrica do relatório de page views
const (
	DimensionDate        = "date"
	DimensionPageTitle   = "pageTitle"
	DimensionDeviceBrand = "mobileDeviceBranding"
	DimensionCountry     = "country"
	DimensionRegion      = "region"
	DimensionCity        = "city"

	MetricPageViews = "screenPageViews"
)

// PageViewDimensions na ordem em que são pedidas e mapeadas
var PageViewDimensions = []string{
	DimensionDate,
	DimensionPageTitle,
	DimensionDeviceBrand,
	DimensionCountry,
	DimensionRegion,
	DimensionCity,
}

var PageViewMetrics = []string{
	MetricPageViews,
}

// StatusCode extrai o status HTTP de um erro da API do Google, ou 0
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsUnauthorized verifica se o erro é de credencial inválida ou sem acesso à propriedade
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsInvalidRequest verifica se a API rejeitou a requisição (propriedade ou datas inválidas)
func IsInvalidRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}
