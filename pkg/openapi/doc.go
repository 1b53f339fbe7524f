// Package openapi turns OpenAPI 3 request bodies into time input scripts.
// String properties with format "time" become time inputs; the concrete
// loader and parser live under internal/openapi and are constructed through
// the root formstate package.
package openapi
