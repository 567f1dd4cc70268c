package httputil

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	dErrors "herbcheck/pkg/domain-errors"
)

// QueryFloat reads a required float query parameter.
func QueryFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is required", name))
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}

// QueryInt reads an optional integer query parameter, returning def when absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
