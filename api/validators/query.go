package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter, enforcing an
// inclusive range when the parameter is present.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryString returns a trimmed query value or the default when absent.
func ParseQueryString(r *http.Request, key, defaultVal string) string {
	if raw := strings.TrimSpace(r.URL.Query().Get(key)); raw != "" {
		return raw
	}
	return defaultVal
}
