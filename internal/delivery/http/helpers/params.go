package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"gatherly/internal/domain"
)

// ParseListParams reads q and limit from the query string. A missing, non-numeric or
// non-positive limit falls back to domain.DefaultListLimit; larger values are capped
// at domain.MaxListLimit.
func ParseListParams(r *http.Request) domain.ListParams {
	q := r.URL.Query()
	limit := domain.DefaultListLimit
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
		}
	}
	return domain.ListParams{Query: strings.TrimSpace(q.Get("q")), Limit: limit}.Normalized()
}

// PathID parses the named path wildcard as a positive int64. On failure it writes a
// 400 JSON error and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
