package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/internhub/internhub/pkg/repository"
)

// parseListOptions reads the shared listing query params: include (repeated
// or comma-separated), page (>=1), limit (1..100) and sort. Out-of-range
// values fall back to the defaults rather than erroring.
func parseListOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()

	opts := repository.ListOptions{Page: 1, Limit: 20}

	for _, raw := range q["include"] {
		for _, inc := range strings.Split(raw, ",") {
			if inc = strings.TrimSpace(inc); inc != "" {
				opts.Include = append(opts.Include, inc)
			}
		}
	}

	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v >= 1 {
			opts.Page = v
		}
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 1 && v <= 100 {
			opts.Limit = v
		}
	}

	opts.Sort = q.Get("sort")

	return opts
}
