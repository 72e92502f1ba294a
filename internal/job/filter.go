package job

import (
	"net/url"
	"strings"
)

const FilterStatusAll = "all"

// Filter is the board's combined search and filter configuration. Unset
// dimensions are vacuously satisfied, active dimensions combine with AND.
type Filter struct {
	SearchQuery string
	Status      string // "all" or an exact status
	Tags        []string
	Priority    string
	IsRemote    *bool
	IsFavorite  *bool
}

// FilterFromQuery parses the board filter out of a request query string
func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		SearchQuery: q.Get("q"),
		Status:      q.Get("status"),
		Priority:    q.Get("priority"),
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	if v := q.Get("remote"); v != "" {
		b := v == "true" || v == "1"
		f.IsRemote = &b
	}
	if v := q.Get("favorite"); v != "" {
		b := v == "true" || v == "1"
		f.IsFavorite = &b
	}
	return f
}

// Match reports whether the entry satisfies every active dimension
func (f Filter) Match(e *Entry) bool {
	if q := strings.ToLower(strings.TrimSpace(f.SearchQuery)); q != "" {
		hit := false
		for _, field := range []string{e.Company, e.Role, e.Notes, e.Location, e.Industry} {
			if strings.Contains(strings.ToLower(field), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Status != "" && f.Status != FilterStatusAll && Status(f.Status) != e.Status {
		return false
	}
	// tag filter uses OR semantics, any shared tag is enough
	if len(f.Tags) > 0 {
		hit := false
		for _, t := range f.Tags {
			if e.HasTag(t) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Priority != "" && f.Priority != e.Priority {
		return false
	}
	if f.IsRemote != nil && *f.IsRemote != e.IsRemote {
		return false
	}
	if f.IsFavorite != nil && *f.IsFavorite != e.IsFavorite {
		return false
	}
	return true
}

// Apply filters a job list down to the matching entries
func (f Filter) Apply(entries []*Entry) []*Entry {
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
