package metrics

import (
	"net/url"
	"strings"

	"github.com/dcastano/leadboard/internal/models"
)

// Filter is the active view window. Every field is an independent predicate;
// records must satisfy all of them, so application order never matters.
// Empty fields (and the UI's "Todos"/"Todas" sentinels) match everything.
type Filter struct {
	From     string // inclusive ISO lower bound
	To       string // inclusive ISO upper bound
	Agent    string
	Province string
	Platform string
}

// ParseFilter reads the filter from query parameters.
func ParseFilter(v url.Values) Filter {
	return Filter{
		From:     strings.TrimSpace(v.Get("from")),
		To:       strings.TrimSpace(v.Get("to")),
		Agent:    strings.TrimSpace(v.Get("agent")),
		Province: strings.TrimSpace(v.Get("province")),
		Platform: strings.TrimSpace(v.Get("platform")),
	}
}

func all(s string) bool {
	return s == "" || s == "Todos" || s == "Todas"
}

func (f Filter) Match(r models.LeadRecord) bool {
	if !f.MatchDate(r.ISODate) {
		return false
	}
	if !all(f.Agent) && r.Agent != f.Agent {
		return false
	}
	if !all(f.Province) && r.Province != f.Province {
		return false
	}
	if !all(f.Platform) && string(r.Platform) != f.Platform {
		return false
	}
	return true
}

// MatchDate checks the inclusive date window by lexicographic comparison on
// canonical dates. Records without a resolved date pass only when no window
// is set.
func (f Filter) MatchDate(iso string) bool {
	if f.From == "" && f.To == "" {
		return true
	}
	if iso == "" {
		return false
	}
	if f.From != "" && iso < f.From {
		return false
	}
	if f.To != "" && iso > f.To {
		return false
	}
	return true
}

// Apply returns the records matching the filter.
func (f Filter) Apply(rows []models.LeadRecord) []models.LeadRecord {
	out := make([]models.LeadRecord, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
