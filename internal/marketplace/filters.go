package marketplace

import (
	"net/url"
	"strings"
)

// Filters are the server-side constraints of the posts listing.
type Filters struct {
	City         string `json:"city" form:"city" query:"city"`
	ServiceType  string `json:"service_type" form:"service_type" query:"service_type"`
	WorkSchedule string `json:"work_schedule" form:"work_schedule" query:"work_schedule"`
}

// Query encodes the filters as query parameters. Unset keys are omitted.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.ServiceType != "" {
		q.Set("service_type", f.ServiceType)
	}
	if f.WorkSchedule != "" {
		q.Set("work_schedule", f.WorkSchedule)
	}
	return q
}

// Path returns the listing path for these filters.
func (f Filters) Path() string {
	q := f.Query()
	if len(q) == 0 {
		return "/posts"
	}
	return "/posts?" + q.Encode()
}

func (f Filters) IsZero() bool {
	return f == Filters{}
}

// FiltersFromQuery is the inverse of Query; unknown keys are ignored.
func FiltersFromQuery(q url.Values) Filters {
	return Filters{
		City:         strings.TrimSpace(q.Get("city")),
		ServiceType:  strings.TrimSpace(q.Get("service_type")),
		WorkSchedule: strings.TrimSpace(q.Get("work_schedule")),
	}
}

// Search keeps the posts whose title, service type, city or author name
// contains term, ignoring case. An empty term keeps everything.
func Search(posts []Post, term string) []Post {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if term == "" || p.matches(term) {
			out = append(out, p)
		}
	}
	return out
}

func (p Post) matches(term string) bool {
	fields := []string{p.Title, p.ServiceType, p.City}
	if p.User != nil {
		fields = append(fields, p.User.Username)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
