package marketplace

import (
	"reflect"
	"testing"
)

func samplePosts() []Post {
	return []Post{
		{ID: 1, Title: "Electrician for hire", ServiceType: "كهربائي", City: "طرابلس", User: &User{Username: "Ahmed"}},
		{ID: 2, Title: "طباخة منزلية", ServiceType: "طباخة", City: "بنغازي", User: &User{Username: "Mona"}},
		{ID: 3, Title: "Sailor", ServiceType: "بحار", City: "مصراتة"},
	}
}

func TestFiltersQueryOmitsUnsetKeys(t *testing.T) {
	q := Filters{City: "طرابلس"}.Query()

	if got := q.Get("city"); got != "طرابلس" {
		t.Fatalf("expected city=طرابلس, got %q", got)
	}
	for _, key := range []string{"service_type", "work_schedule"} {
		if _, ok := q[key]; ok {
			t.Errorf("expected %s to be omitted, got %v", key, q)
		}
	}
}

func TestFiltersPath(t *testing.T) {
	if got := (Filters{}).Path(); got != "/posts" {
		t.Errorf("expected bare /posts, got %q", got)
	}
	got := Filters{ServiceType: "سباك", WorkSchedule: "كامل"}.Path()
	want := "/posts?" + Filters{ServiceType: "سباك", WorkSchedule: "كامل"}.Query().Encode()
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFiltersFromQueryRoundTrip(t *testing.T) {
	f := Filters{City: "بنغازي", WorkSchedule: "مرن"}
	if got := FiltersFromQuery(f.Query()); got != f {
		t.Errorf("expected %+v, got %+v", f, got)
	}
}

func TestSearchMatchesFieldsIgnoringCase(t *testing.T) {
	cases := map[string][]int64{
		"":            {1, 2, 3},
		"electrician": {1},
		"ELECTRICIAN": {1},
		"mona":        {2},
		"مصراتة":      {3},
		"طباخة":       {2},
		"nothing":     {},
	}
	for term, want := range cases {
		got := ids(Search(samplePosts(), term))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Search(%q): expected %v, got %v", term, want, got)
		}
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	for _, term := range []string{"", "a", "Sailor", "طرابلس", "zzz"} {
		once := Search(samplePosts(), term)
		twice := Search(once, term)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Search(%q) not idempotent: %v vs %v", term, ids(once), ids(twice))
		}
	}
}

func TestSearchNeverReturnsNil(t *testing.T) {
	if got := Search(nil, "x"); got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func ids(posts []Post) []int64 {
	out := []int64{}
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
