package job

import (
	"net/url"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestFilterMatch(t *testing.T) {
	entry := &Entry{
		Company:    "Acme Corp",
		Role:       "Backend Engineer",
		Notes:      "Referred by Dana",
		Location:   "Berlin",
		Industry:   "Logistics",
		Status:     StatusInterviewing,
		Tags:       []string{"go", "remote-friendly"},
		Priority:   PriorityHigh,
		IsRemote:   true,
		IsFavorite: true,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{
			name:   "empty filter matches everything",
			filter: Filter{},
			want:   true,
		},
		{
			name:   "search matches company case-insensitively",
			filter: Filter{SearchQuery: "acme"},
			want:   true,
		},
		{
			name:   "search matches notes",
			filter: Filter{SearchQuery: "dana"},
			want:   true,
		},
		{
			name:   "search matches location",
			filter: Filter{SearchQuery: "berlin"},
			want:   true,
		},
		{
			name:   "search miss",
			filter: Filter{SearchQuery: "globex"},
			want:   false,
		},
		{
			name:   "status all matches",
			filter: Filter{Status: FilterStatusAll},
			want:   true,
		},
		{
			name:   "status exact match",
			filter: Filter{Status: "interviewing"},
			want:   true,
		},
		{
			name:   "status mismatch",
			filter: Filter{Status: "rejected"},
			want:   false,
		},
		{
			name:   "tags use OR semantics",
			filter: Filter{Tags: []string{"python", "go"}},
			want:   true,
		},
		{
			name:   "no shared tag",
			filter: Filter{Tags: []string{"python", "rust"}},
			want:   false,
		},
		{
			name:   "priority match",
			filter: Filter{Priority: PriorityHigh},
			want:   true,
		},
		{
			name:   "priority mismatch",
			filter: Filter{Priority: PriorityLow},
			want:   false,
		},
		{
			name:   "remote match",
			filter: Filter{IsRemote: boolPtr(true)},
			want:   true,
		},
		{
			name:   "favorite mismatch",
			filter: Filter{IsFavorite: boolPtr(false)},
			want:   false,
		},
		{
			name:   "dimensions combine with AND",
			filter: Filter{Status: "interviewing", IsFavorite: boolPtr(true)},
			want:   true,
		},
		{
			name:   "one failing dimension fails the whole filter",
			filter: Filter{Status: "interviewing", IsFavorite: boolPtr(true), SearchQuery: "globex"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(entry); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

// relaxing a dimension must never shrink the match set
func TestFilterRelaxationGrowsMatchSet(t *testing.T) {
	entries := []*Entry{
		{Company: "Acme", Role: "Engineer", Status: StatusInterviewing, IsFavorite: true},
		{Company: "Globex", Role: "Engineer", Status: StatusInterviewing},
		{Company: "Initech", Role: "Engineer", Status: StatusApplied, IsFavorite: true},
		{Company: "Umbrella", Role: "Engineer", Status: StatusRejected},
	}
	strict := Filter{Status: "interviewing", IsFavorite: boolPtr(true)}
	relaxed := Filter{Status: "interviewing"}

	strictMatches := strict.Apply(entries)
	relaxedMatches := relaxed.Apply(entries)

	if len(strictMatches) != 1 {
		t.Fatalf("expected 1 strict match, got %d", len(strictMatches))
	}
	if len(relaxedMatches) < len(strictMatches) {
		t.Errorf("relaxing a dimension shrank the match set: %d -> %d", len(strictMatches), len(relaxedMatches))
	}
	for _, m := range strictMatches {
		found := false
		for _, rm := range relaxedMatches {
			if rm == m {
				found = true
			}
		}
		if !found {
			t.Errorf("strict match %s missing from relaxed match set", m.Company)
		}
	}
}

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("q", "acme")
	q.Set("status", "applied")
	q.Set("tags", "go, remote ,")
	q.Set("priority", "high")
	q.Set("remote", "true")
	q.Set("favorite", "false")

	f := FilterFromQuery(q)
	if f.SearchQuery != "acme" {
		t.Errorf("expected search query acme, got %q", f.SearchQuery)
	}
	if f.Status != "applied" {
		t.Errorf("expected status applied, got %q", f.Status)
	}
	if len(f.Tags) != 2 || f.Tags[0] != "go" || f.Tags[1] != "remote" {
		t.Errorf("unexpected tags %v", f.Tags)
	}
	if f.IsRemote == nil || !*f.IsRemote {
		t.Errorf("expected remote filter true")
	}
	if f.IsFavorite == nil || *f.IsFavorite {
		t.Errorf("expected favorite filter false")
	}

	empty := FilterFromQuery(url.Values{})
	if empty.IsRemote != nil || empty.IsFavorite != nil || len(empty.Tags) != 0 {
		t.Errorf("expected unset dimensions on empty query, got %+v", empty)
	}
}
