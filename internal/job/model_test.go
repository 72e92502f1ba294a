package job

import (
	"strings"
	"testing"
)

func TestToEntryValidation(t *testing.T) {
	tests := []struct {
		name    string
		rq      EntryRq
		wantErr bool
	}{
		{
			name: "minimal valid entry",
			rq:   EntryRq{Company: "Acme", Role: "Engineer"},
		},
		{
			name:    "missing company",
			rq:      EntryRq{Role: "Engineer"},
			wantErr: true,
		},
		{
			name:    "missing role",
			rq:      EntryRq{Company: "Acme"},
			wantErr: true,
		},
		{
			name:    "company too long",
			rq:      EntryRq{Company: strings.Repeat("a", 101), Role: "Engineer"},
			wantErr: true,
		},
		{
			name:    "role too long",
			rq:      EntryRq{Company: "Acme", Role: strings.Repeat("a", 101)},
			wantErr: true,
		},
		{
			name:    "notes too long",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", Notes: strings.Repeat("a", 1001)},
			wantErr: true,
		},
		{
			name: "https link accepted",
			rq:   EntryRq{Company: "Acme", Role: "Engineer", Link: "https://acme.example.com/jobs/1"},
		},
		{
			name:    "ftp link rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", Link: "ftp://acme.example.com"},
			wantErr: true,
		},
		{
			name:    "relative link rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", Link: "/jobs/1"},
			wantErr: true,
		},
		{
			name: "numeric salary accepted",
			rq:   EntryRq{Company: "Acme", Role: "Engineer", Salary: "85000"},
		},
		{
			name:    "non numeric salary rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", Salary: "a lot"},
			wantErr: true,
		},
		{
			name:    "unknown status rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", Status: "ghosted"},
			wantErr: true,
		},
		{
			name:    "unknown priority rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", Priority: "urgent"},
			wantErr: true,
		},
		{
			name:    "unknown job type rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", JobType: "freelance"},
			wantErr: true,
		},
		{
			name: "iso dates accepted",
			rq:   EntryRq{Company: "Acme", Role: "Engineer", ApplicationDate: "2026-08-01", InterviewDate: "2026-08-20T14:00:00Z"},
		},
		{
			name:    "garbage date rejected",
			rq:      EntryRq{Company: "Acme", Role: "Engineer", FollowUpDate: "next tuesday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rq.ToEntry()
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestToEntryDefaults(t *testing.T) {
	rq := EntryRq{Company: "  Acme  ", Role: "Engineer"}
	e, err := rq.ToEntry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != StatusApplied {
		t.Errorf("expected default status %q, got %q", StatusApplied, e.Status)
	}
	if e.Company != "Acme" {
		t.Errorf("expected trimmed company, got %q", e.Company)
	}
}

func TestToEntrySanitisesNotes(t *testing.T) {
	rq := EntryRq{Company: "Acme", Role: "Engineer", Notes: `talked to <script>alert("recruiter")</script>recruiter`}
	e, err := rq.ToEntry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(e.Notes, "<script>") {
		t.Errorf("expected script tags stripped from notes, got %q", e.Notes)
	}
	if !strings.Contains(e.Notes, "recruiter") {
		t.Errorf("expected text content preserved, got %q", e.Notes)
	}
}

func TestToEntryDedupesTags(t *testing.T) {
	rq := EntryRq{Company: "Acme", Role: "Engineer", Tags: []string{"go", "Go", " remote ", "", "go"}}
	e, err := rq.ToEntry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", e.Tags)
	}
	if !e.HasTag("GO") || !e.HasTag("remote") {
		t.Errorf("expected case-insensitive tag lookup over %v", e.Tags)
	}
}
