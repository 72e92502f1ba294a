package job

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
)

// Statuses is the fixed application status enumeration, in board column order
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

const (
	maxCompanyLen = 100
	maxRoleLen    = 100
	maxNotesLen   = 1000
)

// Entry is one tracked job application
type Entry struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	Company         string            `json:"company"`
	Role            string            `json:"role"`
	Status          Status            `json:"status"`
	Link            string            `json:"link,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Salary          string            `json:"salary,omitempty"`
	Location        string            `json:"location,omitempty"`
	Industry        string            `json:"industry,omitempty"`
	CompanySize     string            `json:"companySize,omitempty"`
	JobType         string            `json:"jobType,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Priority        string            `json:"priority,omitempty"`
	IsRemote        bool              `json:"isRemote"`
	IsFavorite      bool              `json:"isFavorite"`
	ApplicationDate *time.Time        `json:"applicationDate,omitempty"`
	InterviewDate   *time.Time        `json:"interviewDate,omitempty"`
	FollowUpDate    *time.Time        `json:"followUpDate,omitempty"`
	ResponseDate    *time.Time        `json:"responseDate,omitempty"`
	CalendarEvents  map[string]string `json:"calendarEvents,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// EntryRq is the create/edit form payload. Dates come in as ISO strings
// from the browser and are parsed during validation.
type EntryRq struct {
	Company         string   `json:"company"`
	Role            string   `json:"role"`
	Status          string   `json:"status,omitempty"`
	Link            string   `json:"link,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	Salary          string   `json:"salary,omitempty"`
	Location        string   `json:"location,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	CompanySize     string   `json:"companySize,omitempty"`
	JobType         string   `json:"jobType,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	IsRemote        bool     `json:"isRemote,omitempty"`
	IsFavorite      bool     `json:"isFavorite,omitempty"`
	ApplicationDate string   `json:"applicationDate,omitempty"`
	InterviewDate   string   `json:"interviewDate,omitempty"`
	FollowUpDate    string   `json:"followUpDate,omitempty"`
	ResponseDate    string   `json:"responseDate,omitempty"`
}

type StatusRq struct {
	Status string `json:"status"`
}

type BulkStatusRq struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

var notesPolicy = bluemonday.StrictPolicy()

// ToEntry validates the form payload and maps it onto an Entry. Validation
// runs before any store call, invalid payloads never reach the database.
func (rq *EntryRq) ToEntry() (Entry, error) {
	company := strings.TrimSpace(rq.Company)
	if company == "" {
		return Entry{}, fmt.Errorf("company cannot be empty")
	}
	if len(company) > maxCompanyLen {
		return Entry{}, fmt.Errorf("company cannot exceed %d characters", maxCompanyLen)
	}
	role := strings.TrimSpace(rq.Role)
	if role == "" {
		return Entry{}, fmt.Errorf("role cannot be empty")
	}
	if len(role) > maxRoleLen {
		return Entry{}, fmt.Errorf("role cannot exceed %d characters", maxRoleLen)
	}
	status := StatusApplied
	if rq.Status != "" {
		status = Status(strings.ToLower(rq.Status))
		if !status.Valid() {
			return Entry{}, fmt.Errorf("invalid status %q", rq.Status)
		}
	}
	link := strings.TrimSpace(rq.Link)
	if link != "" {
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Entry{}, fmt.Errorf("link must be a valid http or https URL")
		}
	}
	notes := notesPolicy.Sanitize(rq.Notes)
	if len(notes) > maxNotesLen {
		return Entry{}, fmt.Errorf("notes cannot exceed %d characters", maxNotesLen)
	}
	salary := strings.TrimSpace(rq.Salary)
	if salary != "" {
		if _, err := strconv.ParseFloat(salary, 64); err != nil {
			return Entry{}, fmt.Errorf("salary must be numeric")
		}
	}
	if rq.Priority != "" && rq.Priority != PriorityHigh && rq.Priority != PriorityMedium && rq.Priority != PriorityLow {
		return Entry{}, fmt.Errorf("invalid priority %q", rq.Priority)
	}
	switch rq.JobType {
	case "", JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
	default:
		return Entry{}, fmt.Errorf("invalid job type %q", rq.JobType)
	}
	applicationDate, err := parseOptionalDate(rq.ApplicationDate)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid application date: %v", err)
	}
	interviewDate, err := parseOptionalDate(rq.InterviewDate)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid interview date: %v", err)
	}
	followUpDate, err := parseOptionalDate(rq.FollowUpDate)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid follow up date: %v", err)
	}
	responseDate, err := parseOptionalDate(rq.ResponseDate)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid response date: %v", err)
	}
	tags := normaliseTags(rq.Tags)

	return Entry{
		Company:         company,
		Role:            role,
		Status:          status,
		Link:            link,
		Notes:           notes,
		Salary:          salary,
		Location:        strings.TrimSpace(rq.Location),
		Industry:        strings.TrimSpace(rq.Industry),
		CompanySize:     strings.TrimSpace(rq.CompanySize),
		JobType:         rq.JobType,
		Tags:            tags,
		Priority:        rq.Priority,
		IsRemote:        rq.IsRemote,
		IsFavorite:      rq.IsFavorite,
		ApplicationDate: applicationDate,
		InterviewDate:   interviewDate,
		FollowUpDate:    followUpDate,
		ResponseDate:    responseDate,
	}, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unable to parse %q as a date", s)
}

// tags are a set, dedupe case-insensitively and drop blanks
func normaliseTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// HasTag reports whether the entry carries the given tag, case-insensitively
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
