package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jobtally/job-tracker/internal/job"
)

// event categories stored in the entry's calendar event map
const (
	CategoryInterview = "interview"
	CategoryFollowUp  = "followup"
)

// Client talks to the external calendar API. Sync is strictly best effort:
// a failed call leaves the event map for that category empty and must never
// block the save that triggered it.
type Client struct {
	baseURL string
	apiKey  string
	client  http.Client
}

func NewClient(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http.Client{Timeout: 10 * time.Second},
	}
}

func (c Client) Enabled() bool {
	return c.baseURL != ""
}

type eventRq struct {
	Summary string `json:"summary"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type eventRes struct {
	ID string `json:"id"`
}

// SyncEntry creates calendar events for the entry's interview and follow-up
// dates and returns the category to event id mapping for whatever succeeded.
// The error reports the last failure so the caller can log it.
func (c Client) SyncEntry(e *job.Entry) (map[string]string, error) {
	events := map[string]string{}
	if !c.Enabled() {
		return events, nil
	}
	var lastErr error
	if e.InterviewDate != nil {
		id, err := c.createEvent(fmt.Sprintf("Interview: %s - %s", e.Company, e.Role), *e.InterviewDate)
		if err != nil {
			lastErr = err
		} else {
			events[CategoryInterview] = id
		}
	}
	if e.FollowUpDate != nil {
		id, err := c.createEvent(fmt.Sprintf("Follow up: %s - %s", e.Company, e.Role), *e.FollowUpDate)
		if err != nil {
			lastErr = err
		} else {
			events[CategoryFollowUp] = id
		}
	}
	return events, lastErr
}

// DeleteEvents removes the entry's external events on delete, best effort
func (c Client) DeleteEvents(events map[string]string) error {
	if !c.Enabled() {
		return nil
	}
	var lastErr error
	for _, id := range events {
		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/events/%s?key=%s", c.baseURL, id, c.apiKey), nil)
		if err != nil {
			lastErr = err
			continue
		}
		res, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		res.Body.Close()
		if res.StatusCode > 299 && res.StatusCode != http.StatusNotFound {
			lastErr = fmt.Errorf("unexpected status code %d deleting calendar event %s", res.StatusCode, id)
		}
	}
	return lastErr
}

func (c Client) createEvent(summary string, start time.Time) (string, error) {
	payload, err := json.Marshal(eventRq{
		Summary: summary,
		Start:   start.UTC().Format(time.RFC3339),
		End:     start.Add(time.Hour).UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/events?key=%s", c.baseURL, c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d creating calendar event", res.StatusCode)
	}
	var out eventRes
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("calendar api returned an empty event id")
	}
	return out.ID, nil
}
