package notification

import (
	"fmt"
	"sort"
	"time"
)

type Type string

const (
	TypeInterview   Type = "interview"
	TypeFollowUp    Type = "followup"
	TypeDeadline    Type = "deadline"
	TypeAchievement Type = "achievement"
)

// Notification is an ephemeral reminder or achievement derived from the
// current job set. It is recomputed on demand and never persisted, read
// state lives on the client only.
type Notification struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	JobID   string    `json:"jobId,omitempty"`
	IsRead  bool      `json:"isRead"`
}

// ID derivation is deterministic so that re-deriving over the same job set
// yields the same notifications.
func DeriveID(jobID, rule string) string {
	if jobID == "" {
		return rule
	}
	return fmt.Sprintf("%s-%s", jobID, rule)
}

// SortByDateDesc orders notifications newest first, ties keep insertion order
func SortByDateDesc(ns []Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].Date.After(ns[j].Date)
	})
}
