package job

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jobtally/job-tracker/internal/notification"
)

const staleAfterDays = 14

// DeriveNotifications recomputes the reminder and achievement list for the
// given job set. It is pure and deterministic for a fixed now: the same jobs
// always yield the same notification ids and content, so the client can
// rebuild the list on every change. Day deltas are whole calendar days.
func DeriveNotifications(entries []*Entry, now time.Time) []notification.Notification {
	ns := []notification.Notification{}
	weekAgo := now.AddDate(0, 0, -7)
	appliedThisWeek := 0

	for _, e := range entries {
		if e.InterviewDate != nil {
			switch d := wholeDaysUntil(now, *e.InterviewDate); {
			case d == 0:
				ns = append(ns, notification.Notification{
					ID:      notification.DeriveID(e.ID, "interview-today"),
					Type:    notification.TypeInterview,
					Title:   "Interview Today!",
					Message: fmt.Sprintf("Your interview with %s for %s is today", e.Company, e.Role),
					Date:    *e.InterviewDate,
					JobID:   e.ID,
				})
			case d == 1:
				ns = append(ns, notification.Notification{
					ID:      notification.DeriveID(e.ID, "interview-tomorrow"),
					Type:    notification.TypeInterview,
					Title:   "Interview Tomorrow",
					Message: fmt.Sprintf("Your interview with %s for %s is tomorrow", e.Company, e.Role),
					Date:    *e.InterviewDate,
					JobID:   e.ID,
				})
			case d >= 2 && d <= 3:
				ns = append(ns, notification.Notification{
					ID:      notification.DeriveID(e.ID, "interview-upcoming"),
					Type:    notification.TypeInterview,
					Title:   "Upcoming Interview",
					Message: fmt.Sprintf("Interview with %s for %s in %d days", e.Company, e.Role, d),
					Date:    *e.InterviewDate,
					JobID:   e.ID,
				})
			}
		}
		if e.FollowUpDate != nil {
			switch d := wholeDaysUntil(now, *e.FollowUpDate); {
			case d <= 0:
				ns = append(ns, notification.Notification{
					ID:      notification.DeriveID(e.ID, "followup-due"),
					Type:    notification.TypeFollowUp,
					Title:   "Follow-up Due",
					Message: fmt.Sprintf("Time to follow up with %s about %s", e.Company, e.Role),
					Date:    *e.FollowUpDate,
					JobID:   e.ID,
				})
			case d == 1:
				ns = append(ns, notification.Notification{
					ID:      notification.DeriveID(e.ID, "followup-tomorrow"),
					Type:    notification.TypeFollowUp,
					Title:   "Follow-up Tomorrow",
					Message: fmt.Sprintf("Follow up with %s about %s tomorrow", e.Company, e.Role),
					Date:    *e.FollowUpDate,
					JobID:   e.ID,
				})
			}
		}
		if e.Status == StatusApplied && e.ApplicationDate != nil && e.FollowUpDate == nil {
			if wholeDaysUntil(*e.ApplicationDate, now) >= staleAfterDays {
				ns = append(ns, notification.Notification{
					ID:      notification.DeriveID(e.ID, "stale-application"),
					Type:    notification.TypeDeadline,
					Title:   "Application Going Stale",
					Message: fmt.Sprintf("You applied to %s %s with no follow-up scheduled", e.Company, humanize.Time(*e.ApplicationDate)),
					Date:    *e.ApplicationDate,
					JobID:   e.ID,
				})
			}
		}
		if e.ApplicationDate != nil && !e.ApplicationDate.Before(weekAgo) && !e.ApplicationDate.After(now) {
			appliedThisWeek++
		}
	}

	if len(entries) > 0 && len(entries)%10 == 0 {
		ns = append(ns, notification.Notification{
			ID:      notification.DeriveID("", fmt.Sprintf("milestone-%d", len(entries))),
			Type:    notification.TypeAchievement,
			Title:   "Milestone Reached!",
			Message: fmt.Sprintf("You are tracking %d applications. Keep the momentum going", len(entries)),
			Date:    now,
		})
	}
	if appliedThisWeek >= 5 {
		ns = append(ns, notification.Notification{
			ID:      notification.DeriveID("", "weekly-goal"),
			Type:    notification.TypeAchievement,
			Title:   "Weekly Goal Smashed!",
			Message: fmt.Sprintf("%d applications in the last 7 days", appliedThisWeek),
			Date:    now,
		})
	}

	notification.SortByDateDesc(ns)
	return ns
}

// wholeDaysUntil counts whole calendar days from a to b, negative when b is
// in the past. Time-of-day is discarded so "tomorrow" means the next
// calendar day regardless of the hour.
func wholeDaysUntil(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
