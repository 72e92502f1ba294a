package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/jobtally/job-tracker/internal/calendar"
	"github.com/jobtally/job-tracker/internal/job"
	"github.com/jobtally/job-tracker/internal/middleware"
	"github.com/jobtally/job-tracker/internal/server"
)

// ListJobEntriesHandler returns the caller's job entries, newest first,
// narrowed down by the board filter in the query string
func ListJobEntriesHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			entries, err := jobRepo.EntriesForUser(profile.UserID)
			if err != nil {
				svr.Log(err, "unable to retrieve job entries")
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve job entries"})
				return
			}
			filter := job.FilterFromQuery(r.URL.Query())
			svr.JSON(w, http.StatusOK, filter.Apply(entries))
		},
	)
}

func CreateJobEntryHandler(svr server.Server, jobRepo *job.Repository, calClient calendar.Client) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			rq := &job.EntryRq{}
			if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request payload"})
				return
			}
			entry, err := rq.ToEntry()
			if err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
				return
			}
			entry.UserID = profile.UserID
			if err := jobRepo.CreateEntry(&entry); err != nil {
				svr.Log(err, "unable to save job entry")
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to save job entry"})
				return
			}
			// calendar sync is best effort, a failure never blocks the save
			events, err := calClient.SyncEntry(&entry)
			if err != nil {
				svr.Log(err, fmt.Sprintf("unable to sync calendar events for job entry %s", entry.ID))
			}
			if len(events) > 0 {
				if err := jobRepo.UpdateCalendarEvents(entry.UserID, entry.ID, events); err != nil {
					svr.Log(err, fmt.Sprintf("unable to save calendar events for job entry %s", entry.ID))
				} else {
					entry.CalendarEvents = events
				}
			}
			svr.JSON(w, http.StatusCreated, entry)
		},
	)
}

func UpdateJobEntryHandler(svr server.Server, jobRepo *job.Repository, calClient calendar.Client) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			entryID := mux.Vars(r)["id"]
			existing, err := jobRepo.EntryByID(profile.UserID, entryID)
			if err == job.ErrEntryNotFound {
				svr.JSON(w, http.StatusNotFound, map[string]string{"message": "job entry not found"})
				return
			}
			if err != nil {
				svr.Log(err, fmt.Sprintf("unable to retrieve job entry %s", entryID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve job entry"})
				return
			}
			rq := &job.EntryRq{}
			if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request payload"})
				return
			}
			updated, err := rq.ToEntry()
			if err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
				return
			}
			// identity, status and created_at survive the edit form untouched
			updated.ID = existing.ID
			updated.UserID = existing.UserID
			updated.Status = existing.Status
			updated.CreatedAt = existing.CreatedAt
			updated.CalendarEvents = existing.CalendarEvents
			if err := jobRepo.UpdateEntry(&updated); err != nil {
				svr.Log(err, fmt.Sprintf("unable to update job entry %s", entryID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to update job entry"})
				return
			}
			if datesChanged(existing, &updated) {
				if err := calClient.DeleteEvents(existing.CalendarEvents); err != nil {
					svr.Log(err, fmt.Sprintf("unable to delete stale calendar events for job entry %s", entryID))
				}
				events, err := calClient.SyncEntry(&updated)
				if err != nil {
					svr.Log(err, fmt.Sprintf("unable to sync calendar events for job entry %s", entryID))
				}
				updated.CalendarEvents = events
				if err := jobRepo.UpdateCalendarEvents(updated.UserID, updated.ID, events); err != nil {
					svr.Log(err, fmt.Sprintf("unable to save calendar events for job entry %s", entryID))
				}
			}
			svr.JSON(w, http.StatusOK, updated)
		},
	)
}

// UpdateJobEntryStatusHandler is the drag and drop transition endpoint. The
// store write happens before the response carries the updated entry, so a
// failed write leaves the board on the last known good value.
func UpdateJobEntryStatusHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			entryID := mux.Vars(r)["id"]
			rq := &job.StatusRq{}
			if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request payload"})
				return
			}
			newStatus := job.Status(strings.ToLower(rq.Status))
			if !newStatus.Valid() {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("invalid status %q", rq.Status)})
				return
			}
			entry, err := jobRepo.EntryByID(profile.UserID, entryID)
			if err == job.ErrEntryNotFound {
				svr.JSON(w, http.StatusNotFound, map[string]string{"message": "job entry not found"})
				return
			}
			if err != nil {
				svr.Log(err, fmt.Sprintf("unable to retrieve job entry %s", entryID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve job entry"})
				return
			}
			if newStatus == entry.Status {
				svr.JSON(w, http.StatusOK, map[string]interface{}{"changed": false, "job": entry})
				return
			}
			if err := jobRepo.UpdateEntryStatus(profile.UserID, entryID, newStatus); err != nil {
				svr.Log(err, fmt.Sprintf("unable to update status of job entry %s", entryID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to update job entry status"})
				return
			}
			changed, fx := job.Transition(entry, newStatus, time.Now().UTC())
			svr.JSON(w, http.StatusOK, map[string]interface{}{
				"changed":         changed,
				"job":             entry,
				"congratsMessage": fx.CongratsMessage,
				"notification":    fx.Notification,
			})
		},
	)
}

// BulkUpdateJobStatusHandler moves a set of entries in one transaction,
// either all of them move or none do
func BulkUpdateJobStatusHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			rq := &job.BulkStatusRq{}
			if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request payload"})
				return
			}
			newStatus := job.Status(strings.ToLower(rq.Status))
			if !newStatus.Valid() {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("invalid status %q", rq.Status)})
				return
			}
			if err := jobRepo.UpdateEntryStatusBulk(profile.UserID, rq.IDs, newStatus); err == job.ErrEntryNotFound {
				svr.JSON(w, http.StatusNotFound, map[string]string{"message": "one or more job entries not found"})
				return
			} else if err != nil {
				svr.Log(err, "unable to bulk update job entry status")
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to update job entries"})
				return
			}
			svr.JSON(w, http.StatusOK, map[string]interface{}{"updated": len(rq.IDs)})
		},
	)
}

// DeleteJobEntryHandler removes the entry and cascades to its external
// calendar events
func DeleteJobEntryHandler(svr server.Server, jobRepo *job.Repository, calClient calendar.Client) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			entryID := mux.Vars(r)["id"]
			entry, err := jobRepo.EntryByID(profile.UserID, entryID)
			if err == job.ErrEntryNotFound {
				svr.JSON(w, http.StatusNotFound, map[string]string{"message": "job entry not found"})
				return
			}
			if err != nil {
				svr.Log(err, fmt.Sprintf("unable to retrieve job entry %s", entryID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve job entry"})
				return
			}
			if err := calClient.DeleteEvents(entry.CalendarEvents); err != nil {
				svr.Log(err, fmt.Sprintf("unable to delete calendar events for job entry %s", entryID))
			}
			if err := jobRepo.DeleteEntry(profile.UserID, entryID); err != nil {
				svr.Log(err, fmt.Sprintf("unable to delete job entry %s", entryID))
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to delete job entry"})
				return
			}
			svr.JSON(w, http.StatusOK, nil)
		},
	)
}

// NotificationsHandler derives the reminder list over the caller's jobs at
// request time, nothing is persisted
func NotificationsHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			entries, err := jobRepo.EntriesForUser(profile.UserID)
			if err != nil {
				svr.Log(err, "unable to retrieve job entries")
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve job entries"})
				return
			}
			svr.JSON(w, http.StatusOK, job.DeriveNotifications(entries, time.Now().UTC()))
		},
	)
}

func StatsHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.Log(err, "unable to retrieve user from JWT")
				svr.JSON(w, http.StatusForbidden, nil)
				return
			}
			entries, err := jobRepo.EntriesForUser(profile.UserID)
			if err != nil {
				svr.Log(err, "unable to retrieve job entries")
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve job entries"})
				return
			}
			svr.JSON(w, http.StatusOK, job.ComputeStats(entries, time.Now().UTC()))
		},
	)
}

func datesChanged(before, after *job.Entry) bool {
	return !equalDate(before.InterviewDate, after.InterviewDate) || !equalDate(before.FollowUpDate, after.FollowUpDate)
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
