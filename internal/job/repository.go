package job

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/segmentio/ksuid"
)

var ErrEntryNotFound = errors.New("job entry not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const entryColumns = `id, user_id, company, role, status, link, notes, salary, location, industry, company_size, job_type, tags, priority, is_remote, is_favorite, application_date, interview_date, follow_up_date, response_date, calendar_events, created_at`

// CreateEntry assigns the entry id and created_at and inserts the row
func (r *Repository) CreateEntry(e *Entry) error {
	id, err := ksuid.NewRandom()
	if err != nil {
		return err
	}
	e.ID = id.String()
	e.CreatedAt = time.Now().UTC()
	events, err := json.Marshal(e.CalendarEvents)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO job_entry
		(id, user_id, company, role, status, link, notes, salary, location, industry, company_size, job_type, tags, priority, is_remote, is_favorite, application_date, interview_date, follow_up_date, response_date, calendar_events, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		e.ID, e.UserID, e.Company, e.Role, e.Status, e.Link, e.Notes, e.Salary, e.Location, e.Industry, e.CompanySize, e.JobType,
		pq.Array(e.Tags), e.Priority, e.IsRemote, e.IsFavorite, e.ApplicationDate, e.InterviewDate, e.FollowUpDate, e.ResponseDate, events, e.CreatedAt)
	return err
}

// EntriesForUser returns the user's entries newest first. If the ordered
// query fails (eg the composite index is missing) it falls back to an
// un-ordered scan and sorts in memory instead.
func (r *Repository) EntriesForUser(userID string) ([]*Entry, error) {
	rows, err := r.db.Query(`SELECT `+entryColumns+` FROM job_entry WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		rows, err = r.db.Query(`SELECT `+entryColumns+` FROM job_entry WHERE user_id = $1`, userID)
		if err != nil {
			return nil, err
		}
		entries, err := scanEntries(rows)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		})
		return entries, nil
	}
	return scanEntries(rows)
}

func (r *Repository) EntryByID(userID, id string) (*Entry, error) {
	row := r.db.QueryRow(`SELECT `+entryColumns+` FROM job_entry WHERE id = $1 AND user_id = $2`, id, userID)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry replaces the user-editable fields, created_at and status are
// never touched here. Status changes go through UpdateEntryStatus only.
func (r *Repository) UpdateEntry(e *Entry) error {
	res, err := r.db.Exec(`UPDATE job_entry SET
		company = $1, role = $2, link = $3, notes = $4, salary = $5, location = $6, industry = $7, company_size = $8,
		job_type = $9, tags = $10, priority = $11, is_remote = $12, is_favorite = $13,
		application_date = $14, interview_date = $15, follow_up_date = $16, response_date = $17
		WHERE id = $18 AND user_id = $19`,
		e.Company, e.Role, e.Link, e.Notes, e.Salary, e.Location, e.Industry, e.CompanySize,
		e.JobType, pq.Array(e.Tags), e.Priority, e.IsRemote, e.IsFavorite,
		e.ApplicationDate, e.InterviewDate, e.FollowUpDate, e.ResponseDate,
		e.ID, e.UserID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// UpdateEntryStatus persists a drag and drop transition as a single field write
func (r *Repository) UpdateEntryStatus(userID, id string, status Status) error {
	res, err := r.db.Exec(`UPDATE job_entry SET status = $1 WHERE id = $2 AND user_id = $3`, status, id, userID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// UpdateEntryStatusBulk moves a set of entries in one transaction. Either
// every row is updated or none are, a partial remote write can never
// diverge from what the caller shows locally.
func (r *Repository) UpdateEntryStatusBulk(userID string, ids []string, status Status) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	res, err := tx.Exec(`UPDATE job_entry SET status = $1 WHERE user_id = $2 AND id = ANY($3)`, status, userID, pq.Array(ids))
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected != int64(len(ids)) {
		tx.Rollback()
		return ErrEntryNotFound
	}
	return tx.Commit()
}

func (r *Repository) UpdateCalendarEvents(userID, id string, events map[string]string) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE job_entry SET calendar_events = $1 WHERE id = $2 AND user_id = $3`, data, id, userID)
	return err
}

// DeleteEntriesForUser removes every entry owned by the user, on account deletion
func (r *Repository) DeleteEntriesForUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM job_entry WHERE user_id = $1`, userID)
	return err
}

func (r *Repository) DeleteEntry(userID, id string) error {
	res, err := r.db.Exec(`DELETE FROM job_entry WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	e := &Entry{}
	var link, notes, salary, location, industry, companySize, jobType, priority sql.NullString
	var applicationDate, interviewDate, followUpDate, responseDate pq.NullTime
	var tags pq.StringArray
	var events []byte
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Company,
		&e.Role,
		&e.Status,
		&link,
		&notes,
		&salary,
		&location,
		&industry,
		&companySize,
		&jobType,
		&tags,
		&priority,
		&e.IsRemote,
		&e.IsFavorite,
		&applicationDate,
		&interviewDate,
		&followUpDate,
		&responseDate,
		&events,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Link = link.String
	e.Notes = notes.String
	e.Salary = salary.String
	e.Location = location.String
	e.Industry = industry.String
	e.CompanySize = companySize.String
	e.JobType = jobType.String
	e.Tags = tags
	e.Priority = priority.String
	e.ApplicationDate = nullTimePtr(applicationDate)
	e.InterviewDate = nullTimePtr(interviewDate)
	e.FollowUpDate = nullTimePtr(followUpDate)
	e.ResponseDate = nullTimePtr(responseDate)
	if len(events) > 0 {
		if err := json.Unmarshal(events, &e.CalendarEvents); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	defer rows.Close()
	entries := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

func nullTimePtr(t pq.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
