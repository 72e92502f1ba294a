package user

import (
	"database/sql"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) SaveTokenSignOn(email, token string) error {
	if _, err := r.db.Exec(`INSERT INTO user_sign_on_token (token, email, created_at) VALUES ($1, $2, $3)`, token, email, time.Now().UTC()); err != nil {
		return err
	}
	return nil
}

// GetOrCreateUserFromToken creates or gets an existing user given a sign on token.
// Returns the user, whether the user existed already and an error.
func (r *Repository) GetOrCreateUserFromToken(token string) (User, bool, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT t.token, t.email, u.id, u.email, u.created_at FROM user_sign_on_token t LEFT JOIN users u ON t.email = u.email WHERE t.token = $1`, token)
	var tokenRes, id, email, tokenEmail sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&tokenRes, &tokenEmail, &id, &email, &createdAt); err != nil {
		return u, false, err
	}
	if !tokenRes.Valid {
		return u, false, errors.New("token not found")
	}
	if !email.Valid {
		// user not found create new one
		userID, err := ksuid.NewRandom()
		if err != nil {
			return u, false, err
		}
		u.ID = userID.String()
		u.Email = tokenEmail.String
		u.CreatedAt = time.Now()
		u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
		if _, err := r.db.Exec(`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`, u.ID, u.Email, u.CreatedAt); err != nil {
			return User{}, false, err
		}

		return u, false, nil
	}
	u.ID = id.String
	u.Email = email.String
	u.CreatedAt = createdAt.Time
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())

	return u, true, nil
}

func (r *Repository) GetUser(email string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, email, created_at FROM users WHERE email = $1`, email)
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		return u, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}

// GetUsers lists every registered user, for the admin panel
func (r *Repository) GetUsers() ([]*User, error) {
	users := []*User{}
	rows, err := r.db.Query(`SELECT id, email, created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return users, err
	}
	defer rows.Close()
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return users, err
		}
		u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return users, err
	}
	return users, nil
}

// HasAdminRole reports whether a dynamic admin role row exists for the email
func (r *Repository) HasAdminRole(email string) (bool, error) {
	row := r.db.QueryRow(`SELECT COUNT(*) FROM admin_role WHERE email = $1`, email)
	var c int
	if err := row.Scan(&c); err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *Repository) DeleteUserByEmail(email string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE email = $1`, email)
	return err
}

// DeleteExpiredUserSignOnTokens deletes user_sign_on_tokens older than 1 week
func (r *Repository) DeleteExpiredUserSignOnTokens() error {
	_, err := r.db.Exec(`DELETE FROM user_sign_on_token WHERE created_at < NOW() - INTERVAL '7 DAYS'`)
	return err
}
