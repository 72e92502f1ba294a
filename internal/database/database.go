package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Table Structure:
//
// CREATE TABLE IF NOT EXISTS users (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	email VARCHAR(255) NOT NULL UNIQUE,
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );

// CREATE TABLE IF NOT EXISTS user_sign_on_token (
// 	token CHAR(27) NOT NULL,
// 	email VARCHAR(255) NOT NULL,
// 	created_at TIMESTAMP NOT NULL
// );
// CREATE UNIQUE INDEX user_sign_on_token_idx ON user_sign_on_token (token);

// CREATE TABLE IF NOT EXISTS admin_role (
// 	email VARCHAR(255) NOT NULL UNIQUE,
// 	granted_at TIMESTAMP NOT NULL
// );

// CREATE TABLE IF NOT EXISTS job_entry (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	user_id CHAR(27) NOT NULL REFERENCES users (id),
// 	company VARCHAR(100) NOT NULL,
// 	role VARCHAR(100) NOT NULL,
// 	status VARCHAR(20) NOT NULL DEFAULT 'applied',
// 	link VARCHAR(2048) NOT NULL DEFAULT '',
// 	notes VARCHAR(1000) NOT NULL DEFAULT '',
// 	salary VARCHAR(20) NOT NULL DEFAULT '',
// 	location VARCHAR(255) NOT NULL DEFAULT '',
// 	industry VARCHAR(255) NOT NULL DEFAULT '',
// 	company_size VARCHAR(50) NOT NULL DEFAULT '',
// 	job_type VARCHAR(20) NOT NULL DEFAULT '',
// 	tags TEXT[] NOT NULL DEFAULT '{}',
// 	priority VARCHAR(10) NOT NULL DEFAULT '',
// 	is_remote BOOLEAN NOT NULL DEFAULT FALSE,
// 	is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
// 	application_date TIMESTAMP DEFAULT NULL,
// 	interview_date TIMESTAMP DEFAULT NULL,
// 	follow_up_date TIMESTAMP DEFAULT NULL,
// 	response_date TIMESTAMP DEFAULT NULL,
// 	calendar_events JSONB NOT NULL DEFAULT '{}',
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX job_entry_user_id_created_at_idx ON job_entry (user_id, created_at DESC);

// GetDbConn tries to establish a connection to postgres and return the connection handler
func GetDbConn(databaseUser string, databasePassword string, databaseHost string, databasePort string, databaseName string, sslMode string) (*sql.DB, error) {
	databaseURL := fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=%s",
		databaseUser,
		databasePassword,
		databaseHost,
		databasePort,
		databaseName,
		sslMode,
	)
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}
