// Package testutil provides a throwaway SQLite database mirroring the MySQL
// schema, so service tests run against real SQL without a server.
package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	role TEXT NOT NULL,
	inactive_status BOOLEAN NOT NULL DEFAULT FALSE,
	reset_code_hash TEXT,
	reset_code_expires TEXT,
	created_at TEXT,
	updated_at TEXT
);

CREATE TABLE classes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	subject TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	professor_id INTEGER NOT NULL,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TEXT,
	updated_at TEXT
);

CREATE TABLE invites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	token TEXT NOT NULL UNIQUE,
	issuer_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	expires_at TEXT,
	created_at TEXT,
	updated_at TEXT
);

CREATE TABLE class_members (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	class_id INTEGER NOT NULL,
	student_id INTEGER NOT NULL,
	added_at TEXT,
	UNIQUE (class_id, student_id)
);

CREATE TABLE invite_acceptances (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	invite_id INTEGER NOT NULL,
	student_id INTEGER NOT NULL,
	accepted_at TEXT,
	UNIQUE (invite_id, student_id)
);

CREATE TABLE professor_students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	professor_id INTEGER NOT NULL,
	student_id INTEGER NOT NULL,
	linked_at TEXT,
	UNIQUE (professor_id, student_id)
);
`

// NewDB opens a fresh file-backed SQLite database. Transactions begin
// immediately and writers wait on the lock instead of failing, so concurrent
// accept tests serialize the way MySQL transactions do.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate",
		filepath.Join(t.TempDir(), "studyhive_test.db"))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	return db
}

func SeedProfessor(t *testing.T, db *sql.DB, username string) int {
	t.Helper()
	return seedUser(t, db, username, "professor")
}

func SeedStudent(t *testing.T, db *sql.DB, username string) int {
	t.Helper()
	return seedUser(t, db, username, "student")
}

func seedUser(t *testing.T, db *sql.DB, username, role string) int {
	t.Helper()

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	res, err := db.Exec(`
		INSERT INTO users (first_name, last_name, username, email, password, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, "Test", username, username, username+"@studyhive.test", "x", role, now, now)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get user id: %v", err)
	}
	return int(id)
}

func SeedClass(t *testing.T, db *sql.DB, professorID int, name string) int {
	t.Helper()

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	res, err := db.Exec(`
		INSERT INTO classes (name, subject, professor_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, name, "General", professorID, now, now)
	if err != nil {
		t.Fatalf("failed to seed class %s: %v", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get class id: %v", err)
	}
	return int(id)
}
