package db

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // The database driver
)

// ErrConstraintViolation is returned when an insert collides with the unique
// title or file_uri of an already stored episode.
var ErrConstraintViolation = errors.New("episode already exists")

const schema = `
CREATE TABLE IF NOT EXISTS episodes(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT UNIQUE,
	description TEXT,
	file_uri TEXT UNIQUE,
	file_type TEXT,
	file_size TEXT,
	duration TEXT,
	is_explicit TEXT,
	published TEXT
)`

// Store is the durable collection of published episodes, backed by a single
// SQLite file. The file itself doubles as the backup artifact uploaded after
// every publish, so Path must always point at the live database.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open connects to the episode database at path, creating the file and the
// episodes table if they do not exist yet. Safe to call against an already
// initialized database.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open episode database")
	}

	// The database file is uploaded wholesale as the backup artifact, so the
	// rollback journal stays in its default mode: everything committed lives
	// in the single file.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to apply busy_timeout")
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to create episodes table")
	}

	return &Store{db: conn, path: path}, nil
}

// Path returns the location of the database file on disk.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
