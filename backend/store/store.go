package store

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Store is the persistence gateway. All reads and writes against the
// relational database go through it.
type Store struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// Open connects to the sqlite database at path. sqlite has a single
// writer, so the pool is capped at one connection.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a sortable globally unique identifier. Lexicographic
// order of IDs agrees with creation order.
func NewID() string {
	return ksuid.New().String()
}
