package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"gatherly/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories work inside or outside
// a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Postgres error codes the repositories translate into domain errors.
const (
	codeUniqueViolation = "23505"
)

// Open opens a connection pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewRepositories returns every repository bound to db.
func NewRepositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Users:       NewUserRepository(db),
		Events:      NewEventRepository(db),
		Groups:      NewGroupRepository(db),
		Invitations: NewGroupInvitationRepository(db),
		RSVPs:       NewRSVPRepository(db),
		Comments:    NewCommentRepository(db),
	}
}

// Store implements domain.TxManager on top of a *sql.DB.
type Store struct {
	DB *sql.DB
}

// NewStore returns a Store using db.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

var _ domain.TxManager = (*Store)(nil)

// WithinTx begins a transaction, hands tx-bound repositories to fn and commits if fn
// returns nil. Any error or panic rolls the transaction back.
func (s *Store) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
			}
		}
	}()
	if err = fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// resetTables lists every application table, children first.
var resetTables = []string{
	"group_invitations", "group_members", "comments", "rsvps", "groups", "events", "users",
}

// Reset empties every application table and restarts id sequences. Used by the seeder.
func (s *Store) Reset(ctx context.Context) error {
	query := "TRUNCATE " + strings.Join(resetTables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := s.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("reset tables: %w", err)
	}
	return nil
}

// likePattern builds a case-insensitive substring pattern for ILIKE, escaping the
// wildcard characters in q.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

func isUniqueViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
		return pqErr, true
	}
	return nil, false
}

// affectedOrNotFound returns notFound when the statement touched no rows.
func affectedOrNotFound(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
