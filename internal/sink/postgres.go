package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kremlit/leadharvest/internal/leads"
)

const leadsSchema = `
CREATE TABLE IF NOT EXISTS leads (
	map_url     TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	address     TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	website_url TEXT NOT NULL DEFAULT '',
	logo_url    TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresSink buffers records and batch-inserts them, deduplicating on
// map_url so re-running a query never produces duplicate leads.
type PostgresSink struct {
	db            *sql.DB
	buf           []leads.Record
	flushInterval int
}

// NewPostgresSink opens the DSN with the pgx stdlib driver and bootstraps
// the leads table.
func NewPostgresSink(ctx context.Context, dsn string, flushInterval int) (*PostgresSink, error) {
	if flushInterval < 1 {
		flushInterval = DefaultFlushInterval
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, leadsSchema); err != nil {
		db.Close()

		return nil, fmt.Errorf("create leads table: %w", err)
	}

	return &PostgresSink{db: db, flushInterval: flushInterval}, nil
}

func (s *PostgresSink) Write(rec leads.Record) error {
	s.buf = append(s.buf, rec)

	if len(s.buf) >= s.flushInterval {
		return s.Flush()
	}

	return nil
}

func (s *PostgresSink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}

	const fieldsPerRow = 9

	q := `INSERT INTO leads
		(map_url, name, address, city, phone, description, website_url, logo_url, email)
		VALUES `

	placeholders := make([]string, 0, len(s.buf))
	args := make([]interface{}, 0, len(s.buf)*fieldsPerRow)

	for i, rec := range s.buf {
		base := i * fieldsPerRow
		marks := make([]string, fieldsPerRow)

		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}

		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args,
			rec.MapURL, rec.Name, rec.Address, rec.City, rec.Phone,
			rec.Description, rec.Website, rec.Logo, rec.Email,
		)
	}

	q += strings.Join(placeholders, ", ")
	q += " ON CONFLICT (map_url) DO NOTHING"

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(q, args...); err != nil {
		return fmt.Errorf("insert leads: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.buf = s.buf[:0]

	return nil
}

func (s *PostgresSink) Close() error {
	if err := s.Flush(); err != nil {
		s.db.Close()

		return err
	}

	return s.db.Close()
}
