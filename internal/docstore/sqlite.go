package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	acronym TEXT NOT NULL,
	id      TEXT NOT NULL,
	body    TEXT NOT NULL,
	UNIQUE (acronym, id)
)`

// SQLite is a Store persisting documents as JSON rows in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY under fan-out.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Create(ctx context.Context, acronym string, doc Document) (string, error) {
	id := uuid.NewString()
	stored := make(Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	stored["id"] = id
	body, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (acronym, id, body) VALUES (?, ?, ?)`, acronym, id, string(body)); err != nil {
		return "", fmt.Errorf("create %s: %w", acronym, err)
	}
	return id, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q querier, acronym, id string) (Document, error) {
	var body string
	err := q.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE acronym = ? AND id = ?`, acronym, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", acronym, id, err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", acronym, id, err)
	}
	return doc, nil
}

func (s *SQLite) Get(ctx context.Context, acronym, id string, fields []string) (Document, error) {
	doc, err := load(ctx, s.db, acronym, id)
	if err != nil {
		return nil, err
	}
	return project(id, doc, fields), nil
}

// Update merges doc into the stored body; the read and the write share one
// transaction so concurrent merges of the same document do not lose fields.
func (s *SQLite) Update(ctx context.Context, acronym, id string, doc Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", acronym, id, err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := load(ctx, tx, acronym, id)
	if err != nil {
		return err
	}
	for k, v := range doc {
		cur[k] = v
	}
	cur["id"] = id
	body, err := json.Marshal(cur)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET body = ? WHERE acronym = ? AND id = ?`, string(body), acronym, id); err != nil {
		return fmt.Errorf("update %s/%s: %w", acronym, id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update %s/%s: %w", acronym, id, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, acronym, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE acronym = ? AND id = ?`, acronym, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", acronym, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Search(ctx context.Context, acronym string, fields []string, filter []Condition, page Page) ([]Document, error) {
	var q strings.Builder
	args := []any{acronym}
	q.WriteString(`SELECT id, body FROM documents WHERE acronym = ?`)
	for _, c := range filter {
		q.WriteString(` AND json_extract(body, ?) = ?`)
		args = append(args, `$."`+c.Field+`"`, c.Value)
	}
	q.WriteString(` ORDER BY seq`)
	if page.PageSize > 0 {
		q.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, page.PageSize, page.offset())
	}
	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", acronym, err)
	}
	defer rows.Close()
	out := []Document{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var doc Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", acronym, id, err)
		}
		out = append(out, project(id, doc, fields))
	}
	return out, rows.Err()
}
