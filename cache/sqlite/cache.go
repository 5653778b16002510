package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/virtual-me/agent/cache"
)

// The qa table is the primary store; qa_fts is an external-content FTS5
// index over it, mirrored row for row on every insert so column reads
// through qa_fts resolve against qa.
//
// FTS5 requires compiling the driver with the sqlite_fts5 build tag
// (the Makefile targets carry it).
const schema = `
	CREATE TABLE IF NOT EXISTS qa(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		tags TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	CREATE VIRTUAL TABLE IF NOT EXISTS qa_fts USING fts5(
		question, answer, tags,
		content='qa', content_rowid='id',
		tokenize = 'unicode61 remove_diacritics 2'
	);
`

type Cache struct {
	conn *sql.DB
}

func (c *Cache) Lookup(ctx context.Context, question string, fuzzy bool, limit int) ([]cache.Record, error) {
	if limit < 1 {
		limit = 5
	}

	if !fuzzy {
		return c.scan(c.conn.QueryContext(
			ctx,
			`SELECT question, answer, tags FROM qa WHERE question = ? ORDER BY id DESC LIMIT ?`,
			question, limit,
		))
	}

	const ranked = `
		SELECT question, answer, tags
		FROM qa_fts
		WHERE qa_fts MATCH ?
		ORDER BY bm25(qa_fts) ASC
		LIMIT ?
	`

	// Quoting the whole question keeps FTS operators inert and improves
	// phrase precision. Embedded double quotes are doubled so the phrase
	// form stays syntactically valid for any input; the raw text remains
	// a fallback for queries the quoted form cannot match.
	phrase := `"` + strings.ReplaceAll(question, `"`, `""`) + `"`
	rows, err := c.conn.QueryContext(ctx, ranked, phrase, limit)
	if err != nil {
		rows, err = c.conn.QueryContext(ctx, ranked, question, limit)
	}

	return c.scan(rows, err)
}

func (c *Cache) Upsert(ctx context.Context, question, answer, tags string) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO qa(question, answer, tags) VALUES (?, ?, ?)`,
		question, answer, nullable(tags),
	)
	if err != nil {
		return fmt.Errorf("insert qa: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert qa id: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO qa_fts(rowid, question, answer, tags) VALUES (?, ?, ?, ?)`,
		id, question, answer, nullable(tags),
	); err != nil {
		return fmt.Errorf("mirror qa into fts: %w", err)
	}

	return tx.Commit()
}

func (c *Cache) scan(rows *sql.Rows, err error) ([]cache.Record, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []cache.Record
	for rows.Next() {
		var rec cache.Record
		var tags sql.NullString
		if err := rows.Scan(&rec.Question, &rec.Answer, &tags); err != nil {
			return nil, err
		}
		rec.Tags = tags.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func (c *Cache) Close() error {
	return c.conn.Close()
}

// NewCache opens (or creates) the database at path with write-ahead
// logging and relaxed durability, and ensures the schema exists.
func NewCache(path string) (*Cache, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open qa cache: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure qa schema: %w", err)
	}

	return &Cache{conn: conn}, nil
}
