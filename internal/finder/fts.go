package finder

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/tekacs/session-finder/internal/session"
)

// FTS is the in-process coarse filter: it loads every session file under
// Root into an in-memory SQLite FTS5 table built for this invocation only
// and discarded with the process. Nothing touches disk, so the
// no-persistent-index guarantee holds; it exists for hosts without ripgrep
// and for tests that must not spawn subprocesses.
type FTS struct {
	Root string
}

const ftsSchema = `
CREATE VIRTUAL TABLE docs USING fts5(
    path UNINDEXED,
    body,
    tokenize='unicode61'
);
`

func (f FTS) FindCandidates(terms []string) ([]string, error) {
	files, err := WalkRoot(f.Root)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return files, nil
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory index: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(ftsSchema); err != nil {
		return nil, fmt.Errorf("init fts schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	stmt, err := tx.Prepare("INSERT INTO docs (path, body) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, path := range files {
		body, err := readSession(path)
		if err != nil {
			continue // unreadable candidates are simply not indexed
		}
		if _, err := stmt.Exec(path, body); err != nil {
			stmt.Close()
			tx.Rollback()
			return nil, fmt.Errorf("index %s: %w", path, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT path FROM docs WHERE docs MATCH ?", matchExpr(terms))
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// matchExpr builds an OR query of quoted terms, so user input is never
// interpreted as FTS5 syntax.
func matchExpr(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " OR ")
}

func readSession(path string) (string, error) {
	r, err := session.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
