package review

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "r2review"
	dbFileName = "comments.db"
)

// Counts summarises the thread of one asset.
type Counts struct {
	Total int
	Open  int
}

// Store keeps comments in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultDatabasePath returns the comment database location under the XDG data dir.
func DefaultDatabasePath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens (creating if needed) the comment database at path. An empty
// path uses DefaultDatabasePath.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		if path, err = DefaultDatabasePath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open comment database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logrus.Debugf("review: comment database at %s", path)
	return store, nil
}

// NewStore wraps an open database and makes sure the schema exists.
func NewStore(db *sql.DB) (*Store, error) {
	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("init comment schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			asset_key TEXT NOT NULL,
			author TEXT NOT NULL,
			body TEXT NOT NULL,
			timecode REAL NOT NULL DEFAULT -1,
			resolved INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_comments_asset ON comments(asset_key, created_at);
	`)
	return err
}

// Add stores c, stamping its creation time.
func (s *Store) Add(ctx context.Context, c Comment) (Comment, error) {
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, asset_key, author, body, timecode, resolved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.AssetKey, c.Author, c.Body, c.Timecode, c.Resolved, now.UnixNano(), now.UnixNano())
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// List returns the thread of assetKey, oldest first.
func (s *Store) List(ctx context.Context, assetKey string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_key, author, body, timecode, resolved, created_at, updated_at
		FROM comments
		WHERE asset_key = ?
		ORDER BY created_at, id`, assetKey)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Get returns the comment whose ID is id or starts with it, so the short
// IDs printed by the CLI can be used. A prefix matching several comments
// yields ErrAmbiguousID.
func (s *Store) Get(ctx context.Context, id string) (Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Comment{}, fmt.Errorf("comment id is empty: %w", ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_key, author, body, timecode, resolved, created_at, updated_at
		FROM comments
		WHERE id = ? OR id LIKE ? ESCAPE '\'
		ORDER BY id = ? DESC, id
		LIMIT 2`, id, likePrefix(id), id)
	if err != nil {
		return Comment{}, fmt.Errorf("get comment: %w", err)
	}
	defer rows.Close()

	var matches []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return Comment{}, err
		}
		matches = append(matches, c)
	}
	if err := rows.Err(); err != nil {
		return Comment{}, err
	}

	switch {
	case len(matches) == 0:
		return Comment{}, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	case matches[0].ID == id || len(matches) == 1:
		return matches[0], nil
	default:
		return Comment{}, fmt.Errorf("comment %s: %w", id, ErrAmbiguousID)
	}
}

// likePrefix turns id into a LIKE pattern matching every ID that starts with it.
func likePrefix(id string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(id) + "%"
}

// SetResolved marks a comment resolved or reopens it.
func (s *Store) SetResolved(ctx context.Context, id string, resolved bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET resolved = ?, updated_at = ? WHERE id = ?`,
		resolved, s.now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return expectRow(res, id)
}

// Delete removes a single comment.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return expectRow(res, id)
}

// DeleteForAsset removes the whole thread of assetKey and returns how many comments went.
func (s *Store) DeleteForAsset(ctx context.Context, assetKey string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE asset_key = ?`, assetKey)
	if err != nil {
		return 0, fmt.Errorf("delete thread: %w", err)
	}
	return res.RowsAffected()
}

// Counts returns the comment totals of every asset that has a thread.
func (s *Store) Counts(ctx context.Context) (map[string]Counts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_key, COUNT(*), SUM(CASE WHEN resolved = 0 THEN 1 ELSE 0 END)
		FROM comments
		GROUP BY asset_key`)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]Counts)
	for rows.Next() {
		var key string
		var c Counts
		if err := rows.Scan(&key, &c.Total, &c.Open); err != nil {
			return nil, err
		}
		counts[key] = c
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (Comment, error) {
	var c Comment
	var created, updated int64
	if err := row.Scan(&c.ID, &c.AssetKey, &c.Author, &c.Body, &c.Timecode, &c.Resolved, &created, &updated); err != nil {
		return Comment{}, err
	}
	c.CreatedAt = time.Unix(0, created)
	c.UpdatedAt = time.Unix(0, updated)
	return c, nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	return nil
}
