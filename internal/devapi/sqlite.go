package devapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	average_rating REAL NOT NULL DEFAULT 0,
	total_ratings INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	service_type TEXT NOT NULL,
	salary TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL,
	area TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	work_schedule TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_posts_city ON posts(city);
CREATE INDEX IF NOT EXISTS idx_posts_service_type ON posts(service_type);
`

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func sqlitePlaceholder(int) string { return "?" }

func (s *SQLiteStore) ListPosts(ctx context.Context, f marketplace.Filters) ([]marketplace.Post, error) {
	query, args := postsQuery(f, sqlitePlaceholder)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []marketplace.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) CreatePost(ctx context.Context, p marketplace.NewPost) (marketplace.Post, error) {
	if _, err := s.UserByID(ctx, p.UserID); err != nil {
		return marketplace.Post{}, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, title, service_type, salary, city, area, description, work_schedule)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		p.UserID, p.Title, p.ServiceType, p.Salary, p.City, p.Area, p.Description, p.WorkSchedule,
	).Scan(&id)
	if err != nil {
		return marketplace.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return scanPost(s.db.QueryRowContext(ctx, postByIDQuery(sqlitePlaceholder), id))
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (marketplace.User, error) {
	var u marketplace.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, average_rating, total_ratings FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.AverageRating, &u.TotalRatings)
	if errors.Is(err, sql.ErrNoRows) {
		return u, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, err
}

func (s *SQLiteStore) AccountByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, average_rating, total_ratings, password FROM users WHERE email = ?`, email,
	).Scan(&a.ID, &a.Username, &a.Email, &a.AverageRating, &a.TotalRatings, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

func (s *SQLiteStore) CreateAccount(ctx context.Context, a Account) (marketplace.User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password, average_rating, total_ratings)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		a.Username, a.Email, a.PasswordHash, a.AverageRating, a.TotalRatings,
	).Scan(&a.ID)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return marketplace.User{}, ErrEmailTaken
		}
		return marketplace.User{}, fmt.Errorf("insert user: %w", err)
	}
	return a.User, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
