package devapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/gommon/log"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

type PGStore struct {
	pool *pgxpool.Pool
	log  *log.Logger
}

// OpenPostgres connects to dsn and makes sure the tables the API needs exist.
func OpenPostgres(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &PGStore{pool: pool, log: log.New("devapi")}
	s.log.Info("connected to Postgres successfully")

	if err := s.ensureTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	// Databases created before ratings were tracked lack these columns.
	s.ensureColumn(ctx, "users", "average_rating", "DOUBLE PRECISION NOT NULL DEFAULT 0")
	s.ensureColumn(ctx, "users", "total_ratings", "INTEGER NOT NULL DEFAULT 0")
	s.ensureColumn(ctx, "posts", "work_schedule", "TEXT NOT NULL DEFAULT ''")
	return s, nil
}

func (s *PGStore) ensureTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_ratings INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS posts (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            service_type TEXT NOT NULL,
            salary TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL,
            area TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL,
            work_schedule TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_posts_city ON posts(city);
        CREATE INDEX IF NOT EXISTS idx_posts_service_type ON posts(service_type);
    `)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// ensureColumn adds table.column if missing. Failures are logged, not fatal.
func (s *PGStore) ensureColumn(ctx context.Context, table, column, def string) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.columns
            WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
        )`, table, column).Scan(&exists)
	if err != nil {
		s.log.Warnf("schema check failed: %v", err)
		return
	}
	if exists {
		return
	}
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s`, table, column, def)); err != nil {
		s.log.Warnf("failed to add %s.%s: %v", table, column, err)
		return
	}
	s.log.Infof("%s.%s column ensured", table, column)
}

func pgPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

func (s *PGStore) ListPosts(ctx context.Context, f marketplace.Filters) ([]marketplace.Post, error) {
	query, args := postsQuery(f, pgPlaceholder)
	rows, err := s.pool.Query(ctx, query, args...)
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

func (s *PGStore) CreatePost(ctx context.Context, p marketplace.NewPost) (marketplace.Post, error) {
	if _, err := s.UserByID(ctx, p.UserID); err != nil {
		return marketplace.Post{}, err
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
        INSERT INTO posts (user_id, title, service_type, salary, city, area, description, work_schedule)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		p.UserID, p.Title, p.ServiceType, p.Salary, p.City, p.Area, p.Description, p.WorkSchedule,
	).Scan(&id)
	if err != nil {
		return marketplace.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return scanPost(s.pool.QueryRow(ctx, postByIDQuery(pgPlaceholder), id))
}

func (s *PGStore) UserByID(ctx context.Context, id int64) (marketplace.User, error) {
	var u marketplace.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, average_rating, total_ratings FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.AverageRating, &u.TotalRatings)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, err
}

func (s *PGStore) AccountByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, average_rating, total_ratings, password FROM users WHERE email = $1`, email,
	).Scan(&a.ID, &a.Username, &a.Email, &a.AverageRating, &a.TotalRatings, &a.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

func (s *PGStore) CreateAccount(ctx context.Context, a Account) (marketplace.User, error) {
	err := s.pool.QueryRow(ctx, `
        INSERT INTO users (username, email, password, average_rating, total_ratings)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`,
		a.Username, a.Email, a.PasswordHash, a.AverageRating, a.TotalRatings,
	).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return marketplace.User{}, ErrEmailTaken
		}
		return marketplace.User{}, fmt.Errorf("insert user: %w", err)
	}
	return a.User, nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
