// Package devapi is a local stand-in for the marketplace API the clients
// consume. It serves the same four endpoints over echo, backed by SQLite or
// Postgres.
package devapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// Account is a user together with its password hash.
type Account struct {
	marketplace.User
	PasswordHash string
}

type Store interface {
	ListPosts(ctx context.Context, f marketplace.Filters) ([]marketplace.Post, error)
	// CreatePost stores p and returns it with its id and author.
	CreatePost(ctx context.Context, p marketplace.NewPost) (marketplace.Post, error)
	UserByID(ctx context.Context, id int64) (marketplace.User, error)
	AccountByEmail(ctx context.Context, email string) (Account, error)
	CreateAccount(ctx context.Context, a Account) (marketplace.User, error)
	Ping(ctx context.Context) error
	Close() error
}

// Register creates an account with a bcrypt hash of password.
func Register(ctx context.Context, s Store, username, email, password string) (marketplace.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return marketplace.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.CreateAccount(ctx, Account{
		User:         marketplace.User{Username: username, Email: normalizeEmail(email)},
		PasswordHash: string(hash),
	})
}

// Authenticate returns the user owning email if password matches.
func Authenticate(ctx context.Context, s Store, email, password string) (marketplace.User, error) {
	acc, err := s.AccountByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return marketplace.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return marketplace.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return marketplace.User{}, ErrInvalidCredentials
	}
	return acc.User, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Queries shared by both stores. Placeholders are rendered by the store.

const postColumns = `p.id, p.title, p.service_type, p.salary, p.city, p.area, p.description, p.work_schedule,
       u.id, u.username, u.average_rating, u.total_ratings`

const postsFrom = ` FROM posts p JOIN users u ON u.id = p.user_id`

// postsQuery builds the listing query for f, newest first.
func postsQuery(f marketplace.Filters, placeholder func(n int) string) (string, []any) {
	query := `SELECT ` + postColumns + postsFrom
	var where []string
	var args []any
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		where = append(where, col+" = "+placeholder(len(args)))
	}
	add("p.city", f.City)
	add("p.service_type", f.ServiceType)
	add("p.work_schedule", f.WorkSchedule)

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"
	return query, args
}

func postByIDQuery(placeholder func(n int) string) string {
	return `SELECT ` + postColumns + postsFrom + ` WHERE p.id = ` + placeholder(1)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (marketplace.Post, error) {
	var (
		p marketplace.Post
		u marketplace.User
	)
	err := row.Scan(&p.ID, &p.Title, &p.ServiceType, &p.Salary, &p.City, &p.Area, &p.Description, &p.WorkSchedule,
		&u.ID, &u.Username, &u.AverageRating, &u.TotalRatings)
	if err != nil {
		return p, err
	}
	p.UserID = u.ID
	p.User = &u
	return p, nil
}

// Open returns the store for driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "sqlite":
		s, err = OpenSQLite(dsn)
	case "postgres":
		s, err = OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
