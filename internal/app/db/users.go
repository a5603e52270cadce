package db

import (
	"context"
	"time"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/randx"
)

// User is the account record as stored in the users table.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser inserts a new account with a generated id and returns the stored
// record. A duplicate username surfaces as a unique violation (see
// IsUniqueViolation).
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	u := User{
		ID:           randx.UserID(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		u.ID, u.Username, u.PasswordHash,
	)

	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}

	return u, nil
}

// GetUserByUsername fetches an account by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User

	row := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users
		 WHERE username = $1`,
		username,
	)

	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return User{}, err
	}

	return u, nil
}

// GetUserByID fetches an account by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	var u User

	row := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users
		 WHERE id = $1`,
		id,
	)

	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return User{}, err
	}

	return u, nil
}

// ListUsers returns the id and username of every account, ordered by username.
// Used by the contact sidebar; password hashes never leave this package.
func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username
		 FROM users
		 ORDER BY username`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
