package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/optique-pos/api/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password; callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the username/password pair submitted by the login form.
type Credentials struct {
	Username string
	Password string
}

// Session identifies a verified user. Token issuance is the handler's
// concern, not the authenticator's.
type Session struct {
	UserID   uuid.UUID
	Username string
	FullName string
	Role     string
}

// Authenticator verifies credentials against some identity backend, so
// real credential issuance can be substituted without touching handlers.
type Authenticator interface {
	Verify(ctx context.Context, creds Credentials) (Session, error)
}

// UserStore defines the database methods needed by the DB authenticator.
// Satisfied by *database.Queries.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (database.User, error)
}

// DBAuthenticator verifies against bcrypt-hashed passwords in the users
// table.
type DBAuthenticator struct {
	store UserStore
}

func NewDBAuthenticator(store UserStore) *DBAuthenticator {
	return &DBAuthenticator{store: store}
}

func (a *DBAuthenticator) Verify(ctx context.Context, creds Credentials) (Session, error) {
	user, err := a.store.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}
