package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user and auth operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// User represents a registered user. PasswordHash and Salt never leave the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(username, email string, createdAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
	}
}

// UserSummary is the id/username pair embedded in group members, RSVPs and comments.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ProfileEvent is an event the user has responded to, together with their RSVP status.
type ProfileEvent struct {
	Event      *Event `json:"event"`
	RSVPStatus string `json:"rsvp_status"`
}

// Profile bundles a user with the groups they belong to and the events they RSVP'd to.
type Profile struct {
	User   *User           `json:"user"`
	Groups []*Group        `json:"groups"`
	Events []*ProfileEvent `json:"events"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
	// NeedsRehash reports whether a stored hash should be replaced using the current work factor.
	NeedsRehash(hash string) bool
}

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenIssuer issues signed tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, kind TokenKind, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token of the given kind and returns the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string, kind TokenKind) (userID int64, err error)
}

// Credentials are the tokens handed to a client after register, login or refresh.
// RefreshToken is empty when only the access token was re-issued.
type Credentials struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, params ListParams) ([]*User, error)
	UpdatePassword(ctx context.Context, id int64, hash, salt string) error
	Delete(ctx context.Context, id int64) error
}

// AuthService registers and authenticates users and mints credentials.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*User, *Credentials, error)
	Login(ctx context.Context, username, password string) (*User, *Credentials, error)
	// Refresh validates a refresh token and returns the user with a fresh access token.
	Refresh(ctx context.Context, refreshToken string) (*User, *Credentials, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// UserService defines user lookup, profile and account removal.
type UserService interface {
	List(ctx context.Context, params ListParams) ([]*User, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	// Delete removes the user; the schema cascades to everything they own or received.
	Delete(ctx context.Context, userID int64) error
}
