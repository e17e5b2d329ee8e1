package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gatherly/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthConfig holds token lifetimes and the per-call timeout for the auth service.
type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Timeout         time.Duration
}

type authService struct {
	tx             domain.TxManager
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	verifier       domain.TokenVerifier
	accessTTL      time.Duration
	refreshTTL     time.Duration
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAuthService creates an AuthService backed by tx for storage and the given token
// issuer/verifier pair.
func NewAuthService(tx domain.TxManager, hasher domain.PasswordHasher, issuer domain.TokenIssuer, verifier domain.TokenVerifier, cfg AuthConfig) domain.AuthService {
	return &authService{
		tx:             tx,
		hasher:         hasher,
		issuer:         issuer,
		verifier:       verifier,
		accessTTL:      cfg.AccessTokenTTL,
		refreshTTL:     cfg.RefreshTokenTTL,
		contextTimeout: cfg.Timeout,
		now:            time.Now,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, *domain.Credentials, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if missing := missingFields("username", username, "email", email, "password", password); missing != nil {
		return nil, nil, missing
	}
	if !emailRegexp.MatchString(email) {
		return nil, nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(username, email, s.now().UTC())
	user.PasswordHash = hash
	user.Salt = salt

	err = s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := repos.Users.GetByUsername(ctx, username); err == nil {
			return domain.ErrDuplicateUsername
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("lookup username: %w", err)
		}
		if _, err := repos.Users.GetByEmail(ctx, email); err == nil {
			return domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("lookup email: %w", err)
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
				return err
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	creds, err := s.issue(user.ID, true)
	if err != nil {
		return nil, nil, err
	}
	return user, creds, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Credentials, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	if missing := missingFields("username", username, "password", password); missing != nil {
		return nil, nil, missing
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		u, err := repos.Users.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidCredentials
			}
			return fmt.Errorf("get user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if s.hasher.NeedsRehash(user.PasswordHash) {
		if err := s.rehash(ctx, user, password); err != nil {
			return nil, nil, err
		}
	}

	creds, err := s.issue(user.ID, true)
	if err != nil {
		return nil, nil, err
	}
	return user, creds, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *domain.Credentials, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	userID, err := s.verifier.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return nil, nil, err
	}

	var user *domain.User
	err = s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		u, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidToken
			}
			return fmt.Errorf("get user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	creds, err := s.issue(user.ID, false)
	if err != nil {
		return nil, nil, err
	}
	return user, creds, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if missing := missingFields("current_password", currentPassword, "new_password", newPassword); missing != nil {
		return missing
	}

	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("get user: %w", err)
		}
		if err := s.hasher.Compare(user.PasswordHash, user.Salt, currentPassword); err != nil {
			return domain.ErrInvalidCredentials
		}
		salt, err := s.hasher.GenerateSalt()
		if err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(salt, newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := repos.Users.UpdatePassword(ctx, userID, hash, salt); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("update password: %w", err)
		}
		return nil
	})
}

// rehash stores password under a fresh salt at the hasher's current cost.
func (s *authService) rehash(ctx context.Context, user *domain.User, password string) error {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		return repos.Users.UpdatePassword(ctx, user.ID, hash, salt)
	})
	if err != nil {
		return fmt.Errorf("rehash password: %w", err)
	}
	user.PasswordHash, user.Salt = hash, salt
	return nil
}

// issue mints an access token and, when withRefresh is set, a refresh token.
func (s *authService) issue(userID int64, withRefresh bool) (*domain.Credentials, error) {
	now := s.now()
	access, err := s.issuer.Issue(userID, domain.TokenAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	creds := &domain.Credentials{
		AccessToken:     access,
		AccessExpiresAt: now.Add(s.accessTTL),
	}
	if !withRefresh {
		return creds, nil
	}
	refresh, err := s.issuer.Issue(userID, domain.TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	creds.RefreshToken = refresh
	creds.RefreshExpiresAt = now.Add(s.refreshTTL)
	return creds, nil
}
