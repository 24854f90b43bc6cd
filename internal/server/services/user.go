// Package services contains server-side business logic: accounts and
// tokens, diary persistence, and blob-storage presigning.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/server/auth"
	"github.com/dmitrijs2005/mooddiary/internal/server/config"
	"github.com/dmitrijs2005/mooddiary/internal/server/models"
	"github.com/dmitrijs2005/mooddiary/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair bundles a short-lived access token and a longer-lived refresh
// token. Owner is the account id the pair was issued for.
type TokenPair struct {
	Owner        string
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Refresh: mint a new pair from a valid refresh token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new account. Duplicate usernames surface as
// common.ErrLoginAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrInternal
	}

	user := &models.User{UserName: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrLoginAlreadyExists) {
			return err
		}
		return fmt.Errorf("error creating user: %v", err)
	}
	return nil
}

// Login verifies the credentials and, on success, returns a new TokenPair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidLoginPassword
		}
		return nil, common.ErrInternal
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrInvalidLoginPassword
	}
	return s.generateTokenPair(user.ID)
}

// Refresh validates a refresh token and mints a fresh pair. Tokens are
// stateless; rotation invalidates nothing server-side, the old refresh
// token simply ages out.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := auth.GetUserIDFromToken(refreshToken, auth.TokenTypeRefresh, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(userID)
}

func (s *UserService) generateTokenPair(userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, auth.TokenTypeAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := auth.GenerateToken(userID, auth.TokenTypeRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{Owner: userID, AccessToken: access, RefreshToken: refresh}, nil
}
