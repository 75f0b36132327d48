package service

import (
	"context"
	"errors"
	"fmt"

	"todoapi/internal/auth"
	dom "todoapi/internal/domain"
	"todoapi/internal/repo"
	"todoapi/internal/utils"
)

// UserService handles registration, credential checks and the per-user token list.
type UserService struct {
	repo   repo.UserRepo
	hasher *auth.PasswordHasher
	tokens *auth.TokenCodec
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, hasher *auth.PasswordHasher, tokens *auth.TokenCodec) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens}
}

// Register validates input, hashes the password and creates the user.
func (s *UserService) Register(ctx context.Context, email, password string) (dom.User, error) {
	email = utils.NormalizeEmail(email)
	if err := dom.Validate(dom.ValidateEmail(email), dom.ValidatePassword(password)); err != nil {
		return dom.User{}, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return dom.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.repo.Create(ctx, dom.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return dom.User{}, ErrDuplicateEmail
		}
		return dom.User{}, err
	}
	return u, nil
}

// FindByCredentials returns the user for email if password matches.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IssueSession mints an auth token and appends it to the user's token list.
func (s *UserService) IssueSession(ctx context.Context, u dom.User) (string, error) {
	token, err := s.tokens.Issue(u.ID, dom.PurposeAuth)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.repo.PushToken(ctx, u.ID, dom.Token{Purpose: dom.PurposeAuth, Value: token}); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// FindByToken requires both a valid signature and a live entry in the user's token list.
func (s *UserService) FindByToken(ctx context.Context, token string) (dom.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return dom.User{}, ErrInvalidToken
	}
	u, err := s.repo.GetByToken(ctx, claims.UserID, dom.PurposeAuth, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrInvalidToken
		}
		return dom.User{}, err
	}
	return u, nil
}

// RemoveToken revokes token. Removing a token that is not in the list is not an error.
func (s *UserService) RemoveToken(ctx context.Context, u dom.User, token string) error {
	if err := s.repo.PullToken(ctx, u.ID, token); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return nil
}

// ChangePassword checks the current password, then stores a fresh hash of next.
// This is the only path other than Register that writes the password hash.
func (s *UserService) ChangePassword(ctx context.Context, u dom.User, current, next string) error {
	if !s.hasher.Verify(current, u.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := dom.Validate(dom.ValidatePassword(next)); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.SetPasswordHash(ctx, u.ID, hash)
}
