package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repository"
	"blog/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid credentials"

// TokenIssuer is the part of auth.Tokens the user service needs.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	Revoke(ctx context.Context, claims *auth.Claims) error
}

type UserService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hashCost int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if err := s.ensureAvailable(ctx, email, username); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{Username: username, Email: email, Password: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *UserService) ensureAvailable(ctx context.Context, email, username string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return models.NewConflictError("Email already registered")
	} else if !models.IsCode(err, models.CodeNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return models.NewConflictError("Username already taken")
	} else if !models.IsCode(err, models.CodeNotFound) {
		return err
	}
	return nil
}

// Login reports the same error for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, models.NewInternalError(err)
	}
	return s.issue(user)
}

// Logout revokes the token described by claims.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return models.NewUnauthorizedError("Authorization required")
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("issue token: %w", err))
	}
	return &AuthResult{Token: token, User: user}, nil
}
