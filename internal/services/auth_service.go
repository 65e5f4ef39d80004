package services

import (
	"context"
	"strings"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for an unknown login or a wrong password.
var ErrBadCredentials = domain.ValidationError{Field: "credentials", Msg: "invalid email/username or password"}

type AuthService struct {
	Deps
	Secret   []byte
	TokenTTL time.Duration
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (s AuthService) Login(ctx context.Context, req models.LoginRequest) (Session, error) {
	u, err := repositories.UserRepository{DB: s.handle()}.GetByLogin(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			return Session{}, ErrBadCredentials
		}
		return Session{}, domain.Internal("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return Session{}, ErrBadCredentials
	}
	if u.Status != "" && u.Status != "active" {
		return Session{}, domain.ConflictError{Resource: "user", Msg: "account is " + u.Status}
	}

	now := utils.NowUTC()
	if s.Now != nil {
		now = s.Now()
	}
	token, err := auth.IssueToken(s.Secret, u.ID, u.Username, u.Role, s.TokenTTL, now)
	if err != nil {
		return Session{}, domain.Internal("failed to issue token", err)
	}
	s.log("auth", "login", "user_id=%d role=%s", u.ID, u.Role)
	return Session{Token: token, ExpiresAt: now.Add(s.TokenTTL), User: u}, nil
}

// Register creates an agent account. Admins are promoted directly in the database.
func (s AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	u := models.User{
		Name:     utils.NormalizeSpace(req.Name),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     models.RoleAgent,
		Status:   "active",
	}
	if u.Name == "" || u.Username == "" || u.Email == "" {
		return models.User{}, domain.Invalid("user", "name, username and email are required")
	}
	repo := repositories.UserRepository{DB: s.handle()}
	exists, err := repo.Exists(ctx, u.Email, u.Username)
	if err != nil {
		return models.User{}, domain.Internal("failed to check user", err)
	}
	if exists {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "email or username already registered"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.Internal("failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	if u.ID, err = repo.Insert(ctx, u); err != nil {
		return models.User{}, domain.Internal("failed to save user", err)
	}
	s.log("auth", "register", "user_id=%d", u.ID)
	return u, nil
}
