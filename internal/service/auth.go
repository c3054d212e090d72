// Package service реализует бизнес-логику сервиса заказов.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/order-service/internal/model"
	"github.com/mmeshcher/order-service/internal/repository"
)

// ErrInvalidCredentials возвращается при неудачной аутентификации.
// Отсутствие пользователя и неверный пароль для вызывающего неразличимы.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// UserRepository описывает контракт хранилища учётных записей.
type UserRepository interface {
	CreateUser(ctx context.Context, email string, passwordHash []byte) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer выпускает токен доступа для идентификатора пользователя.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthService отвечает за регистрацию и аутентификацию пользователей.
type AuthService struct {
	repo   UserRepository
	tokens TokenIssuer
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register регистрирует нового пользователя. Пароль хранится только в виде
// bcrypt-хеша; при занятом email возвращается repository.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.CreateUser(ctx, email, hash)
}

// Authenticate проверяет учётные данные и возвращает подписанный токен доступа.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(u.ID)
}
