package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService — регистрация тренеров и вход. Новый аккаунт создаётся в
// статусе pending и не может войти до одобрения администратором.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	ConfirmEmail(ctx context.Context, token string) error
	GeneratePasswordResetToken(ctx context.Context, email string) (string, error)
	ResetPasswordByToken(ctx context.Context, token string, newPassword string) error
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{
		userRepo: userRepo,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: invalid email", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	confirmationToken := generateRandomToken(32)

	user := &models.User{
		FirstName:              strings.TrimSpace(input.FirstName),
		LastName:               strings.TrimSpace(input.LastName),
		Email:                  email,
		PasswordHash:           string(hashedPassword),
		Role:                   models.RoleCoach,
		Status:                 models.UserStatusPending,
		EmailConfirmed:         false,
		EmailConfirmationToken: confirmationToken,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrAuthEmailTaken
		}
		return nil, "", fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return user, confirmationToken, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	// Статус проверяем после пароля, чтобы не раскрывать состояние чужого
	// аккаунта по одному только email.
	switch user.Status {
	case models.UserStatusPending:
		return nil, ErrAccountNotApproved
	case models.UserStatusBanned:
		return nil, ErrAccountBanned
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidConfirmToken
		}
		return fmt.Errorf("failed to look up confirmation token: %w", err)
	}
	if user.EmailConfirmed {
		return ErrInvalidConfirmToken
	}
	if err := s.userRepo.ConfirmEmail(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

func (s *authService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Не раскрываем, зарегистрирован ли email.
		return "", nil
	}
	resetToken := generateRandomToken(32)
	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, resetToken, time.Now().Add(1*time.Hour)); err != nil {
		return "", err
	}
	return resetToken, nil
}

func (s *authService) ResetPasswordByToken(ctx context.Context, token string, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByPasswordResetToken(ctx, token)
	if err != nil {
		log.Printf("Error getting user by password reset token: %v", err)
		return ErrInvalidResetToken
	}
	if user.PasswordResetExpiresAt == nil || user.PasswordResetExpiresAt.Before(time.Now()) {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.PasswordResetToken = nil
	user.PasswordResetExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	return nil
}

func generateRandomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		for i := range b {
			b[i] = charset[int(time.Now().UnixNano())%len(charset)]
		}
		return string(b)
	}
	for i, rb := range randomBytes {
		b[i] = charset[int(rb)%len(charset)]
	}
	return string(b)
}
