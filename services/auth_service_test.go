package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benchboss/lineup-system/models"
	"golang.org/x/crypto/bcrypt"
)

func registerCoach(t *testing.T, svc AuthService, email string) (*models.User, string) {
	t.Helper()
	user, token, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     email,
		Password:  "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user, token
}

func TestRegisterCreatesPendingCoach(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	user, token := registerCoach(t, svc, "  Coach@Example.COM ")
	if user.Email != "coach@example.com" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
	if user.Role != models.RoleCoach {
		t.Errorf("role = %s, want coach", user.Role)
	}
	// Новый аккаунт ждёт одобрения администратора.
	if user.Status != models.UserStatusPending {
		t.Errorf("status = %s, want pending", user.Status)
	}
	if token == "" {
		t.Error("confirmation token is empty")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()
	registerCoach(t, svc, "taken@example.com")

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"short password", RegisterInput{Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
		{"invalid email", RegisterInput{Email: "not-an-email", Password: "correct-horse"}, ErrValidationFailed},
		{"duplicate email", RegisterInput{Email: "taken@example.com", Password: "correct-horse"}, ErrAuthEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Register(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginStatusGate(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()
	user, _ := registerCoach(t, svc, "coach@example.com")

	// pending не пускаем даже с верным паролем
	if _, err := svc.Login(ctx, LoginInput{Email: "coach@example.com", Password: "correct-horse"}); !errors.Is(err, ErrAccountNotApproved) {
		t.Fatalf("pending login: error = %v, want ErrAccountNotApproved", err)
	}

	if err := users.UpdateStatus(ctx, user.ID, models.UserStatusActive); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	got, err := svc.Login(ctx, LoginInput{Email: "Coach@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("active login: error = %v", err)
	}
	if got.PasswordHash != "" {
		t.Error("login response leaked password hash")
	}

	if err := users.UpdateStatus(ctx, user.ID, models.UserStatusBanned); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "coach@example.com", Password: "correct-horse"}); !errors.Is(err, ErrAccountBanned) {
		t.Fatalf("banned login: error = %v, want ErrAccountBanned", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()
	registerCoach(t, svc, "coach@example.com")

	if _, err := svc.Login(ctx, LoginInput{Email: "coach@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("wrong password: error = %v, want ErrAuthInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("unknown email: error = %v, want ErrAuthInvalidCredentials", err)
	}
}

func TestConfirmEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()
	user, token := registerCoach(t, svc, "coach@example.com")

	if err := svc.ConfirmEmail(ctx, token); err != nil {
		t.Fatalf("ConfirmEmail() error = %v", err)
	}
	if got, _ := users.GetByID(ctx, user.ID); !got.EmailConfirmed {
		t.Error("email not marked confirmed")
	}
	// Повторное использование токена не проходит.
	if err := svc.ConfirmEmail(ctx, token); !errors.Is(err, ErrInvalidConfirmToken) {
		t.Fatalf("token reuse: error = %v, want ErrInvalidConfirmToken", err)
	}
	if err := svc.ConfirmEmail(ctx, "bogus"); !errors.Is(err, ErrInvalidConfirmToken) {
		t.Fatalf("bogus token: error = %v, want ErrInvalidConfirmToken", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()
	user, _ := registerCoach(t, svc, "coach@example.com")
	if err := users.UpdateStatus(ctx, user.ID, models.UserStatusActive); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// Неизвестный email не раскрывается: пустой токен без ошибки.
	token, err := svc.GeneratePasswordResetToken(ctx, "nobody@example.com")
	if err != nil || token != "" {
		t.Fatalf("unknown email: token %q, err %v; want empty token, nil", token, err)
	}

	token, err = svc.GeneratePasswordResetToken(ctx, "coach@example.com")
	if err != nil || token == "" {
		t.Fatalf("GeneratePasswordResetToken() token %q, err %v", token, err)
	}

	if err := svc.ResetPasswordByToken(ctx, token, "new-password-1"); err != nil {
		t.Fatalf("ResetPasswordByToken() error = %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "coach@example.com", Password: "new-password-1"}); err != nil {
		t.Fatalf("login with new password: error = %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()
	user, _ := registerCoach(t, svc, "coach@example.com")

	expired := "expired-token"
	if err := users.SetPasswordResetToken(ctx, user.ID, expired, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("SetPasswordResetToken() error = %v", err)
	}
	if err := svc.ResetPasswordByToken(ctx, expired, "new-password-1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expired token: error = %v, want ErrInvalidResetToken", err)
	}
	if err := svc.ResetPasswordByToken(ctx, "bogus", "new-password-1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("unknown token: error = %v, want ErrInvalidResetToken", err)
	}
}
