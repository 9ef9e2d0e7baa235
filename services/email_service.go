package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/benchboss/lineup-system/config"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}
	return nil
}

func (s *EmailService) GenerateEmailBody(templatePath string, data interface{}) (string, error) {
	t, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга шаблона %s: %w", templatePath, err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("ошибка выполнения шаблона %s: %w", templatePath, err)
	}
	return body.String(), nil
}

func (s *EmailService) SendWelcomeEmail(userEmail string, confirmationToken string) error {
	subject := "Welcome to BenchBoss!"
	templateData := struct {
		Email            string
		ConfirmationLink string
	}{
		Email:            userEmail,
		ConfirmationLink: fmt.Sprintf("%s/confirm-email?token=%s", s.cfg.PublicURL, confirmationToken),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/welcome_email.html", templateData)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела приветственного письма: %w", err)
	}
	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendPasswordResetEmail(userEmail string, resetToken string) error {
	subject := "BenchBoss password reset"
	templateData := struct {
		Email     string
		ResetLink string
	}{
		Email:     userEmail,
		ResetLink: fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicURL, resetToken),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/password_reset_email.html", templateData)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма для сброса пароля: %w", err)
	}
	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

// SendAccountApprovedEmail уведомляет тренера, что админ одобрил аккаунт.
func (s *EmailService) SendAccountApprovedEmail(userEmail string) error {
	subject := "Your BenchBoss account has been approved"
	templateData := struct {
		Email     string
		LoginLink string
	}{
		Email:     userEmail,
		LoginLink: fmt.Sprintf("%s/login", s.cfg.PublicURL),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/account_approved_email.html", templateData)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма об одобрении: %w", err)
	}
	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}
