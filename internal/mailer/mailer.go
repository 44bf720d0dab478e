// Package mailer is the outbound email collaborator. Delivery is plain SMTP
// when a host is configured; otherwise messages are logged, which keeps local
// development working without credentials.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/spec-kit/carventory/internal/config"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// New returns an SMTP sender when configured, a logging stub otherwise.
func New(cfg config.MailConfig, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		logger.Warn("MAIL_HOST not set; emails will be logged, not sent")
		return &logSender{logger: logger}
	}
	return &smtpSender{cfg: cfg, logger: logger}
}

type smtpSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func (s *smtpSender) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		s.cfg.From, to, subject, htmlBody)

	addr := s.cfg.Host + ":" + s.cfg.Port
	var a smtp.Auth
	if s.cfg.Username != "" {
		a = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, a, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Info("email (stub)", zap.String("to", to), zap.String("subject", subject))
	return nil
}
