package services

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"agritoken-exchange/internal/config"
	"agritoken-exchange/internal/core/domain"
)

// FeedbackService relays user feedback to the operator mailbox. It is
// decoupled from the loan ledger: a send failure never rolls back core
// state.
type FeedbackService struct {
	cfg     config.SMTPConfig
	enabled bool
}

// NewFeedbackService creates a new feedback service. The channel is
// disabled when no sender credentials are configured.
func NewFeedbackService(cfg config.SMTPConfig) *FeedbackService {
	return &FeedbackService{
		cfg:     cfg,
		enabled: cfg.Sender != "" && cfg.Receiver != "",
	}
}

// IsEnabled checks if the feedback channel is configured
func (s *FeedbackService) IsEnabled() bool {
	return s.enabled
}

// Send relays feedback text as a transactional mail. The SMTP dial is
// bounded by the configured timeout so a slow mail server cannot stall the
// request path indefinitely.
func (s *FeedbackService) Send(fromUsername, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: feedback text is required", domain.ErrValidation)
	}
	if !s.enabled {
		return fmt.Errorf("%w: feedback channel not configured", domain.ErrExternalService)
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	timeout := time.Duration(s.cfg.TimeoutSeconds) * time.Second

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.Sender, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	if err := s.writeMessage(client, fromUsername, text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	return client.Quit()
}

func (s *FeedbackService) writeMessage(client *smtp.Client, fromUsername, text string) error {
	if err := client.Mail(s.cfg.Sender); err != nil {
		return err
	}
	if err := client.Rcpt(s.cfg.Receiver); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: New feedback from AgriToken Exchange\r\n\r\nFeedback from %s:\r\n\r\n%s\r\n",
		s.cfg.Sender, s.cfg.Receiver, fromUsername, text)

	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
