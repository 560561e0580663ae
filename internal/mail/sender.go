package mail

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/config"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer sends a message and reports whether it went out.
type Mailer interface {
	Send(msg Message) bool
}

type Sender struct {
	cfg    config.EmailConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.EmailConfig, logger *zap.Logger) *Sender {
	return &Sender{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// Send is a logged no-op when email is disabled. Failures are logged, not returned.
func (s *Sender) Send(msg Message) bool {
	if !s.cfg.Enabled {
		s.logger.Info("email disabled, skipping send",
			zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
		return true
	}

	port := s.cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, port)

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	if err := s.send(addr, auth, s.cfg.FromAddress, msg.To, s.render(msg)); err != nil {
		s.logger.Error("email send failed",
			zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return false
	}
	return true
}

func (s *Sender) render(msg Message) []byte {
	from := s.cfg.FromAddress
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress)
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}
