package mail

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/config"
)

func TestSendDisabledIsNoop(t *testing.T) {
	s := New(config.EmailConfig{Enabled: false}, zap.NewNop())
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("smtp must not be called")
		return nil
	}
	if !s.Send(Message{To: []string{"a@example.com"}, Subject: "hi"}) {
		t.Fatal("disabled send should report success")
	}
}

func TestSendReportsFailure(t *testing.T) {
	cfg := config.EmailConfig{Enabled: true, SMTPHost: "smtp.example.com", SMTPPort: 2525, FromAddress: "hello@tahoak.org", FromName: "TahOak"}
	s := New(cfg, zap.NewNop())

	var gotAddr string
	var gotMsg []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotMsg = addr, msg
		return nil
	}
	if !s.Send(Message{To: []string{"a@example.com"}, Subject: "Hello", HTML: "<p>x</p>"}) {
		t.Fatal("send should succeed")
	}
	if gotAddr != "smtp.example.com:2525" {
		t.Fatalf("addr = %q", gotAddr)
	}
	if !strings.Contains(string(gotMsg), "From: TahOak <hello@tahoak.org>\r\n") || !strings.HasSuffix(string(gotMsg), "<p>x</p>") {
		t.Fatalf("unexpected message:\n%s", gotMsg)
	}

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }
	if s.Send(Message{To: []string{"a@example.com"}}) {
		t.Fatal("failure should report false")
	}
}

func TestVerificationEmail(t *testing.T) {
	msg, err := VerificationEmail("subscription", "es", "a@example.com", "https://tahoak.org/verify?token=abc&x=1")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Subject != "Confirma tu suscripción" || !strings.Contains(msg.HTML, "token=abc&amp;x=1") {
		t.Fatalf("unexpected message: %+v", msg)
	}

	msg, _ = VerificationEmail("claim", "fr", "a@example.com", "https://x")
	if msg.Subject != "Confirm your listing claim" {
		t.Fatalf("fallback subject = %q", msg.Subject)
	}
}
