package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/meetapp/internal/config"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
)

const dialTimeout = 10 * time.Second

// ErrNoRecipients письмо без получателей.
var ErrNoRecipients = errors.New("smtp: message has no recipients")

// session команды SMTP, нужные для доставки одного письма.
type session interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transport отправляет письма от имени cfg.SMTPUser.
// На каждое письмо открывается отдельное соединение.
type Transport struct {
	cfg  config.SMTP
	log  *slog.Logger
	dial func() (session, error)
}

// NewTransport создает Transport для сервера из cfg.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	t := &Transport{cfg: cfg, log: log}
	t.dial = t.connect
	return t
}

// Send доставляет msg.
func (t *Transport) Send(msg Message) error {
	const op = "smtp.Send"
	if len(msg.To) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRecipients)
	}

	s, err := t.dial()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			t.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err = deliver(s, t.cfg.SMTPUser, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func deliver(s session, from string, msg Message) error {
	if err := s.Mail(from); err != nil {
		return fmt.Errorf("mail from %s: %w", from, err)
	}
	for _, addr := range msg.To {
		if err := s.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to %s: %w", addr, err)
		}
	}

	wc, err := s.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err = wc.Write(msg.Bytes(from)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return s.Quit()
}

// connect открывает соединение, включает STARTTLS и авторизуется через PLAIN.
func (t *Transport) connect() (session, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, errors.New("server does not support STARTTLS")
	}
	err = client.StartTLS(&tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("starttls: %w", err)
	}

	if err = client.Auth(smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}
	return client, nil
}
