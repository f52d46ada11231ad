package smtp

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/config"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
)

type fakeSession struct {
	from     string
	rcpt     []string
	body     bytes.Buffer
	rcptErr  error
	quit     bool
	closed   bool
	dataOpen bool
}

func (f *fakeSession) Mail(from string) error {
	f.from = from
	return nil
}

func (f *fakeSession) Rcpt(to string) error {
	if f.rcptErr != nil {
		return f.rcptErr
	}
	f.rcpt = append(f.rcpt, to)
	return nil
}

func (f *fakeSession) Data() (io.WriteCloser, error) {
	f.dataOpen = true
	return f, nil
}

func (f *fakeSession) Write(p []byte) (int, error) {
	return f.body.Write(p)
}

func (f *fakeSession) Quit() error {
	f.quit = true
	return nil
}

func (f *fakeSession) Close() error {
	if f.dataOpen {
		f.dataOpen = false
		return nil
	}
	f.closed = true
	return nil
}

func newTestTransport(s *fakeSession, dialErr error) *Transport {
	t := NewTransport(config.SMTP{SMTPUser: "noreply@meetapp.dev"}, sl.Discard())
	t.dial = func() (session, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return s, nil
	}
	return t
}

func TestMessage_Bytes(t *testing.T) {
	msg := Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Встреча",
		Body:    "текст",
	}

	raw := string(msg.Bytes("noreply@meetapp.dev"))

	assert.Contains(t, raw, "From: noreply@meetapp.dev\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "\r\n\r\nтекст")
}

func TestTransport_Send(t *testing.T) {
	s := &fakeSession{}
	tr := newTestTransport(s, nil)

	err := tr.Send(Message{To: []string{"alice@example.com"}, Subject: "Hi", Body: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "noreply@meetapp.dev", s.from)
	assert.Equal(t, []string{"alice@example.com"}, s.rcpt)
	assert.Contains(t, s.body.String(), "hello")
	assert.True(t, s.quit)
	assert.True(t, s.closed)
}

func TestTransport_Send_Errors(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		err := newTestTransport(&fakeSession{}, nil).Send(Message{Subject: "Hi"})
		assert.ErrorIs(t, err, ErrNoRecipients)
	})

	t.Run("dial failure", func(t *testing.T) {
		err := newTestTransport(nil, errors.New("connection refused")).Send(Message{To: []string{"a@example.com"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("recipient rejected", func(t *testing.T) {
		s := &fakeSession{rcptErr: errors.New("550 mailbox unavailable")}
		err := newTestTransport(s, nil).Send(Message{To: []string{"a@example.com"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mailbox unavailable")
		assert.False(t, s.quit)
		assert.True(t, s.closed)
	})
}
